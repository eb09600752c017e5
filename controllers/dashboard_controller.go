package controllers

import (
	"net/http"

	"github.com/vneid/admin-dashboard/services"
)

// DashboardController handles dashboard-related requests
type DashboardController struct {
	services *services.Services
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(services *services.Services) *DashboardController {
	return &DashboardController{
		services: services,
	}
}

// Index handles GET /api/dashboard
func (c *DashboardController) Index(w http.ResponseWriter, r *http.Request) {
	stats, err := c.services.Dashboard.Stats(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Health handles GET /health
func (c *DashboardController) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "vneid-admin-dashboard",
	})
}
