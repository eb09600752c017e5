package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vneid/admin-dashboard/models"
	"github.com/vneid/admin-dashboard/services"
)

// HouseholdController handles the members of a user's residence
type HouseholdController struct {
	services *services.Services
}

func NewHouseholdController(services *services.Services) *HouseholdController {
	return &HouseholdController{services: services}
}

// List handles GET /api/users/{uid}/household
func (c *HouseholdController) List(w http.ResponseWriter, r *http.Request) {
	members, err := c.services.Household.List(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"household_members": members})
}

// Add handles POST /api/users/{uid}/household
func (c *HouseholdController) Add(w http.ResponseWriter, r *http.Request) {
	var member models.HouseholdMember
	if err := decodeJSON(r, &member); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	added, err := c.services.Household.Add(r.Context(), chi.URLParam(r, "uid"), &member)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, added)
}

// Sync handles PUT /api/users/{uid}/household with the complete member list
func (c *HouseholdController) Sync(w http.ResponseWriter, r *http.Request) {
	var members []models.HouseholdMember
	if err := decodeJSON(r, &members); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	synced, err := c.services.Household.Sync(r.Context(), chi.URLParam(r, "uid"), members)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"household_members": synced})
}

// Get handles GET /api/users/{uid}/household/{memberID}
func (c *HouseholdController) Get(w http.ResponseWriter, r *http.Request) {
	member, err := c.services.Household.Get(r.Context(), chi.URLParam(r, "uid"), chi.URLParam(r, "memberID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, member)
}

// Update handles PUT /api/users/{uid}/household/{memberID}
func (c *HouseholdController) Update(w http.ResponseWriter, r *http.Request) {
	var member models.HouseholdMember
	if err := decodeJSON(r, &member); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := c.services.Household.Update(r.Context(), chi.URLParam(r, "uid"), chi.URLParam(r, "memberID"), &member)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/users/{uid}/household/{memberID}
func (c *HouseholdController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.services.Household.Delete(r.Context(), chi.URLParam(r, "uid"), chi.URLParam(r, "memberID")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
