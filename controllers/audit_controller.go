package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vneid/admin-dashboard/audit"
	"github.com/vneid/admin-dashboard/models"
	"github.com/vneid/admin-dashboard/services"
)

// AuditController exposes the audit trail
type AuditController struct {
	services *services.Services
}

func NewAuditController(services *services.Services) *AuditController {
	return &AuditController{services: services}
}

// List handles GET /api/audit
func (c *AuditController) List(w http.ResponseWriter, r *http.Request) {
	filters, err := parseAuditFilters(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	records := c.services.Audit.Query(r.Context(), filters)
	respondJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

func parseAuditFilters(r *http.Request) (audit.Filters, error) {
	q := r.URL.Query()
	filters := audit.Filters{
		TargetID:      q.Get("target_id"),
		AdminIdentity: q.Get("admin"),
	}

	var err error
	if filters.ActionKind, err = audit.ParseActionKind(q.Get("action")); err != nil {
		return filters, err
	}
	if filters.Limit, err = intParam(q.Get("limit")); err != nil || filters.Limit < 0 {
		return filters, errors.New("limit must be a non-negative integer")
	}
	if filters.Start, err = parseInstant(q.Get("start"), false); err != nil {
		return filters, fmt.Errorf("start: %w", err)
	}
	if filters.End, err = parseInstant(q.Get("end"), true); err != nil {
		return filters, fmt.Errorf("end: %w", err)
	}
	return filters, nil
}

// parseInstant accepts RFC 3339 or DD/MM/YYYY. A bare date used as an end
// bound covers the whole day.
func parseInstant(v string, endOfDay bool) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	d, err := models.ParseDate(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 or DD/MM/YYYY, got %q", v)
	}
	if endOfDay {
		d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return d, nil
}

type purgeRequest struct {
	RetentionDays int `json:"retention_days"`
}

// Purge handles POST /api/audit/purge. A missing or non-positive
// retention_days uses the configured retention.
func (c *AuditController) Purge(w http.ResponseWriter, r *http.Request) {
	var req purgeRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted := c.services.Audit.PurgeOlderThan(r.Context(), req.RetentionDays)
	respondJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}
