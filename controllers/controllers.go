package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/vneid/admin-dashboard/authenticator"
	"github.com/vneid/admin-dashboard/config"
	"github.com/vneid/admin-dashboard/models"
	"github.com/vneid/admin-dashboard/services"
)

// ConfirmationFailedMessage is shown when a delete confirmation does not match.
const ConfirmationFailedMessage = "Confirmation failed. Please provide the correct name or citizen ID."

const maxBodyBytes = 1 << 20

// errEmptyBody is returned by decodeJSON for a request without a body.
var errEmptyBody = errors.New("request body required")

// Controllers holds all controller instances
type Controllers struct {
	Auth      *AuthController
	Dashboard *DashboardController
	Users     *UserController
	Household *HouseholdController
	Audit     *AuditController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, provider authenticator.Provider, admin config.Admin) *Controllers {
	return &Controllers{
		Auth:      NewAuthController(provider, admin),
		Dashboard: NewDashboardController(services),
		Users:     NewUserController(services),
		Household: NewHouseholdController(services),
		Audit:     NewAuditController(services),
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON decodes a single JSON value from the body, rejecting unknown fields.
func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// respondError maps service errors onto HTTP statuses. Unexpected errors are
// logged and hidden from the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"errors": verrs,
		})
	case errors.Is(err, services.ErrConfirmationFailed):
		respondMessage(w, http.StatusForbidden, ConfirmationFailedMessage)
	case errors.Is(err, services.ErrNotFound):
		respondMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		respondMessage(w, http.StatusConflict, err.Error())
	default:
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		respondMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
