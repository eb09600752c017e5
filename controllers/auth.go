package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"

	"gitea.com/go-chi/session"
	"github.com/rs/zerolog/hlog"

	"github.com/vneid/admin-dashboard/authenticator"
	"github.com/vneid/admin-dashboard/config"
	"github.com/vneid/admin-dashboard/middleware"
)

const defaultLandingPath = "/api/dashboard"

type AuthController struct {
	provider authenticator.Provider
	admin    config.Admin
}

func NewAuthController(provider authenticator.Provider, admin config.Admin) *AuthController {
	return &AuthController{provider: provider, admin: admin}
}

// Login initiates the authentication process
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	// Generate random state
	state, err := generateRandomState()
	if err != nil {
		respondMessage(w, http.StatusInternalServerError, "failed to generate state")
		return
	}

	// Save the state in the session to validate in callback
	sess := session.GetSession(r)
	if err := sess.Set(middleware.SessionStateKey, state); err != nil {
		respondMessage(w, http.StatusInternalServerError, "failed to store session state")
		return
	}
	if next := safeRedirect(r.URL.Query().Get("next")); next != "" {
		_ = sess.Set(middleware.SessionNextKey, next)
	}

	http.Redirect(w, r, ac.provider.GetAuthURL(state), http.StatusTemporaryRedirect)
}

// Callback handles the callback from the identity provider
func (ac *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)

	// Verify state
	storedState, _ := sess.Get(middleware.SessionStateKey).(string)
	if storedState == "" {
		respondMessage(w, http.StatusBadRequest, "state not found in session")
		return
	}
	if r.URL.Query().Get("state") != storedState {
		respondMessage(w, http.StatusBadRequest, "invalid state parameter")
		return
	}

	token, err := ac.provider.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("code exchange failed")
		respondMessage(w, http.StatusUnauthorized, "failed to exchange authorization code")
		return
	}

	claims, err := ac.provider.GetClaims(r.Context(), token)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("id token rejected")
		respondMessage(w, http.StatusUnauthorized, "failed to verify identity")
		return
	}

	email := strings.ToLower(claims.Email())
	if !ac.admin.IsAllowedAdmin(email) {
		hlog.FromRequest(r).Warn().Str("email", email).Msg("non-admin login rejected")
		respondMessage(w, http.StatusForbidden, "Access restricted to administrators")
		return
	}

	_ = sess.Set(middleware.SessionEmailKey, email)
	_ = sess.Set(middleware.SessionUserIDKey, claims.Subject())
	_ = sess.Delete(middleware.SessionStateKey)

	next, _ := sess.Get(middleware.SessionNextKey).(string)
	_ = sess.Delete(middleware.SessionNextKey)
	if next == "" {
		next = defaultLandingPath
	}

	hlog.FromRequest(r).Info().Str("email", email).Msg("admin logged in")
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout clears the session.
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	email, _ := sess.Get(middleware.SessionEmailKey).(string)
	if err := sess.Flush(); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("failed to clear session")
	}
	hlog.FromRequest(r).Info().Str("email", email).Msg("admin logged out")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// safeRedirect only allows local absolute paths.
func safeRedirect(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
