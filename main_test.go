package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vneid/admin-dashboard/authenticator"
	"github.com/vneid/admin-dashboard/config"
	"github.com/vneid/admin-dashboard/controllers"
	"github.com/vneid/admin-dashboard/docstore"
)

func testConfig(t *testing.T, authDisabled bool) config.Config {
	return config.Config{
		Addr:     ":0",
		LogLevel: "info",
		Store: config.Store{
			Driver:     docstore.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "admin.db"),
		},
		Collections: config.Collections{
			Users:            "users",
			CitizenCards:     "citizen_cards",
			Residence:        "residence",
			HouseholdMembers: "household_members",
		},
		Audit: config.Audit{
			Collection:    "audit_logs",
			RetentionDays: 365,
			BatchSize:     500,
			DefaultLimit:  100,
		},
		Admin: config.Admin{
			EmailDomain:  "@admin.vneid.com",
			AuthDisabled: authDisabled,
			DevEmail:     "admin@system.local",
		},
		PageSize:              20,
		MaxSearchResults:      100,
		SessionTimeoutMinutes: 60,
		AllowedOrigins:        []string{"http://localhost:5173"},
		RateLimitPerMinute:    1000,
	}
}

func newTestRouter(t *testing.T, authDisabled bool) http.Handler {
	cfg = testConfig(t, authDisabled)

	a, err := newApp(t.Context(), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	ctrl := controllers.NewControllers(a.services, authenticator.NewDevProvider(cfg.Admin.DevEmail), cfg.Admin)
	r, err := setupRouter(ctrl, zerolog.Nop())
	require.NoError(t, err)
	return r
}

func TestRouterHealthIsPublic(t *testing.T) {
	r := newTestRouter(t, false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouterRejectsAnonymousAPI(t *testing.T) {
	r := newTestRouter(t, false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized","error_description":"Authentication required"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2F", rec.Header().Get("Location"))
}

func TestRouterDevAdminWhenAuthDisabled(t *testing.T) {
	r := newTestRouter(t, true)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Zero(t, page.Total)
}
