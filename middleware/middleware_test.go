package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vneid/admin-dashboard/config"
	"github.com/vneid/admin-dashboard/userctx"
)

var testAdmin = config.Admin{
	EmailDomain:   "@admin.vneid.com",
	AllowedEmails: []string{"ops@partner.vn"},
	DevEmail:      "admin@system.local",
}

// echoEmail writes the admin identity the handler sees.
var echoEmail = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(userctx.GetUserEmail(r.Context())))
})

func withEmail(r *http.Request, email string) *http.Request {
	return r.WithContext(userctx.SetUserEmail(r.Context(), email))
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name         string
		admin        config.Admin
		path         string
		email        string
		wantStatus   int
		wantBody     string
		wantLocation string
	}{
		{
			name:       "admin domain",
			admin:      testAdmin,
			path:       "/api/users",
			email:      "lan@admin.vneid.com",
			wantStatus: http.StatusOK,
			wantBody:   "lan@admin.vneid.com",
		},
		{
			name:       "allow-listed email",
			admin:      testAdmin,
			path:       "/api/users",
			email:      "OPS@partner.vn",
			wantStatus: http.StatusOK,
			wantBody:   "OPS@partner.vn",
		},
		{
			name:       "non-admin",
			admin:      testAdmin,
			path:       "/api/users",
			email:      "someone@gmail.com",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "api without session",
			admin:      testAdmin,
			path:       "/api/users",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:         "page without session",
			admin:        testAdmin,
			path:         "/users?page=2",
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/login?next=%2Fusers%3Fpage%3D2",
		},
		{
			name: "auth disabled",
			admin: config.Admin{
				EmailDomain:  "@admin.vneid.com",
				AuthDisabled: true,
				DevEmail:     "admin@system.local",
			},
			path:       "/api/users",
			wantStatus: http.StatusOK,
			wantBody:   "admin@system.local",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.email != "" {
				req = withEmail(req, tt.email)
			}
			rec := httptest.NewRecorder()

			RequireAuth(tt.admin)(echoEmail).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
		})
	}
}

func TestRequireAuth_ErrorBodyIsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()

	RequireAuth(testAdmin)(echoEmail).ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unauthorized", body["error"])
}

func TestClientAddress(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:5000", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:5000", "198.51.100.4"},
		{"remote addr", nil, "192.0.2.1:41234", "192.0.2.1"},
		{"remote ipv6", nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"remote without port", nil, "192.0.2.1", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientAddress(req))
		})
	}
}

func TestOrigin(t *testing.T) {
	var seen string
	handler := Origin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = userctx.GetOriginAddress(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7", seen)
}

func TestRequestAudit(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	handler := RequestAudit(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	get := withEmail(httptest.NewRequest(http.MethodGet, "/api/users", nil), "lan@admin.vneid.com")
	handler.ServeHTTP(httptest.NewRecorder(), get)
	assert.Zero(t, buf.Len())

	post := withEmail(httptest.NewRequest(http.MethodPost, "/api/users", nil), "lan@admin.vneid.com")
	post = post.WithContext(userctx.SetOriginAddress(post.Context(), "203.0.113.7"))
	handler.ServeHTTP(httptest.NewRecorder(), post)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "admin request", entry["message"])
	assert.Equal(t, "lan@admin.vneid.com", entry["admin"])
	assert.Equal(t, "203.0.113.7", entry["origin"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, float64(http.StatusCreated), entry["status"])
}
