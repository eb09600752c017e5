package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"gitea.com/go-chi/session"
	"github.com/rs/zerolog/log"

	"github.com/vneid/admin-dashboard/config"
	"github.com/vneid/admin-dashboard/userctx"
)

// Session keys written at login.
const (
	SessionEmailKey  = "user_email"
	SessionUserIDKey = "user_id"
	SessionStateKey  = "state"
	SessionNextKey   = "redirect_after_login"
)

// SessionUser copies the logged-in identity from the session into the
// request context. It must run after the session middleware.
func SessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)
		ctx := r.Context()

		if email, ok := sess.Get(SessionEmailKey).(string); ok && email != "" {
			ctx = userctx.SetUserEmail(ctx, email)
		}
		if id, ok := sess.Get(SessionUserIDKey).(string); ok && id != "" {
			ctx = userctx.SetUserID(ctx, id)
		}
		ctx = userctx.SetSessionToken(ctx, sess.ID())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth ensures the request carries an administrator identity.
// Unauthenticated API calls get 401; other requests are redirected to /login
// with the intended destination. Identities outside the admin allow-list get 403.
// With auth disabled, a request without identity runs as the dev admin.
func RequireAuth(admin config.Admin) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := userctx.LookupUserEmail(r.Context())
			if !ok && admin.AuthDisabled {
				email, ok = admin.DevEmail, true
			}

			if !ok {
				if isAPIRequest(r) {
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
					return
				}
				http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
				return
			}

			if !admin.IsAllowedAdmin(email) {
				log.Warn().
					Str("email", email).
					Str("path", r.URL.Path).
					Msg("non-admin access attempt")
				writeJSONError(w, http.StatusForbidden, "forbidden", "Access restricted to administrators")
				return
			}

			ctx := userctx.SetUserEmail(r.Context(), email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isAPIRequest(r *http.Request) bool {
	return r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/")
}

func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"error":%q,"error_description":%q}`, code, description)
}
