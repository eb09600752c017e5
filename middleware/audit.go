package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vneid/admin-dashboard/userctx"
)

// Origin stores the client address in the request context so audit records
// can carry it.
func Origin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := userctx.SetOriginAddress(r.Context(), ClientAddress(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientAddress extracts the client address, checking X-Forwarded-For first,
// then X-Real-IP, then the connection's remote address without the port.
func ClientAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// First hop is the client
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RequestAudit writes one operational log line for every mutating request.
// It complements, and never writes to, the audit collection.
func RequestAudit(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutation(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			ctx := r.Context()
			logger.Info().
				Str("request_id", chimw.GetReqID(ctx)).
				Str("admin", userctx.GetUserEmail(ctx)).
				Str("origin", userctx.GetOriginAddress(ctx)).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("user_agent", r.UserAgent()).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("admin request")
		})
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
