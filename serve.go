package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vneid/admin-dashboard/authenticator"
	"github.com/vneid/admin-dashboard/controllers"
	"github.com/vneid/admin-dashboard/middleware"
	"github.com/vneid/admin-dashboard/telemetry"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	shutdownTracing, err := telemetry.Init(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("failed to flush traces")
		}
	}()

	a, err := newApp(ctx, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer a.Close()

	provider, err := authenticator.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize authentication provider: %w", err)
	}
	if cfg.Admin.AuthDisabled {
		log.Warn().Str("email", cfg.Admin.DevEmail).Msg("authentication disabled, all requests act as the development admin")
	}

	ctrl := controllers.NewControllers(a.services, provider, cfg.Admin)
	r, err := setupRouter(ctrl, log.Logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Addr).
			Str("store", cfg.Store.Driver).
			Msg("admin dashboard listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers, logger zerolog.Logger) (*chi.Mux, error) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.RequestIDHandler("request_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second)) // OIDC callbacks can be slow
	r.Use(chimw.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.Limit(cfg.RateLimitPerMinute, time.Minute, httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
		return middleware.ClientAddress(r), nil
	})))
	r.Use(telemetry.Middleware(serviceName))

	lifetime := int64(cfg.SessionLifetime().Seconds())
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "vneid_admin_session",
		Secure:         cfg.RequireHTTPS,
		Gclifetime:     lifetime,
		Maxlifetime:    lifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	// PUBLIC ROUTES
	r.Get("/health", ctrl.Dashboard.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/login", ctrl.Auth.Login)
	r.Get("/callback", ctrl.Auth.Callback)
	r.Get("/logout", ctrl.Auth.Logout)

	// PROTECTED ROUTES
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionUser)
		r.Use(middleware.Origin)
		r.Use(middleware.RequireAuth(cfg.Admin))
		r.Use(middleware.RequestAudit(logger))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/api/dashboard", http.StatusSeeOther)
		})
		r.Route("/api", ctrl.APIRoutes)
	})

	return r, nil
}
