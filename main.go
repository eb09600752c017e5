package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vneid/admin-dashboard/audit"
	"github.com/vneid/admin-dashboard/config"
	"github.com/vneid/admin-dashboard/docstore"
	"github.com/vneid/admin-dashboard/repositories"
	"github.com/vneid/admin-dashboard/services"
)

const serviceName = "vneid-admin-dashboard"

var (
	cfg     config.Config
	envFile string
)

var rootCmd = &cobra.Command{
	Use:           "vneid-admin",
	Short:         "VNeID admin dashboard",
	Long:          "Administer VNeID user profiles, citizen cards, residences and the audit trail.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is fine; the process environment is used as is.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}

		var err error
		cfg, err = config.Load(cmd.Context())
		if err != nil {
			return err
		}
		setupLogger(cfg)

		if problems := cfg.Validate(); len(problems) > 0 {
			for _, p := range problems {
				log.Error().Msg(p)
			}
			return fmt.Errorf("invalid configuration: %d problem(s)", len(problems))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading configuration")
}

func setupLogger(cfg config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.Debug {
		level = zerolog.DebugLevel
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.With().Str("service", serviceName).Logger()
}

// app is the shared wiring of every command.
type app struct {
	store    docstore.Store
	auditLog *audit.Logger
	services *services.Services
}

func newApp(ctx context.Context, reg prometheus.Registerer) (*app, error) {
	store, err := docstore.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s document store: %w", cfg.Store.Driver, err)
	}

	auditOpts := []audit.Option{
		audit.WithLogger(log.Logger),
		audit.WithCollection(cfg.Audit.Collection),
		audit.WithRetentionDays(cfg.Audit.RetentionDays),
		audit.WithBatchSize(cfg.Audit.BatchSize),
		audit.WithDefaultLimit(cfg.Audit.DefaultLimit),
	}
	if reg != nil {
		auditOpts = append(auditOpts, audit.WithMetrics(audit.NewMetrics(reg)))
	}
	auditLog := audit.NewLogger(store, auditOpts...)

	repos := repositories.NewRepositories(store, cfg.Collections)
	srvs := services.NewServices(repos, auditLog,
		services.WithLogger(log.Logger),
		services.WithPageSize(cfg.PageSize),
		services.WithMaxResults(cfg.MaxSearchResults),
		services.WithCollections(cfg.Collections),
	)

	return &app{store: store, auditLog: auditLog, services: srvs}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close document store")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
