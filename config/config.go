// Package config loads runtime settings from the environment.
package config

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/vneid/admin-dashboard/docstore"
)

// Config holds runtime configuration for the admin dashboard.
type Config struct {
	Addr     string `env:"ADDR,default=:8080"`
	Debug    bool   `env:"DEBUG_MODE,default=false"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	Store       Store
	Collections Collections
	Audit       Audit
	Admin       Admin
	OIDC        OIDC

	PageSize              int      `env:"PAGE_SIZE,default=20"`
	MaxSearchResults      int      `env:"MAX_SEARCH_RESULTS,default=100"`
	SessionTimeoutMinutes int      `env:"SESSION_TIMEOUT_MINUTES,default=60"`
	RequireHTTPS          bool     `env:"REQUIRE_HTTPS,default=true"`
	AllowedOrigins        []string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`
	RateLimitPerMinute    int      `env:"RATE_LIMIT_PER_MINUTE,default=100"`
	OTLPEndpoint          string   `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Store selects the document-store backend.
type Store struct {
	Driver          string `env:"DOCSTORE_DRIVER,default=sqlite"`
	ProjectID       string `env:"FIREBASE_PROJECT_ID,default=vneid-default"`
	CredentialsFile string `env:"FIREBASE_CREDENTIALS_PATH"`
	CredentialsJSON string `env:"FIREBASE_CREDENTIALS_JSON"`
	MongoURI        string `env:"MONGO_URI,default=mongodb://localhost:27017"`
	MongoDatabase   string `env:"MONGO_DATABASE,default=vneid"`
	SQLitePath      string `env:"SQLITE_PATH,default=vneid_admin.db"`
}

// Collections names the collections shared with the mobile app.
type Collections struct {
	Users            string `env:"USERS_COLLECTION,default=users"`
	CitizenCards     string `env:"CITIZEN_CARDS_COLLECTION,default=citizen_cards"`
	Residence        string `env:"RESIDENCE_COLLECTION,default=residence"`
	HouseholdMembers string `env:"HOUSEHOLD_MEMBERS_SUBCOLLECTION,default=household_members"`
}

type Audit struct {
	Collection    string `env:"AUDIT_COLLECTION_NAME,default=audit_logs"`
	RetentionDays int    `env:"AUDIT_RETENTION_DAYS,default=365"`
	BatchSize     int    `env:"AUDIT_PURGE_BATCH_SIZE,default=500"`
	DefaultLimit  int    `env:"AUDIT_DEFAULT_LIMIT,default=100"`
}

type Admin struct {
	EmailDomain   string   `env:"ADMIN_EMAIL_DOMAIN,default=@admin.vneid.com"`
	AllowedEmails []string `env:"ALLOWED_ADMIN_EMAILS"`
	AuthDisabled  bool     `env:"AUTH_DISABLED,default=false"`
	DevEmail      string   `env:"DEV_ADMIN_EMAIL,default=admin@system.local"`
}

type OIDC struct {
	Domain       string `env:"OIDC_DOMAIN"`
	ClientID     string `env:"OIDC_CLIENT_ID"`
	ClientSecret string `env:"OIDC_CLIENT_SECRET"`
	CallbackURL  string `env:"OIDC_CALLBACK_URL"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, fmt.Errorf("failed to process config: %w", err)
	}
	return cfg, nil
}

// Validate reports every configuration problem found.
func (c Config) Validate() []string {
	var errors []string

	if c.PageSize <= 0 {
		errors = append(errors, "PAGE_SIZE must be a positive integer")
	}
	if c.MaxSearchResults <= 0 {
		errors = append(errors, "MAX_SEARCH_RESULTS must be a positive integer")
	}
	if c.SessionTimeoutMinutes <= 0 {
		errors = append(errors, "SESSION_TIMEOUT_MINUTES must be a positive integer")
	}
	if c.Audit.RetentionDays <= 0 {
		errors = append(errors, "AUDIT_RETENTION_DAYS must be a positive integer")
	}
	if c.Audit.BatchSize <= 0 {
		errors = append(errors, "AUDIT_PURGE_BATCH_SIZE must be a positive integer")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil || c.LogLevel == "" {
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error, fatal")
	}

	switch c.Store.Driver {
	case docstore.DriverFirestore:
		if c.Store.ProjectID == "" {
			errors = append(errors, "FIREBASE_PROJECT_ID is required")
		}
		if c.Store.CredentialsFile == "" && c.Store.CredentialsJSON == "" {
			errors = append(errors, "Either FIREBASE_CREDENTIALS_PATH or FIREBASE_CREDENTIALS_JSON must be set")
		}
	case docstore.DriverMongo:
		if c.Store.MongoURI == "" {
			errors = append(errors, "MONGO_URI is required")
		}
	case docstore.DriverSQLite:
	default:
		errors = append(errors, fmt.Sprintf("DOCSTORE_DRIVER %q is not supported", c.Store.Driver))
	}

	if !c.Admin.AuthDisabled {
		if c.OIDC.Domain == "" || c.OIDC.ClientID == "" || c.OIDC.ClientSecret == "" || c.OIDC.CallbackURL == "" {
			errors = append(errors, "OIDC_DOMAIN, OIDC_CLIENT_ID, OIDC_CLIENT_SECRET and OIDC_CALLBACK_URL are required unless AUTH_DISABLED=true")
		}
	}

	return errors
}

// StoreOptions converts the store settings for docstore.Open.
func (c Config) StoreOptions() docstore.Options {
	return docstore.Options{
		Driver:          c.Store.Driver,
		ProjectID:       c.Store.ProjectID,
		CredentialsFile: c.Store.CredentialsFile,
		CredentialsJSON: c.Store.CredentialsJSON,
		MongoURI:        c.Store.MongoURI,
		MongoDatabase:   c.Store.MongoDatabase,
		SQLitePath:      c.Store.SQLitePath,
	}
}

// SessionLifetime is the session timeout as a duration.
func (c Config) SessionLifetime() time.Duration {
	return time.Duration(c.SessionTimeoutMinutes) * time.Minute
}

// IsAllowedAdmin reports whether email may use the dashboard.
func (a Admin) IsAllowedAdmin(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	if a.AuthDisabled && email == strings.ToLower(a.DevEmail) {
		return true
	}
	if slices.ContainsFunc(a.AllowedEmails, func(allowed string) bool {
		return strings.EqualFold(strings.TrimSpace(allowed), email)
	}) {
		return true
	}
	return a.EmailDomain != "" && strings.HasSuffix(email, strings.ToLower(a.EmailDomain))
}
