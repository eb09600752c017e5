package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vneid/admin-dashboard/audit"
	"github.com/vneid/admin-dashboard/config"
	"github.com/vneid/admin-dashboard/repositories"
)

// Auditor records user-management actions. *audit.Logger satisfies it.
type Auditor interface {
	RecordCreation(ctx context.Context, admin string, summary audit.CreationSummary, origin string) audit.Result
	RecordUpdate(ctx context.Context, admin, targetID, targetLabel string, changes map[string]any, collection, origin string) audit.Result
	RecordDeletion(ctx context.Context, admin, targetID, targetLabel string, affected []string, cascade bool, origin string) audit.Result
}

// AuditService reads and trims the audit trail. *audit.Logger satisfies it.
type AuditService interface {
	Query(ctx context.Context, f audit.Filters) []audit.Record
	PurgeOlderThan(ctx context.Context, retentionDays int) int
}

// AuditLog is both halves of the audit trail.
type AuditLog interface {
	Auditor
	AuditService
}

// Services holds all service instances
type Services struct {
	Users     UserService
	Household HouseholdService
	Dashboard DashboardService
	Audit     AuditService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, auditLog AuditLog, opts ...Option) *Services {
	return &Services{
		Users:     NewUserService(repos, auditLog, opts...),
		Household: NewHouseholdService(repos.Residences, repos.Household, auditLog, opts...),
		Dashboard: NewDashboardService(repos.Users, auditLog, opts...),
		Audit:     auditLog,
	}
}

type options struct {
	pageSize    int
	maxResults  int
	collections config.Collections
	logger      zerolog.Logger
	now         func() time.Time
}

// Option configures a service.
type Option func(*options)

// WithPageSize sets the default number of users per page.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithMaxResults caps the number of users a single list call returns.
func WithMaxResults(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxResults = n
		}
	}
}

// WithCollections sets the collection names written to audit records.
func WithCollections(c config.Collections) Option {
	return func(o *options) { o.collections = c }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func newOptions(component string, opts []Option) options {
	o := options{
		pageSize:   20,
		maxResults: 100,
		collections: config.Collections{
			Users:            "users",
			CitizenCards:     "citizen_cards",
			Residence:        "residence",
			HouseholdMembers: "household_members",
		},
		logger: log.Logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With().Str("component", component).Logger()
	return o
}

// logAudit reports an audit outcome. The service result never depends on it.
func logAudit(logger zerolog.Logger, res audit.Result, action, target string) bool {
	if !res.OK() {
		logger.Warn().Err(res.Err).Str("action", action).Str("target_id", target).Msg("audit record not written")
		return false
	}
	return true
}
