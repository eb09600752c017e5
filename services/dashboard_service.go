package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vneid/admin-dashboard/audit"
	"github.com/vneid/admin-dashboard/models"
	"github.com/vneid/admin-dashboard/repositories"
)

const (
	dashboardRecentUsers    = 5
	dashboardRecentActivity = 50
)

// DashboardStats summarises the dashboard landing page. ActionCounts counts
// RecentActivity by action kind.
type DashboardStats struct {
	TotalUsers     int                   `json:"total_users"`
	RecentUsers    []*models.UserProfile `json:"recent_users"`
	RecentActivity []audit.Record        `json:"recent_activity"`
	ActionCounts   map[string]int        `json:"action_counts"`
	GeneratedAt    time.Time             `json:"generated_at"`
}

// DashboardService interface defines dashboard-related business logic
type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	users repositories.UserRepository
	audit AuditService
	options
}

func NewDashboardService(users repositories.UserRepository, auditService AuditService, opts ...Option) DashboardService {
	return &dashboardService{
		users:   users,
		audit:   auditService,
		options: newOptions("dashboard_service", opts),
	}
}

func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		ActionCounts: map[string]int{
			string(audit.ActionCreate): 0,
			string(audit.ActionUpdate): 0,
			string(audit.ActionDelete): 0,
		},
		GeneratedAt: s.now().UTC(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.users.Count(gctx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		stats.TotalUsers = n
		return nil
	})
	g.Go(func() error {
		recent, err := s.users.Recent(gctx, dashboardRecentUsers)
		if err != nil {
			return fmt.Errorf("failed to get recent users: %w", err)
		}
		stats.RecentUsers = recent
		return nil
	})
	g.Go(func() error {
		stats.RecentActivity = s.audit.Query(gctx, audit.Filters{Limit: dashboardRecentActivity})
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, rec := range stats.RecentActivity {
		stats.ActionCounts[string(rec.ActionKind)]++
	}
	return stats, nil
}
