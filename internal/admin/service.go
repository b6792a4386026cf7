package admin

import (
	"context"

	"github.com/transitpadi/transit-backend/pkg/cache"
	"github.com/transitpadi/transit-backend/pkg/logger"
	"go.uber.org/zap"
)

// Repository defines the storage operations required by the service.
type Repository interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

// Service serves the operations dashboard. Stats are cached briefly since the
// dashboard polls and the aggregates scan several tables.
type Service struct {
	repo  Repository
	cache *cache.Manager
}

// NewService creates a new admin service
func NewService(repo Repository, cacheManager *cache.Manager) *Service {
	return &Service{repo: repo, cache: cacheManager}
}

const dashboardCacheKey = "admin:dashboard"

// GetDashboardStats returns the dashboard aggregates.
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		var cached DashboardStats
		err := s.cache.GetOrSet(ctx, dashboardCacheKey, cache.TTL.Short, &cached, func() (interface{}, error) {
			return s.repo.GetDashboardStats(ctx)
		})
		if err == nil {
			return &cached, nil
		}
		logger.WarnContext(ctx, "dashboard cache read failed, falling back to database", zap.Error(err))
	}
	return s.repo.GetDashboardStats(ctx)
}
