package settings

import (
	"context"

	"github.com/transitpadi/transit-backend/pkg/cache"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/logger"
	"go.uber.org/zap"
)

// Repository defines the storage operations required by the service.
type Repository interface {
	GetOperationsSettings(ctx context.Context) (*OperationsSettings, error)
	UpdateOperationsSettings(ctx context.Context, s *OperationsSettings) error
	GetCharterPackage(ctx context.Context, id string) (*CharterPackage, error)
	ListCharterPackages(ctx context.Context, activeOnly bool) ([]*CharterPackage, error)
	UpsertCharterPackage(ctx context.Context, pkg *CharterPackage) error
	DeactivateCharterPackage(ctx context.Context, id string) error
}

// Service handles company settings and charter package catalogue logic.
// Reads go through Redis since the mobile apps poll them on every screen.
type Service struct {
	repo  Repository
	cache *cache.Manager
}

// NewService creates a new settings service
func NewService(repo Repository, cacheManager *cache.Manager) *Service {
	return &Service{repo: repo, cache: cacheManager}
}

// GetOperationsSettings returns the company operations settings, cached.
func (s *Service) GetOperationsSettings(ctx context.Context) (*OperationsSettings, error) {
	if s.cache != nil {
		var cached OperationsSettings
		err := s.cache.GetOrSet(ctx, cache.Keys.OperationsSettings, cache.TTL.Medium, &cached, func() (interface{}, error) {
			return s.repo.GetOperationsSettings(ctx)
		})
		if err == nil {
			return &cached, nil
		}
		if _, ok := err.(*common.AppError); ok {
			return nil, err
		}
		logger.WarnContext(ctx, "settings cache read failed, falling back to database", zap.Error(err))
	}
	return s.repo.GetOperationsSettings(ctx)
}

// UpdateOperationsSettings writes the settings and invalidates the cache.
func (s *Service) UpdateOperationsSettings(ctx context.Context, settings *OperationsSettings) error {
	if settings.MaxSeatsPerBooking < 1 {
		return common.NewValidationError("max_seats_per_booking must be at least 1")
	}

	if err := s.repo.UpdateOperationsSettings(ctx, settings); err != nil {
		return err
	}

	s.invalidate(ctx, cache.Keys.OperationsSettings)
	return nil
}

// GetCharterPackage retrieves a single charter package by slug.
func (s *Service) GetCharterPackage(ctx context.Context, id string) (*CharterPackage, error) {
	return s.repo.GetCharterPackage(ctx, id)
}

// ListCharterPackages returns the charter catalogue, cached when activeOnly.
func (s *Service) ListCharterPackages(ctx context.Context, activeOnly bool) ([]*CharterPackage, error) {
	if s.cache != nil && activeOnly {
		var cached []*CharterPackage
		err := s.cache.GetOrSet(ctx, cache.Keys.CharterPackages, cache.TTL.Medium, &cached, func() (interface{}, error) {
			return s.repo.ListCharterPackages(ctx, true)
		})
		if err == nil {
			return cached, nil
		}
		if _, ok := err.(*common.AppError); ok {
			return nil, err
		}
		logger.WarnContext(ctx, "charter package cache read failed, falling back to database", zap.Error(err))
	}
	return s.repo.ListCharterPackages(ctx, activeOnly)
}

// SaveCharterPackage creates or updates a charter package (admin only).
func (s *Service) SaveCharterPackage(ctx context.Context, pkg *CharterPackage) error {
	if pkg.ID == "" {
		return common.NewValidationError("package id cannot be empty")
	}
	if pkg.BasePrice <= 0 {
		return common.NewValidationError("base price must be greater than 0")
	}
	if pkg.DailyRate < 0 {
		return common.NewValidationError("daily rate cannot be negative")
	}
	if pkg.Capacity < 1 {
		return common.NewValidationError("capacity must be at least 1")
	}

	if err := s.repo.UpsertCharterPackage(ctx, pkg); err != nil {
		return err
	}

	s.invalidate(ctx, cache.Keys.CharterPackages)
	return nil
}

// DeactivateCharterPackage retires a package from the catalogue (admin only).
func (s *Service) DeactivateCharterPackage(ctx context.Context, id string) error {
	if err := s.repo.DeactivateCharterPackage(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, cache.Keys.CharterPackages)
	return nil
}

func (s *Service) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.WarnContext(ctx, "failed to invalidate cache key", zap.String("key", key), zap.Error(err))
	}
}
