package trips

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/transitpadi/transit-backend/pkg/common"
)

// Repository defines the storage operations required by the service.
type Repository interface {
	CreateRoute(ctx context.Context, route *Route) error
	ListRoutes(ctx context.Context, activeOnly bool) ([]*Route, error)
	UpdateRoute(ctx context.Context, route *Route) error
	CreateTrip(ctx context.Context, trip *Trip) error
	GetTripByID(ctx context.Context, id uuid.UUID) (*Trip, error)
	ListTrips(ctx context.Context, filter TripFilter, limit, offset int) ([]*Trip, int64, error)
	UpdateTrip(ctx context.Context, trip *Trip) error
}

// Service handles route and trip scheduling logic
type Service struct {
	repo Repository
}

// NewService creates a new trips service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateRoute registers a serviced route (admin only)
func (s *Service) CreateRoute(ctx context.Context, route *Route) error {
	if route.Origin == "" || route.Destination == "" {
		return common.NewValidationError("origin and destination are required")
	}
	if route.Origin == route.Destination {
		return common.NewValidationError("origin and destination must differ")
	}
	return s.repo.CreateRoute(ctx, route)
}

// ListRoutes returns routes, active-only for public callers
func (s *Service) ListRoutes(ctx context.Context, activeOnly bool) ([]*Route, error) {
	return s.repo.ListRoutes(ctx, activeOnly)
}

// UpdateRoute updates a route (admin only)
func (s *Service) UpdateRoute(ctx context.Context, route *Route) error {
	if route.Origin == "" || route.Destination == "" {
		return common.NewValidationError("origin and destination are required")
	}
	return s.repo.UpdateRoute(ctx, route)
}

// ScheduleTrip creates a departure on a route (admin only)
func (s *Service) ScheduleTrip(ctx context.Context, trip *Trip) error {
	if trip.RouteID == uuid.Nil {
		return common.NewValidationError("route_id is required")
	}
	if trip.SeatPrice <= 0 {
		return common.NewValidationError("seat price must be greater than 0")
	}
	if trip.TotalSeats < 1 {
		return common.NewValidationError("total seats must be at least 1")
	}
	if trip.DepartureTime.Before(time.Now()) {
		return common.NewValidationError("departure time must be in the future")
	}

	trip.SeatsAvailable = trip.TotalSeats
	if trip.Status == "" {
		trip.Status = StatusScheduled
	}

	return s.repo.CreateTrip(ctx, trip)
}

// GetTrip returns a trip by ID
func (s *Service) GetTrip(ctx context.Context, id uuid.UUID) (*Trip, error) {
	return s.repo.GetTripByID(ctx, id)
}

// SearchTrips lists trips matching the filter
func (s *Service) SearchTrips(ctx context.Context, filter TripFilter, limit, offset int) ([]*Trip, int64, error) {
	return s.repo.ListTrips(ctx, filter, limit, offset)
}

// UpdateTrip updates a scheduled trip (admin only)
func (s *Service) UpdateTrip(ctx context.Context, trip *Trip) error {
	if trip.SeatPrice <= 0 {
		return common.NewValidationError("seat price must be greater than 0")
	}
	if trip.SeatsAvailable > trip.TotalSeats {
		return common.NewValidationError("available seats cannot exceed total seats")
	}

	switch trip.Status {
	case StatusScheduled, StatusDeparted, StatusCompleted, StatusCancelled:
	default:
		return common.NewValidationError("invalid trip status")
	}

	return s.repo.UpdateTrip(ctx, trip)
}
