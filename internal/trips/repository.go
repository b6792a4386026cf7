package trips

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/transitpadi/transit-backend/pkg/common"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateRoute inserts a new route
func (r *PostgresRepository) CreateRoute(ctx context.Context, route *Route) error {
	query := `
		INSERT INTO routes (id, origin, destination, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	if route.ID == uuid.Nil {
		route.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		route.ID,
		route.Origin,
		route.Destination,
		route.IsActive,
	).Scan(&route.CreatedAt, &route.UpdatedAt)

	if err != nil {
		return common.NewInternalError("failed to create route", err)
	}

	return nil
}

// ListRoutes retrieves routes, optionally only active ones
func (r *PostgresRepository) ListRoutes(ctx context.Context, activeOnly bool) ([]*Route, error) {
	query := `SELECT id, origin, destination, is_active, created_at, updated_at FROM routes`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY origin, destination`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, common.NewInternalError("failed to list routes", err)
	}
	defer rows.Close()

	routes := make([]*Route, 0)
	for rows.Next() {
		route := &Route{}
		if err := rows.Scan(&route.ID, &route.Origin, &route.Destination, &route.IsActive, &route.CreatedAt, &route.UpdatedAt); err != nil {
			return nil, common.NewInternalError("failed to scan route", err)
		}
		routes = append(routes, route)
	}

	return routes, nil
}

// UpdateRoute updates a route's details and active flag
func (r *PostgresRepository) UpdateRoute(ctx context.Context, route *Route) error {
	query := `
		UPDATE routes
		SET origin = $2, destination = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query, route.ID, route.Origin, route.Destination, route.IsActive).Scan(&route.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("route not found", err)
		}
		return common.NewInternalError("failed to update route", err)
	}

	return nil
}

// CreateTrip schedules a departure on a route
func (r *PostgresRepository) CreateTrip(ctx context.Context, trip *Trip) error {
	query := `
		INSERT INTO trips (id, route_id, departure_time, vehicle_type, seat_price,
			total_seats, seats_available, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		trip.ID,
		trip.RouteID,
		trip.DepartureTime,
		trip.VehicleType,
		trip.SeatPrice,
		trip.TotalSeats,
		trip.SeatsAvailable,
		trip.Status,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)

	if err != nil {
		return common.NewInternalError("failed to create trip", err)
	}

	return nil
}

// GetTripByID retrieves a trip joined with its route
func (r *PostgresRepository) GetTripByID(ctx context.Context, id uuid.UUID) (*Trip, error) {
	trip := &Trip{}
	query := `
		SELECT t.id, t.route_id, r.origin, r.destination, t.departure_time,
			t.vehicle_type, t.seat_price, t.total_seats, t.seats_available,
			t.status, t.created_at, t.updated_at
		FROM trips t
		JOIN routes r ON r.id = t.route_id
		WHERE t.id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&trip.ID,
		&trip.RouteID,
		&trip.Origin,
		&trip.Destination,
		&trip.DepartureTime,
		&trip.VehicleType,
		&trip.SeatPrice,
		&trip.TotalSeats,
		&trip.SeatsAvailable,
		&trip.Status,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("trip not found", err)
		}
		return nil, common.NewInternalError("failed to get trip", err)
	}

	return trip, nil
}

// ListTrips retrieves trips matching a filter
func (r *PostgresRepository) ListTrips(ctx context.Context, filter TripFilter, limit, offset int) ([]*Trip, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	idx := 1

	if filter.Origin != "" {
		where += fmt.Sprintf(" AND r.origin ILIKE $%d", idx)
		args = append(args, filter.Origin)
		idx++
	}
	if filter.Destination != "" {
		where += fmt.Sprintf(" AND r.destination ILIKE $%d", idx)
		args = append(args, filter.Destination)
		idx++
	}
	if filter.Date != nil {
		where += fmt.Sprintf(" AND t.departure_time::date = $%d::date", idx)
		args = append(args, *filter.Date)
		idx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND t.status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM trips t JOIN routes r ON r.id = t.route_id` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, common.NewInternalError("failed to count trips", err)
	}

	query := `
		SELECT t.id, t.route_id, r.origin, r.destination, t.departure_time,
			t.vehicle_type, t.seat_price, t.total_seats, t.seats_available,
			t.status, t.created_at, t.updated_at
		FROM trips t
		JOIN routes r ON r.id = t.route_id` + where +
		fmt.Sprintf(" ORDER BY t.departure_time ASC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list trips", err)
	}
	defer rows.Close()

	result := make([]*Trip, 0)
	for rows.Next() {
		trip := &Trip{}
		err := rows.Scan(
			&trip.ID,
			&trip.RouteID,
			&trip.Origin,
			&trip.Destination,
			&trip.DepartureTime,
			&trip.VehicleType,
			&trip.SeatPrice,
			&trip.TotalSeats,
			&trip.SeatsAvailable,
			&trip.Status,
			&trip.CreatedAt,
			&trip.UpdatedAt,
		)
		if err != nil {
			return nil, 0, common.NewInternalError("failed to scan trip", err)
		}
		result = append(result, trip)
	}

	return result, total, nil
}

// UpdateTrip updates a trip's schedule, pricing and status
func (r *PostgresRepository) UpdateTrip(ctx context.Context, trip *Trip) error {
	query := `
		UPDATE trips
		SET departure_time = $2, vehicle_type = $3, seat_price = $4,
			total_seats = $5, seats_available = $6, status = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		trip.ID,
		trip.DepartureTime,
		trip.VehicleType,
		trip.SeatPrice,
		trip.TotalSeats,
		trip.SeatsAvailable,
		trip.Status,
	).Scan(&trip.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("trip not found", err)
		}
		return common.NewInternalError("failed to update trip", err)
	}

	return nil
}
