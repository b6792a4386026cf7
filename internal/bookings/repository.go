package bookings

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

const insertBookingQuery = `
	INSERT INTO bookings (id, user_id, guest_name, guest_phone, booking_type,
		trip_id, seats, package_id, start_date, days, pickup_location,
		destination, base_price, discount_amount, coupon_code, total_price, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	RETURNING created_at, updated_at`

// CreatePassengerBooking reserves seats and records the booking in a single
// transaction. The trip row is locked so two concurrent bookings cannot
// oversell the same seats.
func (r *PostgresRepository) CreatePassengerBooking(ctx context.Context, booking *Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return common.NewInternalError("failed to start transaction", err)
	}
	defer tx.Rollback(ctx)

	var available int
	var status string
	err = tx.QueryRow(ctx,
		`SELECT seats_available, status FROM trips WHERE id = $1 FOR UPDATE`,
		booking.TripID,
	).Scan(&available, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("trip not found", err)
		}
		return common.NewInternalError("failed to lock trip", err)
	}

	if status != "scheduled" {
		return common.NewBadRequestError("this trip is no longer open for booking", nil)
	}
	if available < booking.Seats {
		return common.NewConflictError(fmt.Sprintf("only %d seats left on this trip", available))
	}

	_, err = tx.Exec(ctx,
		`UPDATE trips SET seats_available = seats_available - $2, updated_at = NOW() WHERE id = $1`,
		booking.TripID, booking.Seats,
	)
	if err != nil {
		return common.NewInternalError("failed to reserve seats", err)
	}

	if err := insertBooking(ctx, tx, booking); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return common.NewInternalError("failed to commit booking", err)
	}

	return nil
}

// CreateCharterBooking records a charter booking. No seat inventory is
// involved; availability is confirmed by operations after payment.
func (r *PostgresRepository) CreateCharterBooking(ctx context.Context, booking *Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return common.NewInternalError("failed to start transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := insertBooking(ctx, tx, booking); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return common.NewInternalError("failed to commit booking", err)
	}

	return nil
}

func insertBooking(ctx context.Context, tx pgx.Tx, booking *Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	err := tx.QueryRow(ctx, insertBookingQuery,
		booking.ID,
		booking.UserID,
		booking.GuestName,
		booking.GuestPhone,
		booking.BookingType,
		booking.TripID,
		booking.Seats,
		booking.PackageID,
		booking.StartDate,
		booking.Days,
		booking.PickupLocation,
		booking.Destination,
		booking.BasePrice,
		booking.DiscountAmount,
		booking.CouponCode,
		booking.TotalPrice,
		booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return common.NewInternalError("failed to create booking", err)
	}

	return nil
}

const selectBookingColumns = `
	SELECT id, user_id, guest_name, guest_phone, booking_type, trip_id, seats,
		package_id, start_date, days, pickup_location, destination, base_price,
		discount_amount, coupon_code, total_price, status, created_at, updated_at
	FROM bookings`

func scanBooking(row pgx.Row) (*Booking, error) {
	booking := &Booking{}
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.GuestName,
		&booking.GuestPhone,
		&booking.BookingType,
		&booking.TripID,
		&booking.Seats,
		&booking.PackageID,
		&booking.StartDate,
		&booking.Days,
		&booking.PickupLocation,
		&booking.Destination,
		&booking.BasePrice,
		&booking.DiscountAmount,
		&booking.CouponCode,
		&booking.TotalPrice,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// GetBookingByID retrieves a booking
func (r *PostgresRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx, selectBookingColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("booking not found", err)
		}
		return nil, common.NewInternalError("failed to get booking", err)
	}
	return booking, nil
}

// ListBookings retrieves bookings matching a filter, newest first
func (r *PostgresRepository) ListBookings(ctx context.Context, filter BookingFilter, limit, offset int) ([]*Booking, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	idx := 1

	if filter.BookingType != "" {
		where += fmt.Sprintf(" AND booking_type = $%d", idx)
		args = append(args, filter.BookingType)
		idx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", idx)
		args = append(args, *filter.UserID)
		idx++
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`+where, args...).Scan(&total); err != nil {
		return nil, 0, common.NewInternalError("failed to count bookings", err)
	}

	query := selectBookingColumns + where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list bookings", err)
	}
	defer rows.Close()

	result := make([]*Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, 0, common.NewInternalError("failed to scan booking", err)
		}
		result = append(result, booking)
	}

	return result, total, nil
}

// UpdateBookingStatus transitions a booking's status. Cancelling a pending or
// confirmed passenger booking releases its seats back to the trip.
func (r *PostgresRepository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status string) (*Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to start transaction", err)
	}
	defer tx.Rollback(ctx)

	booking, err := scanBooking(tx.QueryRow(ctx, selectBookingColumns+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("booking not found", err)
		}
		return nil, common.NewInternalError("failed to get booking", err)
	}

	releaseSeats := status == StatusCancelled &&
		booking.Status != StatusCancelled &&
		booking.BookingType == TypePassenger &&
		booking.TripID != nil

	if releaseSeats {
		_, err = tx.Exec(ctx,
			`UPDATE trips SET seats_available = LEAST(seats_available + $2, total_seats), updated_at = NOW() WHERE id = $1`,
			booking.TripID, booking.Seats,
		)
		if err != nil {
			return nil, common.NewInternalError("failed to release seats", err)
		}
	}

	err = tx.QueryRow(ctx,
		`UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		id, status,
	).Scan(&booking.UpdatedAt)
	if err != nil {
		return nil, common.NewInternalError("failed to update booking status", err)
	}
	booking.Status = status

	if err := tx.Commit(ctx); err != nil {
		return nil, common.NewInternalError("failed to commit status update", err)
	}

	return booking, nil
}
