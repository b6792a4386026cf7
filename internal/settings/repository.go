package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/database"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetOperationsSettings reads the single settings row.
func (r *PostgresRepository) GetOperationsSettings(ctx context.Context) (*OperationsSettings, error) {
	s := &OperationsSettings{}
	query := `
		SELECT support_phone, support_email, bookings_open, charter_open,
			max_seats_per_booking, referral_enabled, referral_bonus,
			announcement_text, updated_at
		FROM operations_settings
		WHERE id = 1`

	err := r.db.QueryRow(ctx, query).Scan(
		&s.SupportPhone,
		&s.SupportEmail,
		&s.BookingsOpen,
		&s.CharterOpen,
		&s.MaxSeatsPerBooking,
		&s.ReferralEnabled,
		&s.ReferralBonus,
		&s.AnnouncementText,
		&s.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("operations settings not configured", err)
		}
		return nil, common.NewInternalError("failed to get operations settings", err)
	}

	return s, nil
}

// UpdateOperationsSettings upserts the single settings row.
func (r *PostgresRepository) UpdateOperationsSettings(ctx context.Context, s *OperationsSettings) error {
	query := `
		INSERT INTO operations_settings (id, support_phone, support_email, bookings_open,
			charter_open, max_seats_per_booking, referral_enabled, referral_bonus,
			announcement_text, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE SET
			support_phone = EXCLUDED.support_phone,
			support_email = EXCLUDED.support_email,
			bookings_open = EXCLUDED.bookings_open,
			charter_open = EXCLUDED.charter_open,
			max_seats_per_booking = EXCLUDED.max_seats_per_booking,
			referral_enabled = EXCLUDED.referral_enabled,
			referral_bonus = EXCLUDED.referral_bonus,
			announcement_text = EXCLUDED.announcement_text,
			updated_at = NOW()
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		s.SupportPhone,
		s.SupportEmail,
		s.BookingsOpen,
		s.CharterOpen,
		s.MaxSeatsPerBooking,
		s.ReferralEnabled,
		s.ReferralBonus,
		s.AnnouncementText,
	).Scan(&s.UpdatedAt)

	if err != nil {
		return common.NewInternalError("failed to update operations settings", err)
	}

	return nil
}

// GetCharterPackage retrieves a charter package by its slug ID.
func (r *PostgresRepository) GetCharterPackage(ctx context.Context, id string) (*CharterPackage, error) {
	pkg := &CharterPackage{}
	query := `
		SELECT id, name, description, vehicle_type, capacity, base_price,
			daily_rate, is_active, created_at, updated_at
		FROM charter_packages
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&pkg.ID,
		&pkg.Name,
		&pkg.Description,
		&pkg.VehicleType,
		&pkg.Capacity,
		&pkg.BasePrice,
		&pkg.DailyRate,
		&pkg.IsActive,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("charter package not found", err)
		}
		return nil, common.NewInternalError("failed to get charter package", err)
	}

	return pkg, nil
}

// ListCharterPackages retrieves charter packages, optionally only active ones.
func (r *PostgresRepository) ListCharterPackages(ctx context.Context, activeOnly bool) ([]*CharterPackage, error) {
	query := `
		SELECT id, name, description, vehicle_type, capacity, base_price,
			daily_rate, is_active, created_at, updated_at
		FROM charter_packages`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY base_price ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, common.NewInternalError("failed to list charter packages", err)
	}
	defer rows.Close()

	packages := make([]*CharterPackage, 0)
	for rows.Next() {
		pkg := &CharterPackage{}
		err := rows.Scan(
			&pkg.ID,
			&pkg.Name,
			&pkg.Description,
			&pkg.VehicleType,
			&pkg.Capacity,
			&pkg.BasePrice,
			&pkg.DailyRate,
			&pkg.IsActive,
			&pkg.CreatedAt,
			&pkg.UpdatedAt,
		)
		if err != nil {
			return nil, common.NewInternalError("failed to scan charter package", err)
		}
		packages = append(packages, pkg)
	}

	return packages, nil
}

// UpsertCharterPackage creates or replaces a charter package.
func (r *PostgresRepository) UpsertCharterPackage(ctx context.Context, pkg *CharterPackage) error {
	query := `
		INSERT INTO charter_packages (id, name, description, vehicle_type, capacity,
			base_price, daily_rate, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			vehicle_type = EXCLUDED.vehicle_type,
			capacity = EXCLUDED.capacity,
			base_price = EXCLUDED.base_price,
			daily_rate = EXCLUDED.daily_rate,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		pkg.ID,
		pkg.Name,
		pkg.Description,
		pkg.VehicleType,
		pkg.Capacity,
		pkg.BasePrice,
		pkg.DailyRate,
		pkg.IsActive,
	).Scan(&pkg.CreatedAt, &pkg.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err) {
			return common.NewConflictError("charter package already exists")
		}
		return common.NewInternalError("failed to save charter package", err)
	}

	return nil
}

// DeactivateCharterPackage retires a package without deleting booking history.
func (r *PostgresRepository) DeactivateCharterPackage(ctx context.Context, id string) error {
	tag, err := database.RetryableExec(ctx, r.db, `UPDATE charter_packages SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return common.NewInternalError("failed to deactivate charter package", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("charter package not found", nil)
	}
	return nil
}
