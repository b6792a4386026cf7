package promos

import (
	"context"
	"errors"

	"github.com/google/uuid"
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

// GetPromotionByCode retrieves a promotion by its normalized code
func (r *PostgresRepository) GetPromotionByCode(ctx context.Context, code string) (*Promotion, error) {
	promo := &Promotion{}
	query := `
		SELECT id, code, description, status, discount_type, discount_value,
			applies_to, package_id, created_by, created_at, updated_at
		FROM promotions
		WHERE code = $1`

	err := r.db.QueryRow(ctx, query, code).Scan(
		&promo.ID,
		&promo.Code,
		&promo.Description,
		&promo.Status,
		&promo.DiscountType,
		&promo.DiscountValue,
		&promo.AppliesTo,
		&promo.PackageID,
		&promo.CreatedBy,
		&promo.CreatedAt,
		&promo.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("promotion not found", err)
		}
		return nil, common.NewInternalError("failed to get promotion", err)
	}

	return promo, nil
}

// GetPromotionByID retrieves a promotion by ID
func (r *PostgresRepository) GetPromotionByID(ctx context.Context, id uuid.UUID) (*Promotion, error) {
	promo := &Promotion{}
	query := `
		SELECT id, code, description, status, discount_type, discount_value,
			applies_to, package_id, created_by, created_at, updated_at
		FROM promotions
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&promo.ID,
		&promo.Code,
		&promo.Description,
		&promo.Status,
		&promo.DiscountType,
		&promo.DiscountValue,
		&promo.AppliesTo,
		&promo.PackageID,
		&promo.CreatedBy,
		&promo.CreatedAt,
		&promo.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("promotion not found", err)
		}
		return nil, common.NewInternalError("failed to get promotion", err)
	}

	return promo, nil
}

// CreatePromotion inserts a new promotion
func (r *PostgresRepository) CreatePromotion(ctx context.Context, promo *Promotion) error {
	query := `
		INSERT INTO promotions (id, code, description, status, discount_type,
			discount_value, applies_to, package_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	if promo.ID == uuid.Nil {
		promo.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		promo.ID,
		promo.Code,
		promo.Description,
		promo.Status,
		promo.DiscountType,
		promo.DiscountValue,
		promo.AppliesTo,
		promo.PackageID,
		promo.CreatedBy,
	).Scan(&promo.CreatedAt, &promo.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err) {
			return common.NewConflictError("a promotion with this code already exists")
		}
		return common.NewInternalError("failed to create promotion", err)
	}

	return nil
}

// UpdatePromotion updates an existing promotion
func (r *PostgresRepository) UpdatePromotion(ctx context.Context, promo *Promotion) error {
	query := `
		UPDATE promotions
		SET code = $2, description = $3, status = $4, discount_type = $5,
			discount_value = $6, applies_to = $7, package_id = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		promo.ID,
		promo.Code,
		promo.Description,
		promo.Status,
		promo.DiscountType,
		promo.DiscountValue,
		promo.AppliesTo,
		promo.PackageID,
	).Scan(&promo.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("promotion not found", err)
		}
		if database.IsUniqueViolation(err) {
			return common.NewConflictError("a promotion with this code already exists")
		}
		return common.NewInternalError("failed to update promotion", err)
	}

	return nil
}

// DeactivatePromotion marks a promotion inactive without deleting its history
func (r *PostgresRepository) DeactivatePromotion(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE promotions SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, StatusInactive)
	if err != nil {
		return common.NewInternalError("failed to deactivate promotion", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("promotion not found", nil)
	}

	return nil
}

// ListPromotions retrieves promotions ordered by creation time
func (r *PostgresRepository) ListPromotions(ctx context.Context, limit, offset int) ([]*Promotion, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM promotions`).Scan(&total); err != nil {
		return nil, 0, common.NewInternalError("failed to count promotions", err)
	}

	query := `
		SELECT id, code, description, status, discount_type, discount_value,
			applies_to, package_id, created_by, created_at, updated_at
		FROM promotions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list promotions", err)
	}
	defer rows.Close()

	promotions := make([]*Promotion, 0)
	for rows.Next() {
		promo := &Promotion{}
		err := rows.Scan(
			&promo.ID,
			&promo.Code,
			&promo.Description,
			&promo.Status,
			&promo.DiscountType,
			&promo.DiscountValue,
			&promo.AppliesTo,
			&promo.PackageID,
			&promo.CreatedBy,
			&promo.CreatedAt,
			&promo.UpdatedAt,
		)
		if err != nil {
			return nil, 0, common.NewInternalError("failed to scan promotion", err)
		}
		promotions = append(promotions, promo)
	}

	return promotions, total, nil
}
