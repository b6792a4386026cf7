package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/database"
	"github.com/transitpadi/transit-backend/pkg/logger"
	"github.com/transitpadi/transit-backend/pkg/models"
	"go.uber.org/zap"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectUserColumns = `
	SELECT id, email, phone_number, password_hash, full_name, role,
		wallet_balance, referral_code, referral_count, is_active,
		created_at, updated_at
	FROM users`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PhoneNumber,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.WalletBalance,
		&user.ReferralCode,
		&user.ReferralCount,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser registers a user and, when a known referral code is supplied,
// credits the referrer's wallet in the same transaction. An unknown referral
// code is ignored rather than failing the signup.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User, referralCode string, bonusAmount float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return common.NewInternalError("failed to start transaction", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO users (id, email, phone_number, password_hash, full_name, role, referral_code)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		user.ID, user.Email, user.PhoneNumber, user.PasswordHash, user.FullName, user.Role, user.ReferralCode,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return common.NewConflictError("an account with this email or phone number already exists")
		}
		return common.NewInternalError("failed to create user", err)
	}

	if referralCode != "" && bonusAmount > 0 {
		if err := r.applyReferralBonus(ctx, tx, user, referralCode, bonusAmount); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return common.NewInternalError("failed to commit signup", err)
	}

	return nil
}

func (r *PostgresRepository) applyReferralBonus(ctx context.Context, tx pgx.Tx, newUser *models.User, referralCode string, bonusAmount float64) error {
	var referrerID uuid.UUID
	err := tx.QueryRow(ctx,
		`SELECT id FROM users WHERE referral_code = $1 FOR UPDATE`,
		strings.ToUpper(strings.TrimSpace(referralCode)),
	).Scan(&referrerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.WarnContext(ctx, "unknown referral code on signup, skipping bonus",
				zap.String("referral_code", referralCode),
			)
			return nil
		}
		return common.NewInternalError("failed to look up referrer", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users
		 SET wallet_balance = wallet_balance + $2, referral_count = referral_count + 1, updated_at = NOW()
		 WHERE id = $1`,
		referrerID, bonusAmount,
	)
	if err != nil {
		return common.NewInternalError("failed to credit referrer", err)
	}

	// One ledger row per referred signup; the reference makes re-runs impossible
	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (reference, user_id, amount, type, source, description)
		 VALUES ($1, $2, $3, 'credit', 'referral_bonus', $4)`,
		"referral-"+newUser.ID.String(), referrerID, bonusAmount, "referral bonus for "+newUser.FullName,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return common.NewConflictError("referral bonus already applied")
		}
		return common.NewInternalError("failed to record referral bonus", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by email
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, selectUserColumns+` WHERE email = $1 AND deleted_at IS NULL`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("user not found", err)
		}
		return nil, common.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (r *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, selectUserColumns+` WHERE id = $1 AND deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("user not found", err)
		}
		return nil, common.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// UpdateProfile updates a user's name and phone number
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phoneNumber string) (*models.User, error) {
	query := `
		UPDATE users
		SET full_name = $2, phone_number = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, email, phone_number, password_hash, full_name, role,
			wallet_balance, referral_code, referral_count, is_active,
			created_at, updated_at`

	user, err := scanUser(r.db.QueryRow(ctx, query, id, fullName, phoneNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("user not found", err)
		}
		if database.IsUniqueViolation(err) {
			return nil, common.NewConflictError("this phone number is already in use")
		}
		return nil, common.NewInternalError("failed to update profile", err)
	}
	return user, nil
}
