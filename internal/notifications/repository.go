package notifications

import (
	"context"

	"github.com/google/uuid"
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

// SaveDeviceToken registers or refreshes a device token for a user
func (r *PostgresRepository) SaveDeviceToken(ctx context.Context, token *DeviceToken) error {
	query := `
		INSERT INTO device_tokens (id, user_id, token, platform)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			platform = EXCLUDED.platform
		RETURNING created_at`

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query, token.ID, token.UserID, token.Token, token.Platform).Scan(&token.CreatedAt)
	if err != nil {
		return common.NewInternalError("failed to save device token", err)
	}

	return nil
}

// GetTokensByUser returns all device tokens registered to a user
func (r *PostgresRepository) GetTokensByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT token FROM device_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, common.NewInternalError("failed to get device tokens", err)
	}
	defer rows.Close()

	tokens := make([]string, 0)
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, common.NewInternalError("failed to scan device token", err)
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}

// DeleteDeviceToken removes a device token (logout or token rotation)
func (r *PostgresRepository) DeleteDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	_, err := database.RetryableExec(ctx, r.db, `DELETE FROM device_tokens WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		return common.NewInternalError("failed to delete device token", err)
	}
	return nil
}
