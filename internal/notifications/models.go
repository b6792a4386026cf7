package notifications

import (
	"time"

	"github.com/google/uuid"
)

// DeviceToken links a push-capable device to an account.
type DeviceToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}
