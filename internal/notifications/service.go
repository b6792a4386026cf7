package notifications

import (
	"context"

	"github.com/google/uuid"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/logger"
	"go.uber.org/zap"
)

// Repository defines the storage operations required by the service.
type Repository interface {
	SaveDeviceToken(ctx context.Context, token *DeviceToken) error
	GetTokensByUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	DeleteDeviceToken(ctx context.Context, userID uuid.UUID, token string) error
}

// PushSender delivers push notifications to devices and topics.
type PushSender interface {
	SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) error
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error
}

// SMSSender delivers text messages.
type SMSSender interface {
	SendSMS(to, body string) (string, error)
}

// Service routes notifications to the right channel: push for registered
// users with devices, SMS for guests booked by phone number. Delivery
// failures are logged and swallowed so they never break a booking or payment.
type Service struct {
	repo       Repository
	push       PushSender
	sms        SMSSender
	adminTopic string
}

// NewService creates a new notifications service. push and sms may be nil
// when the corresponding provider is not configured.
func NewService(repo Repository, push PushSender, sms SMSSender, adminTopic string) *Service {
	return &Service{repo: repo, push: push, sms: sms, adminTopic: adminTopic}
}

// Send delivers a message to a user's devices, falling back to SMS when no
// push delivery is possible. Never returns an error.
func (s *Service) Send(ctx context.Context, userID *uuid.UUID, phone, title, body string) {
	if userID != nil && s.push != nil {
		tokens, err := s.repo.GetTokensByUser(ctx, *userID)
		if err == nil && len(tokens) > 0 {
			pushErr := s.push.SendToTokens(ctx, tokens, title, body, nil)
			if pushErr == nil {
				return
			}
			logger.WarnContext(ctx, "push delivery failed, trying SMS",
				zap.String("user_id", userID.String()),
				zap.Error(pushErr),
			)
		}
	}

	if phone != "" && s.sms != nil {
		if _, err := s.sms.SendSMS(phone, title+": "+body); err != nil {
			logger.WarnContext(ctx, "SMS delivery failed",
				zap.String("phone", phone),
				zap.Error(err),
			)
		}
		return
	}

	logger.WithContext(ctx).Debug("no notification channel available, message dropped",
		zap.String("title", title),
	)
}

// NotifyAdmins publishes an operations alert to the admin topic.
func (s *Service) NotifyAdmins(ctx context.Context, title, body string) {
	if s.push == nil || s.adminTopic == "" {
		return
	}
	if err := s.push.SendToTopic(ctx, s.adminTopic, title, body, nil); err != nil {
		logger.WarnContext(ctx, "admin topic delivery failed", zap.Error(err))
	}
}

// RegisterDeviceToken stores a device token for the user
func (s *Service) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token, platform string) (*DeviceToken, error) {
	if token == "" {
		return nil, common.NewValidationError("device token cannot be empty")
	}
	switch platform {
	case "android", "ios", "web":
	default:
		return nil, common.NewValidationError("platform must be android, ios or web")
	}

	deviceToken := &DeviceToken{UserID: userID, Token: token, Platform: platform}
	if err := s.repo.SaveDeviceToken(ctx, deviceToken); err != nil {
		return nil, err
	}

	return deviceToken, nil
}

// RemoveDeviceToken deletes a device token for the user
func (s *Service) RemoveDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	return s.repo.DeleteDeviceToken(ctx, userID, token)
}
