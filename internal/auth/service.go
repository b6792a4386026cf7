package auth

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/transitpadi/transit-backend/internal/settings"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/config"
	"github.com/transitpadi/transit-backend/pkg/logger"
	"github.com/transitpadi/transit-backend/pkg/middleware"
	"github.com/transitpadi/transit-backend/pkg/models"
	"github.com/transitpadi/transit-backend/pkg/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Repository defines the storage operations required by the service.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User, referralCode string, bonusAmount float64) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phoneNumber string) (*models.User, error)
}

// SettingsProvider resolves the operations settings carrying the referral
// bonus policy. May be nil; the env-configured defaults then apply.
type SettingsProvider interface {
	GetOperationsSettings(ctx context.Context) (*settings.OperationsSettings, error)
}

// Service handles authentication and account management
type Service struct {
	repo     Repository
	jwtCfg   config.JWTConfig
	referral config.ReferralConfig
	settings SettingsProvider
}

// NewService creates a new auth service
func NewService(repo Repository, jwtCfg config.JWTConfig, referral config.ReferralConfig, settingsProvider SettingsProvider) *Service {
	return &Service{repo: repo, jwtCfg: jwtCfg, referral: referral, settings: settingsProvider}
}

// referralPolicy prefers the admin-managed operations settings over the
// env defaults, so the bonus can be tuned without a deploy.
func (s *Service) referralPolicy(ctx context.Context) (bool, float64) {
	if s.settings != nil {
		if ops, err := s.settings.GetOperationsSettings(ctx); err == nil {
			return ops.ReferralEnabled, ops.ReferralBonus
		}
	}
	return s.referral.Enabled, s.referral.BonusAmount
}

// Register creates an account, hashing the password and assigning a fresh
// referral code. A valid referral code on the request credits the referrer's
// wallet atomically with the signup.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RolePassenger
	}
	if role == models.RoleAdmin {
		// Admin accounts are provisioned out of band
		return nil, common.NewForbiddenError("cannot self-register an admin account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternalError("failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		ReferralCode: generateReferralCode(req.FullName),
		IsActive:     true,
	}

	bonus := 0.0
	if enabled, amount := s.referralPolicy(ctx); enabled {
		bonus = amount
	}

	if err := s.repo.CreateUser(ctx, user, req.ReferralCode, bonus); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.Bool("referred", req.ReferralCode != ""),
	)

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{User: user, Token: token}, nil
}

// Login verifies credentials and issues a JWT.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		// Same answer for unknown email and wrong password
		return nil, common.NewUnauthorizedError("invalid email or password")
	}

	if !user.IsActive {
		return nil, common.NewForbiddenError("this account has been deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, common.NewUnauthorizedError("invalid email or password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{User: user, Token: token}, nil
}

// GetProfile returns the user's account details.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// UpdateProfile changes the user's name and phone number.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, phoneNumber string) (*models.User, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, common.NewValidationError("name cannot be empty")
	}
	return s.repo.UpdateProfile(ctx, userID, strings.TrimSpace(fullName), strings.TrimSpace(phoneNumber))
}

func (s *Service) issueToken(user *models.User) (string, error) {
	if s.jwtCfg.Secret == "" {
		return "", common.NewConfigurationError("JWT secret is not configured", nil)
	}

	now := time.Now()
	claims := middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.jwtCfg.Expiration) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", common.NewInternalError("failed to sign token", err)
	}

	return signed, nil
}

const referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateReferralCode builds a shareable code from the user's name plus a
// random suffix, e.g. "ADA-7KQ2".
func generateReferralCode(fullName string) string {
	prefix := strings.Builder{}
	for _, r := range strings.ToUpper(fullName) {
		if r >= 'A' && r <= 'Z' {
			prefix.WriteRune(r)
			if prefix.Len() == 3 {
				break
			}
		}
	}
	if prefix.Len() == 0 {
		prefix.WriteString("TPD")
	}

	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referralCodeAlphabet))))
		if err != nil {
			// Extremely unlikely; fall back to a time-derived index
			n = big.NewInt(time.Now().UnixNano() % int64(len(referralCodeAlphabet)))
		}
		suffix[i] = referralCodeAlphabet[n.Int64()]
	}

	return prefix.String() + "-" + string(suffix)
}
