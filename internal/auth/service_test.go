package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/transitpadi/transit-backend/internal/settings"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/config"
	"github.com/transitpadi/transit-backend/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, user *models.User, referralCode string, bonusAmount float64) error {
	args := m.Called(ctx, user, referralCode, bonusAmount)
	return args.Error(0)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phoneNumber string) (*models.User, error) {
	args := m.Called(ctx, id, fullName, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockSettingsProvider struct {
	mock.Mock
}

func (m *MockSettingsProvider) GetOperationsSettings(ctx context.Context) (*settings.OperationsSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.OperationsSettings), args.Error(1)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: 24}
}

func testReferralConfig() config.ReferralConfig {
	return config.ReferralConfig{Enabled: true, BonusAmount: 500}
}

func validRegisterRequest() *models.RegisterRequest {
	return &models.RegisterRequest{
		Email:       "ada@example.com",
		Password:    "s3curePassword",
		PhoneNumber: "+2348012345678",
		FullName:    "Ada Obi",
	}
}

func TestRegister_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, testJWTConfig(), testReferralConfig(), nil)

	mockRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "ada@example.com" &&
			u.Role == models.RolePassenger &&
			u.ReferralCode != "" &&
			u.PasswordHash != "s3curePassword"
	}), "", float64(500)).Return(nil)

	resp, err := service.Register(context.Background(), validRegisterRequest())

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	mockRepo.AssertExpectations(t)
}

func TestRegister_PassesReferralCodeThrough(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, testJWTConfig(), testReferralConfig(), nil)

	mockRepo.On("CreateUser", mock.Anything, mock.Anything, "ADA-7KQ2", float64(500)).Return(nil)

	req := validRegisterRequest()
	req.ReferralCode = "ADA-7KQ2"
	_, err := service.Register(context.Background(), req)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRegister_ReferralDisabledSendsZeroBonus(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, testJWTConfig(), config.ReferralConfig{Enabled: false, BonusAmount: 500}, nil)

	mockRepo.On("CreateUser", mock.Anything, mock.Anything, "ADA-7KQ2", float64(0)).Return(nil)

	req := validRegisterRequest()
	req.ReferralCode = "ADA-7KQ2"
	_, err := service.Register(context.Background(), req)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRegister_OperationsSettingsOverrideEnvDefaults(t *testing.T) {
	mockRepo := new(MockRepository)
	mockSettings := new(MockSettingsProvider)
	service := NewService(mockRepo, testJWTConfig(), testReferralConfig(), mockSettings)

	// Admin turned referrals off in the CMS; the env default says on.
	mockSettings.On("GetOperationsSettings", mock.Anything).
		Return(&settings.OperationsSettings{ReferralEnabled: false, ReferralBonus: 1000}, nil)
	mockRepo.On("CreateUser", mock.Anything, mock.Anything, "ADA-7KQ2", float64(0)).Return(nil)

	req := validRegisterRequest()
	req.ReferralCode = "ADA-7KQ2"
	_, err := service.Register(context.Background(), req)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRegister_SettingsLookupFailureFallsBackToEnv(t *testing.T) {
	mockRepo := new(MockRepository)
	mockSettings := new(MockSettingsProvider)
	service := NewService(mockRepo, testJWTConfig(), testReferralConfig(), mockSettings)

	mockSettings.On("GetOperationsSettings", mock.Anything).
		Return(nil, common.NewInternalError("db down", nil))
	mockRepo.On("CreateUser", mock.Anything, mock.Anything, "ADA-7KQ2", float64(500)).Return(nil)

	req := validRegisterRequest()
	req.ReferralCode = "ADA-7KQ2"
	_, err := service.Register(context.Background(), req)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, testJWTConfig(), testReferralConfig(), nil)

	req := validRegisterRequest()
	req.Role = models.RoleAdmin
	_, err := service.Register(context.Background(), req)

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "CreateUser")
}

func TestRegister_DuplicateEmailSurfacesConflict(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, testJWTConfig(), testReferralConfig(), nil)

	mockRepo.On("CreateUser", mock.Anything, mock.Anything, "", float64(500)).
		Return(common.NewConflictError("an account with this email or phone number already exists"))

	_, err := service.Register(context.Background(), validRegisterRequest())

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, 409, appErr.Code)
}

func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, testJWTConfig(), testReferralConfig(), nil)

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3curePassword"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		Role:         models.RolePassenger,
		IsActive:     true,
	}
	mockRepo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(user, nil)

	resp, err := service.Login(context.Background(), &models.LoginRequest{
		Email:    "Ada@Example.com",
		Password: "s3curePassword",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, testJWTConfig(), testReferralConfig(), nil)

	hash, _ := bcrypt.GenerateFromPassword([]byte("rightPassword"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	mockRepo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(user, nil)

	_, err := service.Login(context.Background(), &models.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrongPassword",
	})

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, 401, appErr.Code)
}

func TestLogin_UnknownEmailSameAnswerAsWrongPassword(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, testJWTConfig(), testReferralConfig(), nil)

	mockRepo.On("GetUserByEmail", mock.Anything, "ghost@example.com").
		Return(nil, common.NewNotFoundError("user not found", nil))

	_, err := service.Login(context.Background(), &models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever123",
	})

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, 401, appErr.Code)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, testJWTConfig(), testReferralConfig(), nil)

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3curePassword"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		IsActive:     false,
	}
	mockRepo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(user, nil)

	_, err := service.Login(context.Background(), &models.LoginRequest{
		Email:    "ada@example.com",
		Password: "s3curePassword",
	})

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, 403, appErr.Code)
}

func TestGenerateReferralCode(t *testing.T) {
	code := generateReferralCode("Ada Obi")
	assert.True(t, strings.HasPrefix(code, "ADA-"))
	assert.Len(t, code, 8)

	// Names with no letters still get a usable code
	fallback := generateReferralCode("123")
	assert.True(t, strings.HasPrefix(fallback, "TPD-"))

	// Codes are random per call
	assert.NotEqual(t, generateReferralCode("Ada Obi"), generateReferralCode("Ada Obi"))
}
