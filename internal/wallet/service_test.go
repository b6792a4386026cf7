package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/transitpadi/transit-backend/pkg/common"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Credit(ctx context.Context, userID uuid.UUID, reference string, amount float64, source, description string) (*FundResult, error) {
	args := m.Called(ctx, userID, reference, amount, source, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FundResult), args.Error(1)
}

func (m *MockRepository) Debit(ctx context.Context, userID uuid.UUID, reference string, amount float64, source, description string) (*FundResult, error) {
	args := m.Called(ctx, userID, reference, amount, source, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FundResult), args.Error(1)
}

func (m *MockRepository) GetBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Transaction), args.Get(1).(int64), args.Error(2)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyTransaction(ctx context.Context, reference string) (*VerifiedPayment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerifiedPayment), args.Error(1)
}

func TestFundWallet_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	mockVerifier := new(MockVerifier)
	service := NewService(mockRepo, mockVerifier)

	userID := uuid.New()

	mockVerifier.On("VerifyTransaction", mock.Anything, "PSK_ref_123").Return(&VerifiedPayment{
		Reference: "PSK_ref_123",
		Status:    "success",
		Amount:    5000,
		Currency:  "NGN",
	}, nil)
	mockRepo.On("Credit", mock.Anything, userID, "PSK_ref_123", float64(5000), SourcePaystack, mock.Anything).
		Return(&FundResult{
			Transaction: &Transaction{Reference: "PSK_ref_123", Amount: 5000, Type: TypeCredit},
			NewBalance:  5000,
		}, nil)

	result, err := service.FundWallet(context.Background(), userID, "PSK_ref_123", 5000)

	assert.NoError(t, err)
	assert.False(t, result.AlreadyProcessed)
	assert.Equal(t, float64(5000), result.NewBalance)
	mockVerifier.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFundWallet_EmptyReferenceRejectedBeforeGateway(t *testing.T) {
	mockRepo := new(MockRepository)
	mockVerifier := new(MockVerifier)
	service := NewService(mockRepo, mockVerifier)

	_, err := service.FundWallet(context.Background(), uuid.New(), "   ", 5000)

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
	mockVerifier.AssertNotCalled(t, "VerifyTransaction")
	mockRepo.AssertNotCalled(t, "Credit")
}

func TestFundWallet_NonPositiveAmountRejectedBeforeGateway(t *testing.T) {
	mockRepo := new(MockRepository)
	mockVerifier := new(MockVerifier)
	service := NewService(mockRepo, mockVerifier)

	_, err := service.FundWallet(context.Background(), uuid.New(), "PSK_ref_123", 0)

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
	mockVerifier.AssertNotCalled(t, "VerifyTransaction")
}

func TestFundWallet_UnsuccessfulPaymentIs402(t *testing.T) {
	mockRepo := new(MockRepository)
	mockVerifier := new(MockVerifier)
	service := NewService(mockRepo, mockVerifier)

	mockVerifier.On("VerifyTransaction", mock.Anything, "PSK_failed").Return(&VerifiedPayment{
		Reference: "PSK_failed",
		Status:    "failed",
		Amount:    5000,
		Currency:  "NGN",
	}, nil)

	_, err := service.FundWallet(context.Background(), uuid.New(), "PSK_failed", 5000)

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, 402, appErr.Code)
	assert.Equal(t, common.ErrCodePaymentRequired, appErr.ErrorCode)
	mockRepo.AssertNotCalled(t, "Credit")
}

func TestFundWallet_GatewayFailurePropagates(t *testing.T) {
	mockRepo := new(MockRepository)
	mockVerifier := new(MockVerifier)
	service := NewService(mockRepo, mockVerifier)

	mockVerifier.On("VerifyTransaction", mock.Anything, "PSK_down").
		Return(nil, common.NewDependencyError("payment gateway request failed", nil))

	_, err := service.FundWallet(context.Background(), uuid.New(), "PSK_down", 5000)

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, common.ErrCodeDependencyFailure, appErr.ErrorCode)
	mockRepo.AssertNotCalled(t, "Credit")
}

func TestFundWallet_CreditsVerifiedAmountNotClaimedAmount(t *testing.T) {
	mockRepo := new(MockRepository)
	mockVerifier := new(MockVerifier)
	service := NewService(mockRepo, mockVerifier)

	userID := uuid.New()

	mockVerifier.On("VerifyTransaction", mock.Anything, "PSK_mismatch").Return(&VerifiedPayment{
		Reference: "PSK_mismatch",
		Status:    "success",
		Amount:    5000,
		Currency:  "NGN",
	}, nil)
	mockRepo.On("Credit", mock.Anything, userID, "PSK_mismatch", float64(5000), SourcePaystack, mock.Anything).
		Return(&FundResult{
			Transaction: &Transaction{Reference: "PSK_mismatch", Amount: 5000, Type: TypeCredit},
			NewBalance:  5000,
		}, nil)

	result, err := service.FundWallet(context.Background(), userID, "PSK_mismatch", 9999)

	assert.NoError(t, err)
	assert.Equal(t, float64(5000), result.Transaction.Amount)
	mockRepo.AssertExpectations(t)
}

func TestFundWallet_ReplayReturnsStoredTransaction(t *testing.T) {
	mockRepo := new(MockRepository)
	mockVerifier := new(MockVerifier)
	service := NewService(mockRepo, mockVerifier)

	userID := uuid.New()

	mockVerifier.On("VerifyTransaction", mock.Anything, "PSK_ref_123").Return(&VerifiedPayment{
		Reference: "PSK_ref_123",
		Status:    "success",
		Amount:    5000,
		Currency:  "NGN",
	}, nil)
	mockRepo.On("Credit", mock.Anything, userID, "PSK_ref_123", float64(5000), SourcePaystack, mock.Anything).
		Return(&FundResult{
			Transaction:      &Transaction{Reference: "PSK_ref_123", Amount: 5000, Type: TypeCredit},
			NewBalance:       5000,
			AlreadyProcessed: true,
		}, nil)

	result, err := service.FundWallet(context.Background(), userID, "PSK_ref_123", 5000)

	assert.NoError(t, err)
	assert.True(t, result.AlreadyProcessed)
	assert.Equal(t, float64(5000), result.NewBalance)
}

func TestFundWallet_ForeignCurrencyRejected(t *testing.T) {
	mockRepo := new(MockRepository)
	mockVerifier := new(MockVerifier)
	service := NewService(mockRepo, mockVerifier)

	mockVerifier.On("VerifyTransaction", mock.Anything, "PSK_usd").Return(&VerifiedPayment{
		Reference: "PSK_usd",
		Status:    "success",
		Amount:    100,
		Currency:  "USD",
	}, nil)

	_, err := service.FundWallet(context.Background(), uuid.New(), "PSK_usd", 100)

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Credit")
}

func TestFundWallet_MissingVerifierIsConfigurationError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil)

	_, err := service.FundWallet(context.Background(), uuid.New(), "PSK_ref", 5000)

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, common.ErrCodeConfiguration, appErr.ErrorCode)
}

func TestCreditWallet_RejectsNonPositiveAmount(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockVerifier))

	_, err := service.CreditWallet(context.Background(), uuid.New(), "ref", 0, SourceAdmin, "adjustment")

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Credit")
}
