package drivers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/transitpadi/transit-backend/internal/wallet"
	"github.com/transitpadi/transit-backend/pkg/common"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateFundRequest(ctx context.Context, req *FundRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRepository) GetFundRequestByID(ctx context.Context, id uuid.UUID) (*FundRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FundRequest), args.Error(1)
}

func (m *MockRepository) ListFundRequests(ctx context.Context, driverID *uuid.UUID, status string, limit, offset int) ([]*FundRequest, int64, error) {
	args := m.Called(ctx, driverID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*FundRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ReviewFundRequest(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID, note string) (*FundRequest, error) {
	args := m.Called(ctx, id, status, reviewerID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FundRequest), args.Error(1)
}

func (m *MockRepository) ApproveFundRequest(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID, note string) (*FundRequest, *wallet.FundResult, error) {
	args := m.Called(ctx, id, reviewerID, note)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*FundRequest), args.Get(1).(*wallet.FundResult), args.Error(2)
}

func (m *MockRepository) CreateExpense(ctx context.Context, expense *Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockRepository) ListExpenses(ctx context.Context, driverID *uuid.UUID, limit, offset int) ([]*Expense, int64, error) {
	args := m.Called(ctx, driverID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Expense), args.Get(1).(int64), args.Error(2)
}

func TestRequestFunds_Validation(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	_, err := service.RequestFunds(context.Background(), uuid.New(), 0, "fuel")
	assert.Error(t, err)

	_, err = service.RequestFunds(context.Background(), uuid.New(), 5000, "   ")
	assert.Error(t, err)

	mockRepo.AssertNotCalled(t, "CreateFundRequest")
}

func TestReviewFundRequest_ApprovalPaysAtomically(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	requestID := uuid.New()
	driverID := uuid.New()
	reviewerID := uuid.New()

	approved := &FundRequest{
		ID:       requestID,
		DriverID: driverID,
		Amount:   20000,
		Reason:   "fuel float",
		Status:   FundRequestApproved,
	}
	mockRepo.On("ApproveFundRequest", mock.Anything, requestID, reviewerID, "ok").
		Return(approved, &wallet.FundResult{NewBalance: 20000}, nil)

	req, err := service.ReviewFundRequest(context.Background(), requestID, true, reviewerID, "ok")

	assert.NoError(t, err)
	assert.Equal(t, FundRequestApproved, req.Status)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "ReviewFundRequest")
}

func TestReviewFundRequest_RejectionDoesNotTouchWallet(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	requestID := uuid.New()
	reviewerID := uuid.New()

	mockRepo.On("ReviewFundRequest", mock.Anything, requestID, FundRequestRejected, reviewerID, "no receipts").
		Return(&FundRequest{ID: requestID, Status: FundRequestRejected}, nil)

	_, err := service.ReviewFundRequest(context.Background(), requestID, false, reviewerID, "no receipts")

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "ApproveFundRequest")
}

func TestReviewFundRequest_DoubleReviewConflicts(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	requestID := uuid.New()
	reviewerID := uuid.New()

	mockRepo.On("ApproveFundRequest", mock.Anything, requestID, reviewerID, "").
		Return(nil, nil, common.NewConflictError("fund request not found or already reviewed"))

	_, err := service.ReviewFundRequest(context.Background(), requestID, true, reviewerID, "")

	assert.Error(t, err)
}

func TestReviewFundRequest_FailedPayoutSurfacesError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	requestID := uuid.New()
	reviewerID := uuid.New()

	mockRepo.On("ApproveFundRequest", mock.Anything, requestID, reviewerID, "ok").
		Return(nil, nil, common.NewInternalError("failed to update wallet balance", nil))

	_, err := service.ReviewFundRequest(context.Background(), requestID, true, reviewerID, "ok")

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, 500, appErr.Code)
}

func TestRecordExpense_Validation(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	yesterday := time.Now().Add(-24 * time.Hour)

	_, err := service.RecordExpense(context.Background(), uuid.New(), -50, CategoryFuel, "", yesterday)
	assert.Error(t, err)

	_, err = service.RecordExpense(context.Background(), uuid.New(), 5000, "snacks", "", yesterday)
	assert.Error(t, err)

	_, err = service.RecordExpense(context.Background(), uuid.New(), 5000, CategoryFuel, "", time.Now().Add(48*time.Hour))
	assert.Error(t, err)

	mockRepo.AssertNotCalled(t, "CreateExpense")
}

func TestRecordExpense_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	driverID := uuid.New()
	yesterday := time.Now().Add(-24 * time.Hour)

	mockRepo.On("CreateExpense", mock.Anything, mock.MatchedBy(func(e *Expense) bool {
		return e.DriverID == driverID && e.Category == CategoryMaintenance && e.Amount == 15000
	})).Return(nil)

	expense, err := service.RecordExpense(context.Background(), driverID, 15000, CategoryMaintenance, "brake pads", yesterday)

	assert.NoError(t, err)
	assert.Equal(t, "brake pads", expense.Description)
	mockRepo.AssertExpectations(t)
}
