package promos

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

func (m *MockRepository) GetPromotionByCode(ctx context.Context, code string) (*Promotion, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Promotion), args.Error(1)
}

func (m *MockRepository) GetPromotionByID(ctx context.Context, id uuid.UUID) (*Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Promotion), args.Error(1)
}

func (m *MockRepository) CreatePromotion(ctx context.Context, promo *Promotion) error {
	args := m.Called(ctx, promo)
	return args.Error(0)
}

func (m *MockRepository) UpdatePromotion(ctx context.Context, promo *Promotion) error {
	args := m.Called(ctx, promo)
	return args.Error(0)
}

func (m *MockRepository) DeactivatePromotion(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ListPromotions(ctx context.Context, limit, offset int) ([]*Promotion, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Promotion), args.Get(1).(int64), args.Error(2)
}

func TestEvaluate_PercentageDiscount(t *testing.T) {
	promo := &Promotion{Code: "SAVE10", DiscountType: DiscountPercentage, DiscountValue: 10}

	eval := Evaluate(promo, 10000)

	assert.Equal(t, float64(1000), eval.DiscountAmount)
	assert.Equal(t, float64(9000), eval.DiscountedPrice)
}

func TestEvaluate_FixedDiscount(t *testing.T) {
	promo := &Promotion{Code: "NGN500", DiscountType: DiscountFixed, DiscountValue: 500}

	eval := Evaluate(promo, 4500)

	assert.Equal(t, float64(500), eval.DiscountAmount)
	assert.Equal(t, float64(4000), eval.DiscountedPrice)
}

func TestEvaluate_FixedDiscountLargerThanPrice_FloorsAtZero(t *testing.T) {
	promo := &Promotion{Code: "BIG", DiscountType: DiscountFixed, DiscountValue: 1000}

	eval := Evaluate(promo, 500)

	assert.Equal(t, float64(1000), eval.DiscountAmount)
	assert.Equal(t, float64(0), eval.DiscountedPrice)
}

func TestApplyCode_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	promo := &Promotion{
		ID:            uuid.New(),
		Code:          "WELCOME",
		Status:        StatusActive,
		DiscountType:  DiscountPercentage,
		DiscountValue: 25,
		AppliesTo:     ScopeAll,
	}
	mockRepo.On("GetPromotionByCode", mock.Anything, "WELCOME").Return(promo, nil)

	eval, err := service.ApplyCode(context.Background(), "  welcome ", BookingContext{BookingType: "passenger"}, 8000)

	assert.NoError(t, err)
	assert.Equal(t, float64(2000), eval.DiscountAmount)
	assert.Equal(t, float64(6000), eval.DiscountedPrice)
	mockRepo.AssertExpectations(t)
}

func TestApplyCode_UnknownCode(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	mockRepo.On("GetPromotionByCode", mock.Anything, "NOPE").
		Return(nil, common.NewNotFoundError("promotion not found", nil))

	_, err := service.ApplyCode(context.Background(), "nope", BookingContext{BookingType: "passenger"}, 8000)

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
}

func TestApplyCode_StorageFailureIsNotARejection(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	mockRepo.On("GetPromotionByCode", mock.Anything, "WELCOME").
		Return(nil, common.NewInternalError("failed to get promotion", nil))

	_, err := service.ApplyCode(context.Background(), "WELCOME", BookingContext{BookingType: "passenger"}, 8000)

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, 500, appErr.Code)
}

func TestApplyCode_InactivePromotion(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	promo := &Promotion{Code: "OLD", Status: StatusInactive, DiscountType: DiscountFixed, DiscountValue: 100, AppliesTo: ScopeAll}
	mockRepo.On("GetPromotionByCode", mock.Anything, "OLD").Return(promo, nil)

	_, err := service.ApplyCode(context.Background(), "OLD", BookingContext{BookingType: "charter"}, 8000)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired")
}

func TestApplyCode_ScopeMismatch(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	promo := &Promotion{
		Code:          "CHARTERONLY",
		Status:        StatusActive,
		DiscountType:  DiscountPercentage,
		DiscountValue: 15,
		AppliesTo:     ScopeCharter,
	}
	mockRepo.On("GetPromotionByCode", mock.Anything, "CHARTERONLY").Return(promo, nil)

	_, err := service.ApplyCode(context.Background(), "CHARTERONLY", BookingContext{BookingType: "passenger"}, 8000)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not valid for this booking type")
}

func TestApplyCode_PackageScope(t *testing.T) {
	pkg := "sienna-7-seater"
	promo := &Promotion{
		Code:          "SIENNA5",
		Status:        StatusActive,
		DiscountType:  DiscountPercentage,
		DiscountValue: 5,
		AppliesTo:     ScopeSpecificPackage,
		PackageID:     &pkg,
	}

	assert.True(t, Applies(promo, BookingContext{BookingType: "charter", PackageID: "sienna-7-seater"}))
	assert.False(t, Applies(promo, BookingContext{BookingType: "charter", PackageID: "hiace-bus"}))
	assert.False(t, Applies(promo, BookingContext{BookingType: "passenger"}))
}

func TestCreatePromotion_Validation(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	tests := []struct {
		name  string
		promo *Promotion
	}{
		{"empty code", &Promotion{DiscountType: DiscountFixed, DiscountValue: 100, AppliesTo: ScopeAll}},
		{"bad discount type", &Promotion{Code: "X", DiscountType: "half-off", DiscountValue: 100, AppliesTo: ScopeAll}},
		{"zero value", &Promotion{Code: "X", DiscountType: DiscountFixed, DiscountValue: 0, AppliesTo: ScopeAll}},
		{"percentage over 100", &Promotion{Code: "X", DiscountType: DiscountPercentage, DiscountValue: 150, AppliesTo: ScopeAll}},
		{"package scope without package", &Promotion{Code: "X", DiscountType: DiscountFixed, DiscountValue: 100, AppliesTo: ScopeSpecificPackage}},
		{"unknown scope", &Promotion{Code: "X", DiscountType: DiscountFixed, DiscountValue: 100, AppliesTo: "everything"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.CreatePromotion(context.Background(), tt.promo)
			assert.Error(t, err)
		})
	}

	mockRepo.AssertNotCalled(t, "CreatePromotion")
}

func TestCreatePromotion_NormalizesCodeAndDefaultsStatus(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	mockRepo.On("CreatePromotion", mock.Anything, mock.MatchedBy(func(p *Promotion) bool {
		return p.Code == "SUMMER" && p.Status == StatusActive
	})).Return(nil)

	err := service.CreatePromotion(context.Background(), &Promotion{
		Code:          " summer ",
		DiscountType:  DiscountFixed,
		DiscountValue: 250,
		AppliesTo:     ScopeSeatBooking,
	})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
