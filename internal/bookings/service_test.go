package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/transitpadi/transit-backend/internal/promos"
	"github.com/transitpadi/transit-backend/internal/settings"
	"github.com/transitpadi/transit-backend/internal/trips"
	"github.com/transitpadi/transit-backend/pkg/common"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreatePassengerBooking(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockRepository) CreateCharterBooking(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) ListBookings(ctx context.Context, filter BookingFilter, limit, offset int) ([]*Booking, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status string) (*Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

type MockTripFinder struct {
	mock.Mock
}

func (m *MockTripFinder) GetTrip(ctx context.Context, id uuid.UUID) (*trips.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trips.Trip), args.Error(1)
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

func (m *MockSettingsProvider) GetCharterPackage(ctx context.Context, id string) (*settings.CharterPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.CharterPackage), args.Error(1)
}

type MockCouponEvaluator struct {
	mock.Mock
}

func (m *MockCouponEvaluator) ApplyCode(ctx context.Context, code string, bctx promos.BookingContext, price float64) (*promos.Evaluation, error) {
	args := m.Called(ctx, code, bctx, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promos.Evaluation), args.Error(1)
}

func openSettings() *settings.OperationsSettings {
	return &settings.OperationsSettings{
		BookingsOpen:       true,
		CharterOpen:        true,
		MaxSeatsPerBooking: 4,
	}
}

func newTestService(repo Repository, tf TripFinder, sp SettingsProvider, ce CouponEvaluator) *Service {
	return NewService(repo, tf, sp, ce, nil)
}

func TestCreateBooking_PassengerPricedFromTrip(t *testing.T) {
	mockRepo := new(MockRepository)
	mockTrips := new(MockTripFinder)
	mockSettings := new(MockSettingsProvider)
	service := newTestService(mockRepo, mockTrips, mockSettings, new(MockCouponEvaluator))

	tripID := uuid.New()
	userID := uuid.New()

	mockSettings.On("GetOperationsSettings", mock.Anything).Return(openSettings(), nil)
	mockTrips.On("GetTrip", mock.Anything, tripID).Return(&trips.Trip{
		ID:             tripID,
		SeatPrice:      7500,
		SeatsAvailable: 5,
		Status:         trips.StatusScheduled,
	}, nil)
	mockRepo.On("CreatePassengerBooking", mock.Anything, mock.AnythingOfType("*bookings.Booking")).Return(nil)

	booking, err := service.CreateBooking(context.Background(), CreateBookingInput{
		UserID:      &userID,
		BookingType: TypePassenger,
		TripID:      &tripID,
		Seats:       2,
	})

	assert.NoError(t, err)
	assert.Equal(t, float64(15000), booking.BasePrice)
	assert.Equal(t, float64(15000), booking.TotalPrice)
	assert.Equal(t, StatusPending, booking.Status)
	mockRepo.AssertExpectations(t)
}

func TestCreateBooking_CouponRejectionWritesNothing(t *testing.T) {
	mockRepo := new(MockRepository)
	mockTrips := new(MockTripFinder)
	mockSettings := new(MockSettingsProvider)
	mockCoupons := new(MockCouponEvaluator)
	service := newTestService(mockRepo, mockTrips, mockSettings, mockCoupons)

	tripID := uuid.New()
	userID := uuid.New()

	mockSettings.On("GetOperationsSettings", mock.Anything).Return(openSettings(), nil)
	mockTrips.On("GetTrip", mock.Anything, tripID).Return(&trips.Trip{
		ID:             tripID,
		SeatPrice:      5000,
		SeatsAvailable: 4,
		Status:         trips.StatusScheduled,
	}, nil)
	mockCoupons.On("ApplyCode", mock.Anything, "EXPIRED", mock.Anything, float64(5000)).
		Return(nil, common.NewBadRequestError("invalid or expired coupon", nil))

	_, err := service.CreateBooking(context.Background(), CreateBookingInput{
		UserID:      &userID,
		BookingType: TypePassenger,
		TripID:      &tripID,
		Seats:       1,
		CouponCode:  "EXPIRED",
	})

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "CreatePassengerBooking")
	mockRepo.AssertNotCalled(t, "CreateCharterBooking")
}

func TestCreateBooking_CouponDiscountApplied(t *testing.T) {
	mockRepo := new(MockRepository)
	mockTrips := new(MockTripFinder)
	mockSettings := new(MockSettingsProvider)
	mockCoupons := new(MockCouponEvaluator)
	service := newTestService(mockRepo, mockTrips, mockSettings, mockCoupons)

	tripID := uuid.New()
	userID := uuid.New()

	mockSettings.On("GetOperationsSettings", mock.Anything).Return(openSettings(), nil)
	mockTrips.On("GetTrip", mock.Anything, tripID).Return(&trips.Trip{
		ID:             tripID,
		SeatPrice:      10000,
		SeatsAvailable: 4,
		Status:         trips.StatusScheduled,
	}, nil)
	mockCoupons.On("ApplyCode", mock.Anything, "SAVE10", promos.BookingContext{BookingType: TypePassenger}, float64(10000)).
		Return(&promos.Evaluation{Code: "SAVE10", DiscountAmount: 1000, DiscountedPrice: 9000}, nil)
	mockRepo.On("CreatePassengerBooking", mock.Anything, mock.AnythingOfType("*bookings.Booking")).Return(nil)

	booking, err := service.CreateBooking(context.Background(), CreateBookingInput{
		UserID:      &userID,
		BookingType: TypePassenger,
		TripID:      &tripID,
		Seats:       1,
		CouponCode:  "SAVE10",
	})

	assert.NoError(t, err)
	assert.Equal(t, float64(10000), booking.BasePrice)
	assert.Equal(t, float64(1000), booking.DiscountAmount)
	assert.Equal(t, float64(9000), booking.TotalPrice)
	assert.Equal(t, "SAVE10", *booking.CouponCode)
}

func TestCreateBooking_CharterPricing(t *testing.T) {
	mockRepo := new(MockRepository)
	mockSettings := new(MockSettingsProvider)
	service := newTestService(mockRepo, new(MockTripFinder), mockSettings, new(MockCouponEvaluator))

	userID := uuid.New()
	start := time.Now().Add(72 * time.Hour)

	mockSettings.On("GetOperationsSettings", mock.Anything).Return(openSettings(), nil)
	mockSettings.On("GetCharterPackage", mock.Anything, "sienna").Return(&settings.CharterPackage{
		ID:        "sienna",
		BasePrice: 45000,
		DailyRate: 30000,
		IsActive:  true,
	}, nil)
	mockRepo.On("CreateCharterBooking", mock.Anything, mock.AnythingOfType("*bookings.Booking")).Return(nil)

	booking, err := service.CreateBooking(context.Background(), CreateBookingInput{
		UserID:         &userID,
		BookingType:    TypeCharter,
		PackageID:      "sienna",
		StartDate:      &start,
		Days:           3,
		PickupLocation: "Ikeja",
		Destination:    "Ibadan",
	})

	assert.NoError(t, err)
	// base 45000 + 2 extra days at 30000
	assert.Equal(t, float64(105000), booking.BasePrice)
	mockRepo.AssertExpectations(t)
}

func TestCreateBooking_BookingsClosed(t *testing.T) {
	mockRepo := new(MockRepository)
	mockSettings := new(MockSettingsProvider)
	service := newTestService(mockRepo, new(MockTripFinder), mockSettings, new(MockCouponEvaluator))

	tripID := uuid.New()
	userID := uuid.New()

	mockSettings.On("GetOperationsSettings", mock.Anything).Return(&settings.OperationsSettings{
		BookingsOpen:       false,
		MaxSeatsPerBooking: 4,
	}, nil)

	_, err := service.CreateBooking(context.Background(), CreateBookingInput{
		UserID:      &userID,
		BookingType: TypePassenger,
		TripID:      &tripID,
		Seats:       1,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
	mockRepo.AssertNotCalled(t, "CreatePassengerBooking")
}

func TestCreateBooking_SeatLimitEnforced(t *testing.T) {
	mockRepo := new(MockRepository)
	mockSettings := new(MockSettingsProvider)
	service := newTestService(mockRepo, new(MockTripFinder), mockSettings, new(MockCouponEvaluator))

	tripID := uuid.New()
	userID := uuid.New()

	mockSettings.On("GetOperationsSettings", mock.Anything).Return(openSettings(), nil)

	_, err := service.CreateBooking(context.Background(), CreateBookingInput{
		UserID:      &userID,
		BookingType: TypePassenger,
		TripID:      &tripID,
		Seats:       9,
	})

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "CreatePassengerBooking")
}

func TestCreateBooking_GuestRequiresContactDetails(t *testing.T) {
	mockRepo := new(MockRepository)
	mockSettings := new(MockSettingsProvider)
	service := newTestService(mockRepo, new(MockTripFinder), mockSettings, new(MockCouponEvaluator))

	tripID := uuid.New()

	_, err := service.CreateBooking(context.Background(), CreateBookingInput{
		BookingType: TypePassenger,
		TripID:      &tripID,
		Seats:       1,
	})

	assert.Error(t, err)
	mockSettings.AssertNotCalled(t, "GetOperationsSettings")
}

func TestCreateBooking_InactiveCharterPackage(t *testing.T) {
	mockRepo := new(MockRepository)
	mockSettings := new(MockSettingsProvider)
	service := newTestService(mockRepo, new(MockTripFinder), mockSettings, new(MockCouponEvaluator))

	userID := uuid.New()
	start := time.Now().Add(48 * time.Hour)

	mockSettings.On("GetOperationsSettings", mock.Anything).Return(openSettings(), nil)
	mockSettings.On("GetCharterPackage", mock.Anything, "retired").Return(&settings.CharterPackage{
		ID:        "retired",
		BasePrice: 50000,
		IsActive:  false,
	}, nil)

	_, err := service.CreateBooking(context.Background(), CreateBookingInput{
		UserID:         &userID,
		BookingType:    TypeCharter,
		PackageID:      "retired",
		StartDate:      &start,
		Days:           1,
		PickupLocation: "Lekki",
	})

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "CreateCharterBooking")
}

func TestGetBooking_OwnerOnly(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, new(MockTripFinder), new(MockSettingsProvider), new(MockCouponEvaluator))

	owner := uuid.New()
	stranger := uuid.New()
	bookingID := uuid.New()

	mockRepo.On("GetBookingByID", mock.Anything, bookingID).Return(&Booking{
		ID:     bookingID,
		UserID: &owner,
	}, nil)

	_, err := service.GetBooking(context.Background(), bookingID, &stranger, false)
	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, 403, appErr.Code)

	booking, err := service.GetBooking(context.Background(), bookingID, &owner, false)
	assert.NoError(t, err)
	assert.Equal(t, bookingID, booking.ID)

	// Admins can see guest bookings
	booking, err = service.GetBooking(context.Background(), bookingID, nil, true)
	assert.NoError(t, err)
	assert.Equal(t, bookingID, booking.ID)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, new(MockTripFinder), new(MockSettingsProvider), new(MockCouponEvaluator))

	_, err := service.UpdateStatus(context.Background(), uuid.New(), "boarding")

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "UpdateBookingStatus")
}
