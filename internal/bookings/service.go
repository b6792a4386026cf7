package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/transitpadi/transit-backend/internal/promos"
	"github.com/transitpadi/transit-backend/internal/settings"
	"github.com/transitpadi/transit-backend/internal/trips"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/logger"
	"go.uber.org/zap"
)

// Repository defines the storage operations required by the service.
type Repository interface {
	CreatePassengerBooking(ctx context.Context, booking *Booking) error
	CreateCharterBooking(ctx context.Context, booking *Booking) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter, limit, offset int) ([]*Booking, int64, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status string) (*Booking, error)
}

// TripFinder resolves trips for server-side fare calculation.
type TripFinder interface {
	GetTrip(ctx context.Context, id uuid.UUID) (*trips.Trip, error)
}

// SettingsProvider resolves operations settings and the charter catalogue.
type SettingsProvider interface {
	GetOperationsSettings(ctx context.Context) (*settings.OperationsSettings, error)
	GetCharterPackage(ctx context.Context, id string) (*settings.CharterPackage, error)
}

// CouponEvaluator applies a coupon code to a computed price.
type CouponEvaluator interface {
	ApplyCode(ctx context.Context, code string, bctx promos.BookingContext, price float64) (*promos.Evaluation, error)
}

// Notifier delivers booking confirmations and alerts the operations team.
// Implementations must not block the booking flow; failures are logged, never
// returned.
type Notifier interface {
	Send(ctx context.Context, userID *uuid.UUID, phone, title, body string)
	NotifyAdmins(ctx context.Context, title, body string)
}

// Service handles booking business logic
type Service struct {
	repo     Repository
	trips    TripFinder
	settings SettingsProvider
	coupons  CouponEvaluator
	notifier Notifier
}

// NewService creates a new bookings service
func NewService(repo Repository, tripFinder TripFinder, settingsProvider SettingsProvider, coupons CouponEvaluator, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		trips:    tripFinder,
		settings: settingsProvider,
		coupons:  coupons,
		notifier: notifier,
	}
}

// CreateBookingInput carries a validated booking request into the service.
type CreateBookingInput struct {
	UserID      *uuid.UUID
	GuestName   string
	GuestPhone  string
	BookingType string

	TripID *uuid.UUID
	Seats  int

	PackageID      string
	StartDate      *time.Time
	Days           int
	PickupLocation string
	Destination    string

	CouponCode string
}

// CreateBooking prices and records a booking. Every validation and coupon
// failure returns before anything is written, so a rejected request leaves no
// trace in the database.
func (s *Service) CreateBooking(ctx context.Context, input CreateBookingInput) (*Booking, error) {
	if input.UserID == nil && (input.GuestName == "" || input.GuestPhone == "") {
		return nil, common.NewBadRequestError("guest bookings require a name and phone number", nil)
	}

	ops, err := s.settings.GetOperationsSettings(ctx)
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		UserID:      input.UserID,
		GuestName:   input.GuestName,
		GuestPhone:  input.GuestPhone,
		BookingType: input.BookingType,
		Status:      StatusPending,
	}

	switch input.BookingType {
	case TypePassenger:
		if err := s.pricePassengerBooking(ctx, ops, input, booking); err != nil {
			return nil, err
		}
	case TypeCharter:
		if err := s.priceCharterBooking(ctx, ops, input, booking); err != nil {
			return nil, err
		}
	default:
		return nil, common.NewBadRequestError("booking type must be 'passenger' or 'charter'", nil)
	}

	booking.TotalPrice = booking.BasePrice

	if input.CouponCode != "" {
		eval, err := s.coupons.ApplyCode(ctx, input.CouponCode, promos.BookingContext{
			BookingType: input.BookingType,
			PackageID:   input.PackageID,
		}, booking.BasePrice)
		if err != nil {
			return nil, err
		}
		booking.DiscountAmount = eval.DiscountAmount
		booking.TotalPrice = eval.DiscountedPrice
		booking.CouponCode = &eval.Code
	}

	switch input.BookingType {
	case TypePassenger:
		err = s.repo.CreatePassengerBooking(ctx, booking)
	case TypeCharter:
		err = s.repo.CreateCharterBooking(ctx, booking)
	}
	if err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, booking)

	return booking, nil
}

func (s *Service) pricePassengerBooking(ctx context.Context, ops *settings.OperationsSettings, input CreateBookingInput, booking *Booking) error {
	if !ops.BookingsOpen {
		return common.NewBadRequestError("seat bookings are currently closed", nil)
	}
	if input.TripID == nil {
		return common.NewBadRequestError("trip_id is required for passenger bookings", nil)
	}
	if input.Seats < 1 {
		return common.NewBadRequestError("at least one seat is required", nil)
	}
	if ops.MaxSeatsPerBooking > 0 && input.Seats > ops.MaxSeatsPerBooking {
		return common.NewBadRequestError(fmt.Sprintf("a single booking can hold at most %d seats", ops.MaxSeatsPerBooking), nil)
	}

	trip, err := s.trips.GetTrip(ctx, *input.TripID)
	if err != nil {
		return err
	}
	if trip.Status != trips.StatusScheduled {
		return common.NewBadRequestError("this trip is no longer open for booking", nil)
	}
	if trip.SeatsAvailable < input.Seats {
		return common.NewConflictError(fmt.Sprintf("only %d seats left on this trip", trip.SeatsAvailable))
	}

	booking.TripID = input.TripID
	booking.Seats = input.Seats
	// Fares come from the stored trip, never from the client
	booking.BasePrice = trip.SeatPrice * float64(input.Seats)
	return nil
}

func (s *Service) priceCharterBooking(ctx context.Context, ops *settings.OperationsSettings, input CreateBookingInput, booking *Booking) error {
	if !ops.CharterOpen {
		return common.NewBadRequestError("charter bookings are currently closed", nil)
	}
	if input.PackageID == "" {
		return common.NewBadRequestError("package_id is required for charter bookings", nil)
	}
	if input.Days < 1 {
		return common.NewBadRequestError("charter duration must be at least one day", nil)
	}
	if input.StartDate == nil || input.StartDate.Before(time.Now().Truncate(24*time.Hour)) {
		return common.NewBadRequestError("start date must be today or later", nil)
	}
	if input.PickupLocation == "" {
		return common.NewBadRequestError("pickup location is required for charter bookings", nil)
	}

	pkg, err := s.settings.GetCharterPackage(ctx, input.PackageID)
	if err != nil {
		return err
	}
	if !pkg.IsActive {
		return common.NewBadRequestError("this charter package is not available", nil)
	}

	booking.PackageID = &pkg.ID
	booking.StartDate = input.StartDate
	booking.Days = input.Days
	booking.PickupLocation = input.PickupLocation
	booking.Destination = input.Destination
	booking.BasePrice = pkg.Price(input.Days)
	return nil
}

func (s *Service) notifyCreated(ctx context.Context, booking *Booking) {
	if s.notifier == nil {
		return
	}

	title := "Booking received"
	body := fmt.Sprintf("Your %s booking is pending payment. Total: NGN %.2f", booking.BookingType, booking.TotalPrice)

	// Detached from the request context so a slow provider never delays the
	// response; correlation ID is preserved for tracing.
	notifyCtx := logger.ContextWithCorrelationID(context.Background(), logger.CorrelationIDFromContext(ctx))
	go s.notifier.Send(notifyCtx, booking.UserID, booking.GuestPhone, title, body)
	go s.notifier.NotifyAdmins(notifyCtx, "New booking",
		fmt.Sprintf("%s booking for NGN %.2f awaiting confirmation", booking.BookingType, booking.TotalPrice))
}

// GetBooking retrieves a booking, enforcing owner-or-admin access.
func (s *Service) GetBooking(ctx context.Context, id uuid.UUID, requester *uuid.UUID, isAdmin bool) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin {
		if booking.UserID == nil || requester == nil || *booking.UserID != *requester {
			return nil, common.NewForbiddenError("you do not have access to this booking")
		}
	}

	return booking, nil
}

// ListUserBookings returns the authenticated user's own bookings.
func (s *Service) ListUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Booking, int64, error) {
	return s.repo.ListBookings(ctx, BookingFilter{UserID: &userID}, limit, offset)
}

// ListBookings returns bookings matching a filter (admin only).
func (s *Service) ListBookings(ctx context.Context, filter BookingFilter, limit, offset int) ([]*Booking, int64, error) {
	return s.repo.ListBookings(ctx, filter, limit, offset)
}

// UpdateStatus transitions a booking's status (admin only).
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Booking, error) {
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
	default:
		return nil, common.NewValidationError("invalid booking status")
	}

	booking, err := s.repo.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "booking status updated",
		zap.String("booking_id", booking.ID.String()),
		zap.String("status", status),
	)

	return booking, nil
}
