package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking types
const (
	TypePassenger = "passenger"
	TypeCharter   = "charter"
)

// Booking statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Booking is a confirmed seat reservation or vehicle charter. UserID is nil
// for guest bookings, which are keyed by the guest's name and phone instead.
// Price fields are stored as computed at booking time so later pricing changes
// never rewrite history.
type Booking struct {
	ID          uuid.UUID  `json:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	GuestName   string     `json:"guest_name,omitempty"`
	GuestPhone  string     `json:"guest_phone,omitempty"`
	BookingType string     `json:"booking_type"`

	// Passenger booking fields
	TripID *uuid.UUID `json:"trip_id,omitempty"`
	Seats  int        `json:"seats,omitempty"`

	// Charter booking fields
	PackageID      *string    `json:"package_id,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	Days           int        `json:"days,omitempty"`
	PickupLocation string     `json:"pickup_location,omitempty"`
	Destination    string     `json:"destination,omitempty"`

	BasePrice      float64 `json:"base_price"`
	DiscountAmount float64 `json:"discount_amount"`
	CouponCode     *string `json:"coupon_code,omitempty"`
	TotalPrice     float64 `json:"total_price"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingFilter narrows admin booking listings.
type BookingFilter struct {
	BookingType string
	Status      string
	UserID      *uuid.UUID
}
