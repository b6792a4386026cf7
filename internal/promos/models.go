package promos

import (
	"time"

	"github.com/google/uuid"
)

// Promotion statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Discount types
const (
	DiscountFixed      = "fixed"
	DiscountPercentage = "percentage"
)

// Applicability scopes
const (
	ScopeAll             = "all"
	ScopeSeatBooking     = "seat_booking"
	ScopeCharter         = "charter"
	ScopeSpecificPackage = "specific_package"
)

// Promotion represents a redeemable discount code. Codes are stored
// uppercase and matched case-insensitively against caller input.
type Promotion struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue float64    `json:"discount_value"`
	AppliesTo     string     `json:"applies_to"`
	PackageID     *string    `json:"package_id,omitempty"`
	CreatedBy     *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// BookingContext describes what a coupon is being applied to.
type BookingContext struct {
	BookingType string // "passenger" or "charter"
	PackageID   string // set for charter bookings
}

// Evaluation is the result of applying a promotion to a price.
type Evaluation struct {
	Code            string  `json:"code"`
	DiscountAmount  float64 `json:"discount_amount"`
	DiscountedPrice float64 `json:"discounted_price"`
}
