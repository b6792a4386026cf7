package settings

import (
	"time"
)

// OperationsSettings is the single-row company configuration surfaced to the
// mobile apps and enforced by the booking flow.
type OperationsSettings struct {
	SupportPhone      string    `json:"support_phone"`
	SupportEmail      string    `json:"support_email"`
	BookingsOpen      bool      `json:"bookings_open"`
	CharterOpen       bool      `json:"charter_open"`
	MaxSeatsPerBooking int      `json:"max_seats_per_booking"`
	ReferralEnabled   bool      `json:"referral_enabled"`
	ReferralBonus     float64   `json:"referral_bonus"`
	AnnouncementText  string    `json:"announcement_text"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CharterPackage describes a hireable vehicle class and its pricing.
// Charter price = BasePrice + DailyRate * (days - 1).
type CharterPackage struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	VehicleType string    `json:"vehicle_type"`
	Capacity    int       `json:"capacity"`
	BasePrice   float64   `json:"base_price"`
	DailyRate   float64   `json:"daily_rate"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Price returns the charter cost for a rental of the given number of days.
// The first day is covered by the base price; each additional day adds the
// daily rate.
func (p *CharterPackage) Price(days int) float64 {
	if days < 1 {
		days = 1
	}
	return p.BasePrice + p.DailyRate*float64(days-1)
}
