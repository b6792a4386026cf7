package drivers

import (
	"time"

	"github.com/google/uuid"
)

// Fund request statuses
const (
	FundRequestPending  = "pending"
	FundRequestApproved = "approved"
	FundRequestRejected = "rejected"
)

// Expense categories
const (
	CategoryFuel        = "fuel"
	CategoryMaintenance = "maintenance"
	CategoryTolls       = "tolls"
	CategoryOther       = "other"
)

// FundRequest is a driver's application for operational money (fuel floats,
// repair advances). Approval credits the driver's wallet.
type FundRequest struct {
	ID         uuid.UUID  `json:"id"`
	DriverID   uuid.UUID  `json:"driver_id"`
	Amount     float64    `json:"amount"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	ReviewedBy *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewNote string     `json:"review_note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Expense is a driver's spend report against disbursed funds.
type Expense struct {
	ID          uuid.UUID `json:"id"`
	DriverID    uuid.UUID `json:"driver_id"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ExpenseDate time.Time `json:"expense_date"`
	CreatedAt   time.Time `json:"created_at"`
}
