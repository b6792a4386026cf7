package wallet

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types
const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

// Transaction statuses. Ledger rows are written settled; the status column
// exists so reversals can be represented without deleting history.
const (
	StatusCompleted = "completed"
	StatusReversed  = "reversed"
)

// Transaction sources
const (
	SourcePaystack      = "paystack"
	SourceReferralBonus = "referral_bonus"
	SourceFundRequest   = "fund_request"
	SourceAdmin         = "admin_adjustment"
)

// Transaction is one wallet ledger entry. Reference is the primary key, so a
// payment reference can only ever be credited once.
type Transaction struct {
	Reference   string    `json:"reference"`
	UserID      uuid.UUID `json:"user_id"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Source      string    `json:"source"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// FundResult is the outcome of a wallet funding attempt. AlreadyProcessed is
// true when the reference had been credited before; the stored transaction is
// returned either way.
type FundResult struct {
	Transaction      *Transaction `json:"transaction"`
	NewBalance       float64      `json:"new_balance"`
	AlreadyProcessed bool         `json:"already_processed"`
}

// VerifiedPayment is a gateway-confirmed payment, normalized to naira.
type VerifiedPayment struct {
	Reference string
	Status    string
	Amount    float64
	Currency  string
	PaidAt    *time.Time
}
