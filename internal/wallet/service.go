package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/logger"
	"go.uber.org/zap"
)

// Repository defines the storage operations required by the service.
type Repository interface {
	Credit(ctx context.Context, userID uuid.UUID, reference string, amount float64, source, description string) (*FundResult, error)
	Debit(ctx context.Context, userID uuid.UUID, reference string, amount float64, source, description string) (*FundResult, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (float64, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, int64, error)
}

// Service handles wallet funding and the transaction ledger
type Service struct {
	repo     Repository
	verifier PaymentVerifier
}

// NewService creates a new wallet service
func NewService(repo Repository, verifier PaymentVerifier) *Service {
	return &Service{repo: repo, verifier: verifier}
}

// FundWallet verifies a payment reference with the gateway and credits the
// wallet exactly once. Replays of an already-credited reference succeed
// without touching the balance again.
func (s *Service) FundWallet(ctx context.Context, userID uuid.UUID, reference string, amount float64) (*FundResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, common.NewBadRequestError("payment reference is required", nil)
	}
	if amount <= 0 {
		return nil, common.NewBadRequestError("amount must be greater than zero", nil)
	}

	if s.verifier == nil {
		return nil, common.NewConfigurationError("payment gateway is not configured", nil)
	}

	payment, err := s.verifier.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}

	if payment.Status != "success" {
		logger.WarnContext(ctx, "rejected unsuccessful payment",
			zap.String("reference", reference),
			zap.String("gateway_status", payment.Status),
		)
		return nil, common.NewPaymentRequiredError(fmt.Sprintf("payment was not successful (status: %s)", payment.Status))
	}

	if payment.Currency != "" && payment.Currency != "NGN" {
		return nil, common.NewPaymentRequiredError(fmt.Sprintf("unsupported payment currency %q", payment.Currency))
	}

	if payment.Amount <= 0 {
		return nil, common.NewPaymentRequiredError("payment amount must be greater than zero")
	}

	// The gateway-confirmed amount is what gets credited. A mismatch against
	// what the client claimed is suspicious enough to log, not to reject.
	if payment.Amount != amount {
		logger.WarnContext(ctx, "claimed amount differs from verified amount",
			zap.String("reference", reference),
			zap.Float64("claimed", amount),
			zap.Float64("verified", payment.Amount),
		)
	}

	result, err := s.repo.Credit(ctx, userID, reference, payment.Amount, SourcePaystack, "wallet funding via Paystack")
	if err != nil {
		return nil, err
	}

	if result.AlreadyProcessed {
		logger.InfoContext(ctx, "payment reference replayed, wallet unchanged",
			zap.String("reference", reference),
		)
	} else {
		logger.InfoContext(ctx, "wallet funded",
			zap.String("reference", reference),
			zap.String("user_id", userID.String()),
			zap.Float64("amount", payment.Amount),
		)
	}

	return result, nil
}

// GetBalance returns the user's wallet balance.
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	return s.repo.GetBalance(ctx, userID)
}

// ListTransactions returns the user's ledger history.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, int64, error) {
	return s.repo.ListTransactions(ctx, userID, limit, offset)
}

// CreditWallet applies an internally-sourced credit (admin adjustments,
// referral corrections). The reference still guards against double application.
func (s *Service) CreditWallet(ctx context.Context, userID uuid.UUID, reference string, amount float64, source, description string) (*FundResult, error) {
	if amount <= 0 {
		return nil, common.NewValidationError("credit amount must be greater than zero")
	}
	return s.repo.Credit(ctx, userID, reference, amount, source, description)
}
