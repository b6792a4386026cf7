package drivers

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/transitpadi/transit-backend/internal/wallet"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/logger"
	"go.uber.org/zap"
)

// Repository defines the storage operations required by the service.
// ApproveFundRequest performs the status flip and the wallet credit in one
// database transaction.
type Repository interface {
	CreateFundRequest(ctx context.Context, req *FundRequest) error
	GetFundRequestByID(ctx context.Context, id uuid.UUID) (*FundRequest, error)
	ListFundRequests(ctx context.Context, driverID *uuid.UUID, status string, limit, offset int) ([]*FundRequest, int64, error)
	ReviewFundRequest(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID, note string) (*FundRequest, error)
	ApproveFundRequest(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID, note string) (*FundRequest, *wallet.FundResult, error)
	CreateExpense(ctx context.Context, expense *Expense) error
	ListExpenses(ctx context.Context, driverID *uuid.UUID, limit, offset int) ([]*Expense, int64, error)
}

// Service handles driver fund requests and expense reporting
type Service struct {
	repo Repository
}

// NewService creates a new drivers service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RequestFunds files a fund request for review.
func (s *Service) RequestFunds(ctx context.Context, driverID uuid.UUID, amount float64, reason string) (*FundRequest, error) {
	if amount <= 0 {
		return nil, common.NewValidationError("amount must be greater than zero")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, common.NewValidationError("a reason is required")
	}

	req := &FundRequest{
		DriverID: driverID,
		Amount:   amount,
		Reason:   strings.TrimSpace(reason),
		Status:   FundRequestPending,
	}

	if err := s.repo.CreateFundRequest(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

// ListMyFundRequests returns the driver's own fund requests.
func (s *Service) ListMyFundRequests(ctx context.Context, driverID uuid.UUID, limit, offset int) ([]*FundRequest, int64, error) {
	return s.repo.ListFundRequests(ctx, &driverID, "", limit, offset)
}

// ListFundRequests returns fund requests for review (admin only).
func (s *Service) ListFundRequests(ctx context.Context, status string, limit, offset int) ([]*FundRequest, int64, error) {
	return s.repo.ListFundRequests(ctx, nil, status, limit, offset)
}

// ReviewFundRequest approves or rejects a pending request (admin only).
// Approval and the wallet credit commit atomically: a failed payout leaves
// the request pending, so the review can simply be retried.
func (s *Service) ReviewFundRequest(ctx context.Context, id uuid.UUID, approve bool, reviewerID uuid.UUID, note string) (*FundRequest, error) {
	if !approve {
		return s.repo.ReviewFundRequest(ctx, id, FundRequestRejected, reviewerID, note)
	}

	req, result, err := s.repo.ApproveFundRequest(ctx, id, reviewerID, note)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "fund request approved and paid",
		zap.String("fund_request_id", req.ID.String()),
		zap.String("driver_id", req.DriverID.String()),
		zap.Float64("amount", req.Amount),
		zap.Float64("new_balance", result.NewBalance),
	)

	return req, nil
}

// RecordExpense files a driver expense report.
func (s *Service) RecordExpense(ctx context.Context, driverID uuid.UUID, amount float64, category, description string, expenseDate time.Time) (*Expense, error) {
	if amount <= 0 {
		return nil, common.NewValidationError("amount must be greater than zero")
	}
	switch category {
	case CategoryFuel, CategoryMaintenance, CategoryTolls, CategoryOther:
	default:
		return nil, common.NewValidationError("category must be one of fuel, maintenance, tolls, other")
	}
	if expenseDate.After(time.Now()) {
		return nil, common.NewValidationError("expense date cannot be in the future")
	}

	expense := &Expense{
		DriverID:    driverID,
		Amount:      amount,
		Category:    category,
		Description: strings.TrimSpace(description),
		ExpenseDate: expenseDate,
	}

	if err := s.repo.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListMyExpenses returns the driver's own expenses.
func (s *Service) ListMyExpenses(ctx context.Context, driverID uuid.UUID, limit, offset int) ([]*Expense, int64, error) {
	return s.repo.ListExpenses(ctx, &driverID, limit, offset)
}

// ListExpenses returns all driver expenses (admin only).
func (s *Service) ListExpenses(ctx context.Context, limit, offset int) ([]*Expense, int64, error) {
	return s.repo.ListExpenses(ctx, nil, limit, offset)
}
