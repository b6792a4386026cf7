package drivers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/transitpadi/transit-backend/internal/wallet"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/database"
)

type PostgresRepository struct {
	db database.Conn
}

func NewRepository(db database.Conn) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateFundRequest inserts a pending fund request
func (r *PostgresRepository) CreateFundRequest(ctx context.Context, req *FundRequest) error {
	query := `
		INSERT INTO fund_requests (id, driver_id, amount, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query, req.ID, req.DriverID, req.Amount, req.Reason, req.Status).
		Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return common.NewInternalError("failed to create fund request", err)
	}

	return nil
}

// GetFundRequestByID retrieves a fund request
func (r *PostgresRepository) GetFundRequestByID(ctx context.Context, id uuid.UUID) (*FundRequest, error) {
	req := &FundRequest{}
	query := `
		SELECT id, driver_id, amount, reason, status, reviewed_by, review_note,
			created_at, updated_at
		FROM fund_requests
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.DriverID,
		&req.Amount,
		&req.Reason,
		&req.Status,
		&req.ReviewedBy,
		&req.ReviewNote,
		&req.CreatedAt,
		&req.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("fund request not found", err)
		}
		return nil, common.NewInternalError("failed to get fund request", err)
	}

	return req, nil
}

// ListFundRequests lists fund requests, optionally filtered by driver or status
func (r *PostgresRepository) ListFundRequests(ctx context.Context, driverID *uuid.UUID, status string, limit, offset int) ([]*FundRequest, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	idx := 1

	if driverID != nil {
		where += fmt.Sprintf(" AND driver_id = $%d", idx)
		args = append(args, *driverID)
		idx++
	}
	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, status)
		idx++
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM fund_requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, common.NewInternalError("failed to count fund requests", err)
	}

	query := `
		SELECT id, driver_id, amount, reason, status, reviewed_by, review_note,
			created_at, updated_at
		FROM fund_requests` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list fund requests", err)
	}
	defer rows.Close()

	requests := make([]*FundRequest, 0)
	for rows.Next() {
		req := &FundRequest{}
		err := rows.Scan(
			&req.ID,
			&req.DriverID,
			&req.Amount,
			&req.Reason,
			&req.Status,
			&req.ReviewedBy,
			&req.ReviewNote,
			&req.CreatedAt,
			&req.UpdatedAt,
		)
		if err != nil {
			return nil, 0, common.NewInternalError("failed to scan fund request", err)
		}
		requests = append(requests, req)
	}

	return requests, total, nil
}

const reviewFundRequestQuery = `
	UPDATE fund_requests
	SET status = $2, reviewed_by = $3, review_note = $4, updated_at = NOW()
	WHERE id = $1 AND status = 'pending'
	RETURNING id, driver_id, amount, reason, status, reviewed_by, review_note,
		created_at, updated_at`

func scanReviewedFundRequest(row pgx.Row) (*FundRequest, error) {
	req := &FundRequest{}
	err := row.Scan(
		&req.ID,
		&req.DriverID,
		&req.Amount,
		&req.Reason,
		&req.Status,
		&req.ReviewedBy,
		&req.ReviewNote,
		&req.CreatedAt,
		&req.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewConflictError("fund request not found or already reviewed")
		}
		return nil, common.NewInternalError("failed to review fund request", err)
	}

	return req, nil
}

// ReviewFundRequest transitions a pending request to approved or rejected.
// The WHERE clause on status makes double reviews impossible.
func (r *PostgresRepository) ReviewFundRequest(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID, note string) (*FundRequest, error) {
	return scanReviewedFundRequest(r.db.QueryRow(ctx, reviewFundRequestQuery, id, status, reviewerID, note))
}

// ApproveFundRequest flips a pending request to approved and credits the
// driver's wallet in the same transaction. A failed credit rolls the approval
// back, so the request stays pending and reviewable; the request ID doubles
// as the ledger reference, so a retried approval can never pay out twice.
func (r *PostgresRepository) ApproveFundRequest(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID, note string) (*FundRequest, *wallet.FundResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, common.NewInternalError("failed to start transaction", err)
	}
	defer tx.Rollback(ctx)

	req, err := scanReviewedFundRequest(tx.QueryRow(ctx, reviewFundRequestQuery, id, FundRequestApproved, reviewerID, note))
	if err != nil {
		return nil, nil, err
	}

	result, err := wallet.CreditTx(ctx, tx, req.DriverID, "fundreq-"+req.ID.String(), req.Amount,
		wallet.SourceFundRequest, "approved fund request: "+req.Reason)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, common.NewInternalError("failed to commit fund request approval", err)
	}

	return req, result, nil
}

// CreateExpense records a driver expense
func (r *PostgresRepository) CreateExpense(ctx context.Context, expense *Expense) error {
	query := `
		INSERT INTO expenses (id, driver_id, amount, category, description, expense_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		expense.ID,
		expense.DriverID,
		expense.Amount,
		expense.Category,
		expense.Description,
		expense.ExpenseDate,
	).Scan(&expense.CreatedAt)

	if err != nil {
		return common.NewInternalError("failed to create expense", err)
	}

	return nil
}

// ListExpenses lists expenses, optionally filtered by driver
func (r *PostgresRepository) ListExpenses(ctx context.Context, driverID *uuid.UUID, limit, offset int) ([]*Expense, int64, error) {
	where := ""
	args := []interface{}{}
	idx := 1

	if driverID != nil {
		where = fmt.Sprintf(" WHERE driver_id = $%d", idx)
		args = append(args, *driverID)
		idx++
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM expenses`+where, args...).Scan(&total); err != nil {
		return nil, 0, common.NewInternalError("failed to count expenses", err)
	}

	query := `
		SELECT id, driver_id, amount, category, description, expense_date, created_at
		FROM expenses` + where +
		fmt.Sprintf(" ORDER BY expense_date DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list expenses", err)
	}
	defer rows.Close()

	expenses := make([]*Expense, 0)
	for rows.Next() {
		expense := &Expense{}
		err := rows.Scan(
			&expense.ID,
			&expense.DriverID,
			&expense.Amount,
			&expense.Category,
			&expense.Description,
			&expense.ExpenseDate,
			&expense.CreatedAt,
		)
		if err != nil {
			return nil, 0, common.NewInternalError("failed to scan expense", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, total, nil
}
