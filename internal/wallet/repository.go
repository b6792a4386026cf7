package wallet

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/database"
)

type PostgresRepository struct {
	db database.Conn
}

func NewRepository(db database.Conn) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Credit applies a wallet credit exactly once per reference. The existence
// check, ledger insert and balance update run in one transaction; the primary
// key on transactions.reference closes the race two concurrent requests with
// the same reference would otherwise open.
func (r *PostgresRepository) Credit(ctx context.Context, userID uuid.UUID, reference string, amount float64, source, description string) (*FundResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to start transaction", err)
	}
	defer tx.Rollback(ctx)

	result, err := CreditTx(ctx, tx, userID, reference, amount, source, description)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, common.NewInternalError("failed to commit wallet credit", err)
	}

	return result, nil
}

// CreditTx applies a credit inside the caller's transaction, so the ledger
// write commits or rolls back together with the caller's own state changes.
func CreditTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, reference string, amount float64, source, description string) (*FundResult, error) {
	existing, err := getTransaction(ctx, tx, reference)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// A reference credited to someone else is not a replay; returning the
		// stored row would leak another account's ledger entry
		if existing.UserID != userID {
			return nil, common.NewConflictError("this payment reference belongs to a different account")
		}
		var balance float64
		if err := tx.QueryRow(ctx, `SELECT wallet_balance FROM users WHERE id = $1`, existing.UserID).Scan(&balance); err != nil {
			return nil, common.NewInternalError("failed to read wallet balance", err)
		}
		return &FundResult{Transaction: existing, NewBalance: balance, AlreadyProcessed: true}, nil
	}

	txn := &Transaction{
		Reference:   reference,
		UserID:      userID,
		Amount:      amount,
		Type:        TypeCredit,
		Source:      source,
		Status:      StatusCompleted,
		Description: description,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO transactions (reference, user_id, amount, type, source, status, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		txn.Reference, txn.UserID, txn.Amount, txn.Type, txn.Source, txn.Status, txn.Description,
	).Scan(&txn.CreatedAt)
	if err != nil {
		// A concurrent request won the insert; surface its result instead
		if database.IsUniqueViolation(err) {
			return nil, common.NewConflictError("this payment reference is being processed")
		}
		return nil, common.NewInternalError("failed to record transaction", err)
	}

	var balance float64
	err = tx.QueryRow(ctx,
		`UPDATE users SET wallet_balance = wallet_balance + $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING wallet_balance`,
		userID, amount,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("user not found", err)
		}
		return nil, common.NewInternalError("failed to update wallet balance", err)
	}

	return &FundResult{Transaction: txn, NewBalance: balance}, nil
}

// Debit removes funds from a wallet, rejecting overdrafts.
func (r *PostgresRepository) Debit(ctx context.Context, userID uuid.UUID, reference string, amount float64, source, description string) (*FundResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to start transaction", err)
	}
	defer tx.Rollback(ctx)

	var balance float64
	err = tx.QueryRow(ctx, `SELECT wallet_balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("user not found", err)
		}
		return nil, common.NewInternalError("failed to read wallet balance", err)
	}

	if balance < amount {
		return nil, common.NewBadRequestError("insufficient wallet balance", nil)
	}

	txn := &Transaction{
		Reference:   reference,
		UserID:      userID,
		Amount:      amount,
		Type:        TypeDebit,
		Source:      source,
		Status:      StatusCompleted,
		Description: description,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO transactions (reference, user_id, amount, type, source, status, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		txn.Reference, txn.UserID, txn.Amount, txn.Type, txn.Source, txn.Status, txn.Description,
	).Scan(&txn.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, common.NewConflictError("this reference has already been processed")
		}
		return nil, common.NewInternalError("failed to record transaction", err)
	}

	err = tx.QueryRow(ctx,
		`UPDATE users SET wallet_balance = wallet_balance - $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING wallet_balance`,
		userID, amount,
	).Scan(&balance)
	if err != nil {
		return nil, common.NewInternalError("failed to update wallet balance", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, common.NewInternalError("failed to commit wallet debit", err)
	}

	return &FundResult{Transaction: txn, NewBalance: balance}, nil
}

func getTransaction(ctx context.Context, tx pgx.Tx, reference string) (*Transaction, error) {
	txn := &Transaction{}
	err := tx.QueryRow(ctx,
		`SELECT reference, user_id, amount, type, source, status, description, created_at
		 FROM transactions WHERE reference = $1`,
		reference,
	).Scan(&txn.Reference, &txn.UserID, &txn.Amount, &txn.Type, &txn.Source, &txn.Status, &txn.Description, &txn.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, common.NewInternalError("failed to check transaction", err)
	}

	return txn, nil
}

// GetBalance reads a user's current wallet balance.
func (r *PostgresRepository) GetBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	var balance float64
	err := r.db.QueryRow(ctx, `SELECT wallet_balance FROM users WHERE id = $1`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, common.NewNotFoundError("user not found", err)
		}
		return 0, common.NewInternalError("failed to read wallet balance", err)
	}
	return balance, nil
}

// ListTransactions returns a user's ledger entries, newest first.
func (r *PostgresRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, common.NewInternalError("failed to count transactions", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT reference, user_id, amount, type, source, status, description, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list transactions", err)
	}
	defer rows.Close()

	transactions := make([]*Transaction, 0)
	for rows.Next() {
		txn := &Transaction{}
		if err := rows.Scan(&txn.Reference, &txn.UserID, &txn.Amount, &txn.Type, &txn.Source, &txn.Status, &txn.Description, &txn.CreatedAt); err != nil {
			return nil, 0, common.NewInternalError("failed to scan transaction", err)
		}
		transactions = append(transactions, txn)
	}

	return transactions, total, nil
}
