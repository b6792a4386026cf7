package drivers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/transitpadi/transit-backend/internal/wallet"
)

func fundRequestRow(requestID, driverID uuid.UUID, reviewerID *uuid.UUID, now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "driver_id", "amount", "reason", "status", "reviewed_by", "review_note", "created_at", "updated_at"}).
		AddRow(requestID, driverID, float64(20000), "fuel float", FundRequestApproved, reviewerID, "ok", now, now)
}

func TestApproveFundRequest_CreditsDriverInSameTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock)
	requestID := uuid.New()
	driverID := uuid.New()
	reviewerID := uuid.New()
	reference := "fundreq-" + requestID.String()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE fund_requests`).
		WithArgs(requestID, FundRequestApproved, reviewerID, "ok").
		WillReturnRows(fundRequestRow(requestID, driverID, &reviewerID, time.Now()))
	mock.ExpectQuery(`SELECT reference, user_id`).
		WithArgs(reference).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO transactions`).
		WithArgs(reference, driverID, float64(20000), wallet.TypeCredit, wallet.SourceFundRequest,
			wallet.StatusCompleted, "approved fund request: fuel float").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectQuery(`UPDATE users SET wallet_balance`).
		WithArgs(driverID, float64(20000)).
		WillReturnRows(pgxmock.NewRows([]string{"wallet_balance"}).AddRow(float64(20000)))
	mock.ExpectCommit()

	req, result, err := repo.ApproveFundRequest(context.Background(), requestID, reviewerID, "ok")

	assert.NoError(t, err)
	assert.Equal(t, FundRequestApproved, req.Status)
	assert.Equal(t, float64(20000), result.NewBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveFundRequest_FailedCreditRollsBackApproval(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock)
	requestID := uuid.New()
	driverID := uuid.New()
	reviewerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE fund_requests`).
		WithArgs(requestID, FundRequestApproved, reviewerID, "ok").
		WillReturnRows(fundRequestRow(requestID, driverID, &reviewerID, time.Now()))
	mock.ExpectQuery(`SELECT reference, user_id`).
		WithArgs("fundreq-" + requestID.String()).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO transactions`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, _, err = repo.ApproveFundRequest(context.Background(), requestID, reviewerID, "ok")

	// The rollback takes the status flip with it, so the request stays pending
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
