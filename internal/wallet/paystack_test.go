package wallet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/transitpadi/transit-backend/pkg/common"
)

func TestPaystackClient_VerifyTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/PSK_ref_123", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {
				"status": "success",
				"reference": "PSK_ref_123",
				"amount": 500000,
				"currency": "NGN"
			}
		}`))
	}))
	defer server.Close()

	client := NewPaystackClient(server.URL, "sk_test_secret")
	payment, err := client.VerifyTransaction(context.Background(), "PSK_ref_123")

	assert.NoError(t, err)
	assert.Equal(t, "success", payment.Status)
	assert.Equal(t, "PSK_ref_123", payment.Reference)
	// 500000 kobo is 5000 naira
	assert.Equal(t, float64(5000), payment.Amount)
	assert.Equal(t, "NGN", payment.Currency)
}

func TestPaystackClient_UnknownReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status": false, "message": "Transaction reference not found"}`))
	}))
	defer server.Close()

	client := NewPaystackClient(server.URL, "sk_test_secret")
	_, err := client.VerifyTransaction(context.Background(), "bogus")

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusPaymentRequired, appErr.Code)
}

func TestPaystackClient_OverallFailureIsVerificationFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": false, "message": "Verification failed"}`))
	}))
	defer server.Close()

	client := NewPaystackClient(server.URL, "sk_test_secret")
	_, err := client.VerifyTransaction(context.Background(), "PSK_ref_9")

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusPaymentRequired, appErr.Code)
}

func TestPaystackClient_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewPaystackClient(server.URL, "sk_test_secret")
	_, err := client.VerifyTransaction(context.Background(), "PSK_ref")

	assert.Error(t, err)
	appErr, ok := err.(*common.AppError)
	assert.True(t, ok)
	assert.Equal(t, common.ErrCodeDependencyFailure, appErr.ErrorCode)
}

func TestIsPaystackRetryable(t *testing.T) {
	assert.False(t, isPaystackRetryable(nil))
	assert.False(t, isPaystackRetryable(common.NewPaymentRequiredError("payment was not successful")))
	assert.False(t, isPaystackRetryable(common.NewBadRequestError("bad reference", nil)))
	assert.True(t, isPaystackRetryable(common.NewDependencyError("gateway down", nil)))
}
