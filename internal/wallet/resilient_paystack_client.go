package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/httpclient"
	"github.com/transitpadi/transit-backend/pkg/logger"
	"github.com/transitpadi/transit-backend/pkg/resilience"
	"go.uber.org/zap"
)

// PaymentVerifier confirms payment references with the gateway.
type PaymentVerifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*VerifiedPayment, error)
}

// ResilientPaystackClient wraps PaystackClient with circuit breaker and retry logic
type ResilientPaystackClient struct {
	client  PaymentVerifier
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
}

// NewResilientPaystackClient creates a new resilient Paystack client
func NewResilientPaystackClient(baseURL, secretKey string, breaker *resilience.CircuitBreaker) *ResilientPaystackClient {
	return newResilientClient(NewPaystackClient(baseURL, secretKey), breaker, "paystack-api")
}

// NewResilientPaystackClientWithClient wraps an existing verifier (for testing)
func NewResilientPaystackClientWithClient(client PaymentVerifier, breaker *resilience.CircuitBreaker) *ResilientPaystackClient {
	return newResilientClient(client, breaker, "paystack-api-test")
}

func newResilientClient(client PaymentVerifier, breaker *resilience.CircuitBreaker, name string) *ResilientPaystackClient {
	if breaker == nil {
		breakerSettings := resilience.Settings{
			Name:             name,
			Interval:         60 * time.Second,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
			SuccessThreshold: 2,
		}

		breaker = resilience.NewCircuitBreaker(breakerSettings, func(ctx context.Context, err error) (interface{}, error) {
			logger.ErrorContext(ctx, "Paystack circuit breaker open, verification failed",
				zap.Error(err),
			)
			return nil, common.NewServiceUnavailableError("payment verification is temporarily unavailable, please try again")
		})
	}

	retryConfig := resilience.DefaultRetryConfig()
	retryConfig.MaxAttempts = 3
	retryConfig.InitialBackoff = 1 * time.Second
	retryConfig.MaxBackoff = 10 * time.Second
	retryConfig.RetryableChecker = isPaystackRetryable

	return &ResilientPaystackClient{
		client:  client,
		breaker: breaker,
		retry:   retryConfig,
	}
}

// VerifyTransaction confirms a payment reference with retries and breaker protection
func (r *ResilientPaystackClient) VerifyTransaction(ctx context.Context, reference string) (*VerifiedPayment, error) {
	result, err := resilience.RetryWithBreaker(ctx, r.retry, r.breaker, func(ctx context.Context) (interface{}, error) {
		return r.client.VerifyTransaction(ctx, reference)
	})

	if err != nil {
		logger.ErrorContext(ctx, "Paystack verification failed after retries",
			zap.Error(err),
			zap.String("reference", reference),
		)
		return nil, err
	}

	return result.(*VerifiedPayment), nil
}

// isPaystackRetryable reports whether a gateway error is worth retrying.
// Business rejections (unknown or failed payments) never are.
func isPaystackRetryable(err error) bool {
	if err == nil {
		return false
	}

	var appErr *common.AppError
	if errors.As(err, &appErr) && appErr.Code < 500 {
		return false
	}

	if httpErr, ok := err.(*httpclient.HTTPError); ok {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == 429
	}

	return true
}
