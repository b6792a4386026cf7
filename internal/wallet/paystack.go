package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/httpclient"
)

// PaystackClient calls the Paystack REST API. Amounts on the wire are in
// kobo; VerifyTransaction converts them to naira.
type PaystackClient struct {
	http      *httpclient.Client
	secretKey string
}

// NewPaystackClient creates a new Paystack client
func NewPaystackClient(baseURL, secretKey string) *PaystackClient {
	return &PaystackClient{
		http:      httpclient.NewClient(baseURL, 15*time.Second),
		secretKey: secretKey,
	}
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string     `json:"status"`
		Reference string     `json:"reference"`
		Amount    int64      `json:"amount"`
		Currency  string     `json:"currency"`
		PaidAt    *time.Time `json:"paid_at"`
	} `json:"data"`
}

// VerifyTransaction confirms a payment reference with Paystack.
func (p *PaystackClient) VerifyTransaction(ctx context.Context, reference string) (*VerifiedPayment, error) {
	path := "/transaction/verify/" + url.PathEscape(reference)
	headers := map[string]string{
		"Authorization": "Bearer " + p.secretKey,
	}

	body, err := p.http.Get(ctx, path, headers)
	if err != nil {
		if httpErr, ok := err.(*httpclient.HTTPError); ok && httpErr.StatusCode == 404 {
			return nil, common.NewPaymentRequiredError("payment reference not found")
		}
		return nil, common.NewDependencyError("payment gateway request failed", err)
	}

	var resp paystackVerifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, common.NewDependencyError("invalid payment gateway response", err)
	}

	// An overall false status is a verification failure, not a gateway outage
	if !resp.Status {
		return nil, common.NewPaymentRequiredError(fmt.Sprintf("payment verification failed: %s", resp.Message))
	}

	return &VerifiedPayment{
		Reference: resp.Data.Reference,
		Status:    resp.Data.Status,
		Amount:    float64(resp.Data.Amount) / 100,
		Currency:  resp.Data.Currency,
		PaidAt:    resp.Data.PaidAt,
	}, nil
}
