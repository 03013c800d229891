package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentOrder is a gateway order awaiting customer authorization.
// ProviderKey is the publishable key the payment widget needs.
type PaymentOrder struct {
	OrderID     string          `json:"order_id"`
	ProviderKey string          `json:"provider_key"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

// PaymentResult is what the customer's gateway widget reports back after the
// authorization attempt.
type PaymentResult struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
	Cancelled bool   `json:"cancelled"`
}

// PaymentClient creates orders on the payment gateway and verifies the
// signed results it hands back. In demo mode no gateway is called and
// signatures are not checked.
type PaymentClient struct {
	httpClient *HttpClient
	secret     string
	keyID      string
	demoMode   bool
}

func NewPaymentClient(baseURL, secret, keyID string, demoMode bool) *PaymentClient {
	return &PaymentClient{
		httpClient: NewHttpClient(baseURL),
		secret:     secret,
		keyID:      keyID,
		demoMode:   demoMode,
	}
}

func (c *PaymentClient) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*PaymentOrder, error) {
	if c.demoMode {
		return &PaymentOrder{
			OrderID:     "demo_order_" + uuid.NewString(),
			ProviderKey: "demo_key",
			Amount:      amount,
			Currency:    currency,
		}, nil
	}

	body := map[string]any{
		// Gateways take the smallest currency unit.
		"amount":   amount.Mul(decimal.NewFromInt(100)).IntPart(),
		"currency": currency,
		"receipt":  receipt,
	}

	resp, err := c.httpClient.POST(ctx, "/api/v1/orders", body)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var doc struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := resp.DecodeJSON(&doc); err != nil {
		return nil, fmt.Errorf("could not decode gateway order:\n%+v\n%s", resp.ToString(), err)
	}

	return &PaymentOrder{
		OrderID:     doc.ID,
		ProviderKey: c.keyID,
		Amount:      decimal.NewFromInt(doc.Amount).Div(decimal.NewFromInt(100)),
		Currency:    doc.Currency,
	}, nil
}

// Verify checks that a payment result genuinely came from the gateway by
// recomputing the HMAC-SHA256 signature over "orderID|paymentID".
func (c *PaymentClient) Verify(result PaymentResult) error {
	if c.demoMode {
		return nil
	}

	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(result.OrderID + "|" + result.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(result.Signature)) {
		return fmt.Errorf("payment signature mismatch for order %s", result.OrderID)
	}
	return nil
}
