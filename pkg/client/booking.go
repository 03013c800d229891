package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"glowbook/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

// CreateBookingRequest is the payload the booking service accepts.
type CreateBookingRequest struct {
	CustomerID string                  `json:"customer_id"`
	VendorID   string                  `json:"vendor_id"`
	VendorName string                  `json:"vendor_name"`
	Items      []model.BookingLineItem `json:"items"`
	Date       string                  `json:"date"`
	Times      []string                `json:"times"`
	AmountPaid string                  `json:"amount_paid"`
	AmountDue  string                  `json:"amount_due"`
	PaymentRef string                  `json:"payment_ref"`
}

// Create submits a booking. The payment reference doubles as the idempotency
// key so retries after a timeout cannot double-book.
func (c *BookingClient) Create(ctx context.Context, req CreateBookingRequest) (*model.BookingRecord, error) {
	headers := map[string]string{
		"Idempotency-Key": req.PaymentRef,
	}

	resp, err := c.httpClient.POSTWithHeaders(ctx, "/api/v1/bookings", req, headers)
	if err != nil {
		return nil, fmt.Errorf("booking service request failed: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("booking service returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	return c.DecodeBooking(resp)
}

// GetByPaymentRef looks a booking up by the payment reference it was created
// under. A nil record with nil error means no booking carries that reference
// yet.
func (c *BookingClient) GetByPaymentRef(ctx context.Context, paymentRef string) (*model.BookingRecord, error) {
	path := "/api/v1/bookings/payment-ref/" + url.PathEscape(paymentRef)

	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("booking service request failed: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("booking service returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	return c.DecodeBooking(resp)
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.BookingRecord, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	payload := json.RawMessage(resp.Body)
	if err := json.Unmarshal(resp.Body, &wrapper); err == nil && len(wrapper.Data) > 0 {
		payload = wrapper.Data
	}

	var booking model.BookingRecord
	if err := json.Unmarshal(payload, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json:\n%+v\n%s", resp.ToString(), err)
	}
	return &booking, nil
}
