package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingLineItem is one service line carried from the cart into a booking.
type BookingLineItem struct {
	ServiceID       string          `json:"service_id"`
	ServiceName     string          `json:"service_name"`
	PlanName        string          `json:"plan_name,omitempty"`
	DurationMinutes int             `json:"duration_minutes"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity"`
}

// BookingRecord is what the booking service persists once payment clears.
type BookingRecord struct {
	ID          string            `json:"id"`
	CustomerID  string            `json:"customer_id"`
	VendorID    string            `json:"vendor_id"`
	VendorName  string            `json:"vendor_name"`
	Items       []BookingLineItem `json:"items"`
	Date        string            `json:"date"`
	Times       []string          `json:"times"`
	AmountPaid  decimal.Decimal   `json:"amount_paid"`
	AmountDue   decimal.Decimal   `json:"amount_due"`
	PaymentRef  string            `json:"payment_ref"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}
