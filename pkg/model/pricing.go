package model

import "github.com/shopspring/decimal"

// FeeMode controls how the booking fee relates to the service total.
type FeeMode string

const (
	// FeeModeDeduct keeps the fee inside the service total: the customer
	// pays fee+tax now and the remainder at the venue.
	FeeModeDeduct FeeMode = "deduct"
	// FeeModeAdditive charges the fee on top: the customer pays fee+tax now
	// and the full service total at the venue.
	FeeModeAdditive FeeMode = "additive"
)

func (m FeeMode) Valid() bool {
	return m == FeeModeDeduct || m == FeeModeAdditive
}

// PricingBreakdown is the itemised outcome of a checkout price calculation.
// All amounts are rounded to 2 decimal places.
type PricingBreakdown struct {
	ServiceTotal decimal.Decimal `json:"service_total"`
	FeePercent   decimal.Decimal `json:"fee_percent"`
	BookingFee   decimal.Decimal `json:"booking_fee"`
	TaxPercent   decimal.Decimal `json:"tax_percent"`
	Tax          decimal.Decimal `json:"tax"`
	PayNow       decimal.Decimal `json:"pay_now"`
	PayAtVenue   decimal.Decimal `json:"pay_at_venue"`
	FeeMode      FeeMode         `json:"fee_mode"`
}
