package pricing

import (
	"context"

	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/logger"
	"glowbook/pkg/model"

	"github.com/shopspring/decimal"
)

// FeeSource supplies the platform booking fee percentage. A nil percent
// means the platform has no fee configured.
type FeeSource interface {
	FeePercentage(ctx context.Context) (*decimal.Decimal, error)
}

// Calculator turns a cart's service total into the customer-facing payment
// split. The fee is a platform setting fetched per calculation; tax applies
// to the fee alone, not the services.
type Calculator struct {
	fees       FeeSource
	taxPercent decimal.Decimal
	mode       model.FeeMode
	log        *logger.Logger
}

func NewCalculator(fees FeeSource, taxRatePercent int, mode model.FeeMode, log *logger.Logger) *Calculator {
	return &Calculator{
		fees:       fees,
		taxPercent: decimal.NewFromInt(int64(taxRatePercent)),
		mode:       mode,
		log:        log,
	}
}

var oneHundred = decimal.NewFromInt(100)

// Calculate prices a checkout. It fails closed when the fee percentage is
// unavailable: charging a guessed fee is worse than blocking the checkout.
func (c *Calculator) Calculate(ctx context.Context, serviceTotal decimal.Decimal) (model.PricingBreakdown, error) {
	if serviceTotal.IsNegative() {
		return model.PricingBreakdown{}, apperrors.InvalidInput("service total cannot be negative")
	}

	feePercent, err := c.fees.FeePercentage(ctx)
	if err != nil {
		return model.PricingBreakdown{}, apperrors.Configuration("booking fee percentage unavailable", err)
	}
	if feePercent == nil {
		c.log.Error("Platform has no booking fee configured, refusing to price checkout")
		return model.PricingBreakdown{}, apperrors.Configuration("booking fee percentage is not configured", nil)
	}
	if feePercent.IsNegative() || feePercent.GreaterThan(oneHundred) {
		return model.PricingBreakdown{}, apperrors.Configuration("booking fee percentage out of range", nil)
	}

	// Each derived amount rounds half-up to the nearest whole currency
	// unit, fee first, then tax from the rounded fee, so the amounts shown
	// always sum to what is charged.
	fee := serviceTotal.Mul(*feePercent).Div(oneHundred).Round(0)
	tax := fee.Mul(c.taxPercent).Div(oneHundred).Round(0)
	payNow := fee.Add(tax)

	var payAtVenue decimal.Decimal
	switch c.mode {
	case model.FeeModeAdditive:
		payAtVenue = serviceTotal
	default:
		payAtVenue = serviceTotal.Sub(fee)
	}

	return model.PricingBreakdown{
		ServiceTotal: serviceTotal.Round(2),
		FeePercent:   *feePercent,
		BookingFee:   fee,
		TaxPercent:   c.taxPercent,
		Tax:          tax,
		PayNow:       payNow,
		PayAtVenue:   payAtVenue,
		FeeMode:      c.mode,
	}, nil
}
