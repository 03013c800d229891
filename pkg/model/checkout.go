package model

import "time"

// CheckoutState tracks where a checkout session is in the payment-to-booking
// pipeline.
type CheckoutState string

const (
	CheckoutIdle              CheckoutState = "idle"
	CheckoutSlotPending       CheckoutState = "slot_pending"
	CheckoutPaymentInitiating CheckoutState = "payment_initiating"
	CheckoutPaymentProcessing CheckoutState = "payment_processing"
	CheckoutPaymentSucceeded  CheckoutState = "payment_succeeded"
	CheckoutBookingCreating   CheckoutState = "booking_creating"
	CheckoutCartClearing      CheckoutState = "cart_clearing"
	CheckoutCompleted         CheckoutState = "completed"
	CheckoutCancelled         CheckoutState = "cancelled"
	CheckoutFailed            CheckoutState = "failed"
)

// CanTransitionTo reports whether the move from s to next is a legal step of
// the checkout pipeline.
func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	allowed, ok := checkoutTransitions[s]
	if !ok {
		return false
	}
	for _, a := range allowed {
		if a == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the session can make no further progress.
func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutCompleted || s == CheckoutCancelled || s == CheckoutFailed
}

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutIdle:              {CheckoutSlotPending, CheckoutPaymentInitiating},
	CheckoutSlotPending:       {CheckoutPaymentInitiating, CheckoutCancelled},
	CheckoutPaymentInitiating: {CheckoutPaymentProcessing, CheckoutCancelled, CheckoutFailed},
	CheckoutPaymentProcessing: {CheckoutPaymentSucceeded, CheckoutCancelled, CheckoutFailed},
	CheckoutPaymentSucceeded:  {CheckoutBookingCreating},
	CheckoutBookingCreating:   {CheckoutCartClearing, CheckoutFailed},
	CheckoutCartClearing:      {CheckoutCompleted},
}

// CheckoutSession is the aggregate the orchestrator drives. It snapshots the
// cart and pricing at begin time so later cart edits cannot change what is
// charged.
type CheckoutSession struct {
	ID         string           `json:"id"`
	CustomerID string           `json:"customer_id"`
	State      CheckoutState    `json:"state"`
	Cart       *Cart            `json:"cart"`
	Slot       SlotSelection    `json:"slot"`
	Pricing    PricingBreakdown `json:"pricing"`

	// Payment gateway references, set as the pipeline advances.
	PaymentOrderID string `json:"payment_order_id,omitempty"`
	PaymentRef     string `json:"payment_ref,omitempty"`

	BookingID string `json:"booking_id,omitempty"`

	// FailureCode and FailureMessage describe why a session ended in the
	// failed state.
	FailureCode    string `json:"failure_code,omitempty"`
	FailureMessage string `json:"failure_message,omitempty"`

	// CartStale is set when booking succeeded but the cart clear did not.
	CartStale bool `json:"cart_stale,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
