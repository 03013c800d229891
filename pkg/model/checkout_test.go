package model

import "testing"

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from CheckoutState
		to   CheckoutState
		want bool
	}{
		{"idle to slot pending", CheckoutIdle, CheckoutSlotPending, true},
		{"slot pending to initiating", CheckoutSlotPending, CheckoutPaymentInitiating, true},
		{"initiating to processing", CheckoutPaymentInitiating, CheckoutPaymentProcessing, true},
		{"initiating to cancelled", CheckoutPaymentInitiating, CheckoutCancelled, true},
		{"initiating to failed", CheckoutPaymentInitiating, CheckoutFailed, true},
		{"processing to cancelled", CheckoutPaymentProcessing, CheckoutCancelled, true},
		{"processing to succeeded", CheckoutPaymentProcessing, CheckoutPaymentSucceeded, true},
		{"succeeded to booking", CheckoutPaymentSucceeded, CheckoutBookingCreating, true},
		{"booking to clearing", CheckoutBookingCreating, CheckoutCartClearing, true},
		{"clearing to completed", CheckoutCartClearing, CheckoutCompleted, true},
		{"idle cannot complete", CheckoutIdle, CheckoutCompleted, false},
		{"processing cannot skip to booking", CheckoutPaymentProcessing, CheckoutBookingCreating, false},
		{"completed is a dead end", CheckoutCompleted, CheckoutIdle, false},
		{"cancelled is a dead end", CheckoutCancelled, CheckoutPaymentProcessing, false},
		{"failed is a dead end", CheckoutFailed, CheckoutPaymentInitiating, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []CheckoutState{CheckoutCompleted, CheckoutCancelled, CheckoutFailed}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}

	inFlight := []CheckoutState{
		CheckoutIdle, CheckoutSlotPending, CheckoutPaymentInitiating,
		CheckoutPaymentProcessing, CheckoutPaymentSucceeded,
		CheckoutBookingCreating, CheckoutCartClearing,
	}
	for _, s := range inFlight {
		if s.IsTerminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}
