package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"glowbook/internal/checkout/repository"
	"glowbook/pkg/client"
	"glowbook/pkg/clock"
	"glowbook/pkg/config"
	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/logger"
	"glowbook/pkg/model"

	"github.com/shopspring/decimal"
)

type mockCartSource struct {
	getCartFunc   func(ctx context.Context, customerID string) (*model.Cart, error)
	clearFunc     func(ctx context.Context, customerID string) error
	flagStaleFunc func(ctx context.Context, customerID string) error
	clearCalls    int
}

func (m *mockCartSource) GetCart(ctx context.Context, customerID string) (*model.Cart, error) {
	if m.getCartFunc != nil {
		return m.getCartFunc(ctx, customerID)
	}
	return &model.Cart{CustomerID: customerID, Items: []model.CartItem{}}, nil
}

func (m *mockCartSource) Clear(ctx context.Context, customerID string) error {
	m.clearCalls++
	if m.clearFunc != nil {
		return m.clearFunc(ctx, customerID)
	}
	return nil
}

func (m *mockCartSource) FlagStale(ctx context.Context, customerID string) error {
	if m.flagStaleFunc != nil {
		return m.flagStaleFunc(ctx, customerID)
	}
	return nil
}

type mockPricer struct {
	calculateFunc func(ctx context.Context, total decimal.Decimal) (model.PricingBreakdown, error)
}

func (m *mockPricer) Calculate(ctx context.Context, total decimal.Decimal) (model.PricingBreakdown, error) {
	if m.calculateFunc != nil {
		return m.calculateFunc(ctx, total)
	}
	return model.PricingBreakdown{
		ServiceTotal: total,
		PayNow:       decimal.NewFromInt(118),
		PayAtVenue:   decimal.NewFromInt(900),
	}, nil
}

type mockSlotValidator struct {
	validateFunc func(ctx context.Context, sel model.SlotSelection) error
}

func (m *mockSlotValidator) ValidateSelection(ctx context.Context, sel model.SlotSelection) error {
	if m.validateFunc != nil {
		return m.validateFunc(ctx, sel)
	}
	return nil
}

type mockGateway struct {
	createOrderFunc  func(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*client.PaymentOrder, error)
	verifyFunc       func(result client.PaymentResult) error
	createOrderCalls int
}

func (m *mockGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*client.PaymentOrder, error) {
	m.createOrderCalls++
	if m.createOrderFunc != nil {
		return m.createOrderFunc(ctx, amount, currency, receipt)
	}
	return &client.PaymentOrder{OrderID: "order-1", ProviderKey: "key", Amount: amount, Currency: currency}, nil
}

func (m *mockGateway) Verify(result client.PaymentResult) error {
	if m.verifyFunc != nil {
		return m.verifyFunc(result)
	}
	return nil
}

type mockBookings struct {
	createFunc        func(ctx context.Context, req client.CreateBookingRequest) (*model.BookingRecord, error)
	getByPaymentRef   func(ctx context.Context, paymentRef string) (*model.BookingRecord, error)
	createCalls       int
	paymentRefs       []string
	paymentRefLookups int
}

func (m *mockBookings) Create(ctx context.Context, req client.CreateBookingRequest) (*model.BookingRecord, error) {
	m.createCalls++
	m.paymentRefs = append(m.paymentRefs, req.PaymentRef)
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &model.BookingRecord{ID: "booking-1", PaymentRef: req.PaymentRef}, nil
}

func (m *mockBookings) GetByPaymentRef(ctx context.Context, paymentRef string) (*model.BookingRecord, error) {
	m.paymentRefLookups++
	if m.getByPaymentRef != nil {
		return m.getByPaymentRef(ctx, paymentRef)
	}
	return nil, nil
}

type mockEvents struct {
	completed   int
	clearFailed int
}

func (m *mockEvents) CheckoutCompleted(ctx context.Context, session *model.CheckoutSession) {
	m.completed++
}

func (m *mockEvents) CartClearFailed(ctx context.Context, session *model.CheckoutSession) {
	m.clearFailed++
}

type fixture struct {
	svc      CheckoutService
	sessions repository.SessionStore
	carts    *mockCartSource
	gateway  *mockGateway
	bookings *mockBookings
	events   *mockEvents
}

func filledCart(customerID string) *model.Cart {
	return &model.Cart{
		CustomerID: customerID,
		Items: []model.CartItem{
			{
				ID:              "item-1",
				VendorID:        "vendor-1",
				VendorName:      "Glow Studio",
				ServiceID:       "svc-facial",
				ServiceName:     "Classic Facial",
				DurationMinutes: 45,
				UnitPrice:       decimal.NewFromInt(1000),
				Quantity:        1,
			},
		},
	}
}

func newFixture(t *testing.T, mutate func(f *fixture) *fixture) *fixture {
	t.Helper()

	f := &fixture{
		sessions: repository.NewMemorySessionStore(time.Hour),
		carts: &mockCartSource{
			getCartFunc: func(ctx context.Context, customerID string) (*model.Cart, error) {
				return filledCart(customerID), nil
			},
		},
		gateway:  &mockGateway{},
		bookings: &mockBookings{},
		events:   &mockEvents{},
	}
	t.Cleanup(f.sessions.Stop)

	if mutate != nil {
		f = mutate(f)
	}

	cfg := &config.Config{
		Log:                  logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}),
		PaymentCurrency:      "INR",
		BookingRetryAttempts: 3,
		BookingRetryBackoff:  time.Millisecond,
	}

	f.svc = NewCheckoutService(
		f.sessions,
		f.carts,
		&mockPricer{},
		&mockSlotValidator{},
		f.gateway,
		f.bookings,
		f.events,
		clock.NewSystem(),
		cfg,
	)
	return f
}

func validSelection() model.SlotSelection {
	return model.SlotSelection{Date: "2026-09-01", Times: []string{"10:00"}}
}

func beginSession(t *testing.T, f *fixture) *model.CheckoutSession {
	t.Helper()
	session, order, err := f.svc.Begin(context.Background(), "cust-1", validSelection())
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if order == nil || order.OrderID == "" {
		t.Fatal("expected a gateway order")
	}
	return session
}

func TestBegin_HappyPath(t *testing.T) {
	f := newFixture(t, nil)

	session := beginSession(t, f)

	if session.State != model.CheckoutPaymentProcessing {
		t.Errorf("expected state %s, got %s", model.CheckoutPaymentProcessing, session.State)
	}
	if session.PaymentOrderID == "" {
		t.Error("expected payment order id recorded")
	}
	if session.Cart.ItemCount() != 1 {
		t.Error("expected cart snapshot on session")
	}
}

func TestBegin_Unauthenticated(t *testing.T) {
	f := newFixture(t, nil)

	_, _, err := f.svc.Begin(context.Background(), "", validSelection())
	if apperrors.CodeOf(err) != apperrors.CodeUnauthorized {
		t.Errorf("expected code %s, got %v", apperrors.CodeUnauthorized, err)
	}
	if f.gateway.createOrderCalls != 0 {
		t.Error("gateway must not be called for unauthenticated checkout")
	}
}

func TestBegin_EmptyCart(t *testing.T) {
	f := newFixture(t, func(f *fixture) *fixture {
		f.carts.getCartFunc = nil
		return f
	})

	_, _, err := f.svc.Begin(context.Background(), "cust-1", validSelection())
	if apperrors.CodeOf(err) != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %v", apperrors.CodeValidation, err)
	}
}

func TestBegin_MissingFeeFailsBeforeGateway(t *testing.T) {
	f := newFixture(t, nil)

	cfg := &config.Config{
		Log:                  logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}),
		PaymentCurrency:      "INR",
		BookingRetryAttempts: 3,
		BookingRetryBackoff:  time.Millisecond,
	}
	f.svc = NewCheckoutService(
		f.sessions,
		f.carts,
		&mockPricer{
			calculateFunc: func(ctx context.Context, total decimal.Decimal) (model.PricingBreakdown, error) {
				return model.PricingBreakdown{}, apperrors.Configuration("booking fee percentage is not configured", nil)
			},
		},
		&mockSlotValidator{},
		f.gateway,
		f.bookings,
		f.events,
		clock.NewSystem(),
		cfg,
	)

	_, _, err := f.svc.Begin(context.Background(), "cust-1", validSelection())
	if apperrors.CodeOf(err) != apperrors.CodeConfiguration {
		t.Fatalf("expected code %s, got %v", apperrors.CodeConfiguration, err)
	}
	if f.gateway.createOrderCalls != 0 {
		t.Error("gateway must not be called when pricing fails")
	}
}

func TestCompletePayment_HappyPath(t *testing.T) {
	f := newFixture(t, nil)
	session := beginSession(t, f)

	got, err := f.svc.CompletePayment(context.Background(), session.ID, client.PaymentResult{
		OrderID:   session.PaymentOrderID,
		PaymentID: "pay-1",
		Signature: "sig",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.State != model.CheckoutCompleted {
		t.Errorf("expected state %s, got %s", model.CheckoutCompleted, got.State)
	}
	if got.BookingID != "booking-1" {
		t.Errorf("expected booking id recorded, got %q", got.BookingID)
	}
	if f.carts.clearCalls != 1 {
		t.Errorf("expected one cart clear, got %d", f.carts.clearCalls)
	}
	if f.events.completed != 1 {
		t.Errorf("expected one completed event, got %d", f.events.completed)
	}
}

func TestCompletePayment_VerificationFailure(t *testing.T) {
	f := newFixture(t, func(f *fixture) *fixture {
		f.gateway.verifyFunc = func(result client.PaymentResult) error {
			return errors.New("signature mismatch")
		}
		return f
	})
	session := beginSession(t, f)

	got, err := f.svc.CompletePayment(context.Background(), session.ID, client.PaymentResult{
		OrderID:   session.PaymentOrderID,
		PaymentID: "pay-1",
		Signature: "forged",
	})
	if apperrors.CodeOf(err) != apperrors.CodePaymentVerification {
		t.Fatalf("expected code %s, got %v", apperrors.CodePaymentVerification, err)
	}

	if got.State != model.CheckoutFailed {
		t.Errorf("expected state %s, got %s", model.CheckoutFailed, got.State)
	}
	if f.bookings.createCalls != 0 {
		t.Error("no booking may be created for an unverified payment")
	}
	if f.carts.clearCalls != 0 {
		t.Error("cart must stay untouched on verification failure")
	}
}

func TestCompletePayment_ForeignOrderRejected(t *testing.T) {
	f := newFixture(t, nil)
	session := beginSession(t, f)

	_, err := f.svc.CompletePayment(context.Background(), session.ID, client.PaymentResult{
		OrderID:   "someone-elses-order",
		PaymentID: "pay-1",
	})
	if apperrors.CodeOf(err) != apperrors.CodePaymentVerification {
		t.Errorf("expected code %s, got %v", apperrors.CodePaymentVerification, err)
	}
	if f.bookings.createCalls != 0 {
		t.Error("no booking may be created for a foreign order id")
	}
}

func TestCompletePayment_Cancelled(t *testing.T) {
	f := newFixture(t, nil)
	session := beginSession(t, f)

	got, err := f.svc.CompletePayment(context.Background(), session.ID, client.PaymentResult{
		OrderID:   session.PaymentOrderID,
		Cancelled: true,
	})
	if apperrors.CodeOf(err) != apperrors.CodePaymentCancelled {
		t.Fatalf("expected code %s, got %v", apperrors.CodePaymentCancelled, err)
	}

	if got.State != model.CheckoutCancelled {
		t.Errorf("expected state %s, got %s", model.CheckoutCancelled, got.State)
	}
	if f.bookings.createCalls != 0 {
		t.Error("no booking may be created for a cancelled payment")
	}
	if f.carts.clearCalls != 0 {
		t.Error("cart must stay untouched on cancellation")
	}
}

func TestCompletePayment_BookingRetriesSameReference(t *testing.T) {
	f := newFixture(t, func(f *fixture) *fixture {
		f.bookings.createFunc = func(ctx context.Context, req client.CreateBookingRequest) (*model.BookingRecord, error) {
			if f.bookings.createCalls < 3 {
				return nil, errors.New("booking service timeout")
			}
			return &model.BookingRecord{ID: "booking-1", PaymentRef: req.PaymentRef}, nil
		}
		return f
	})
	session := beginSession(t, f)

	got, err := f.svc.CompletePayment(context.Background(), session.ID, client.PaymentResult{
		OrderID:   session.PaymentOrderID,
		PaymentID: "pay-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.State != model.CheckoutCompleted {
		t.Errorf("expected state %s, got %s", model.CheckoutCompleted, got.State)
	}
	if f.bookings.createCalls != 3 {
		t.Errorf("expected 3 attempts, got %d", f.bookings.createCalls)
	}
	for i, ref := range f.bookings.paymentRefs {
		if ref != "pay-1" {
			t.Errorf("attempt %d used payment ref %q, all retries must reuse pay-1", i+1, ref)
		}
	}
}

func TestCompletePayment_BookingRetriesBounded(t *testing.T) {
	f := newFixture(t, func(f *fixture) *fixture {
		f.bookings.createFunc = func(ctx context.Context, req client.CreateBookingRequest) (*model.BookingRecord, error) {
			return nil, errors.New("booking service down")
		}
		return f
	})
	session := beginSession(t, f)

	got, err := f.svc.CompletePayment(context.Background(), session.ID, client.PaymentResult{
		OrderID:   session.PaymentOrderID,
		PaymentID: "pay-1",
	})
	if apperrors.CodeOf(err) != apperrors.CodeBookingCreation {
		t.Fatalf("expected code %s, got %v", apperrors.CodeBookingCreation, err)
	}

	if f.bookings.createCalls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", f.bookings.createCalls)
	}
	if got.State != model.CheckoutFailed {
		t.Errorf("expected state %s, got %s", model.CheckoutFailed, got.State)
	}

	appErr, _ := apperrors.IsAppError(err)
	if appErr.Details["support_reference"] != "pay-1" {
		t.Errorf("expected support reference pay-1, got %v", appErr.Details["support_reference"])
	}
	if f.carts.clearCalls != 0 {
		t.Error("cart must stay untouched when booking never succeeded")
	}
}

func TestCompletePayment_BookingRecoveredByPaymentRef(t *testing.T) {
	// Every create times out, but the first attempt actually landed: the
	// lookup by payment reference must rescue the checkout.
	f := newFixture(t, func(f *fixture) *fixture {
		f.bookings.createFunc = func(ctx context.Context, req client.CreateBookingRequest) (*model.BookingRecord, error) {
			return nil, errors.New("booking service timeout")
		}
		f.bookings.getByPaymentRef = func(ctx context.Context, paymentRef string) (*model.BookingRecord, error) {
			return &model.BookingRecord{ID: "booking-9", PaymentRef: paymentRef}, nil
		}
		return f
	})
	session := beginSession(t, f)

	got, err := f.svc.CompletePayment(context.Background(), session.ID, client.PaymentResult{
		OrderID:   session.PaymentOrderID,
		PaymentID: "pay-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.State != model.CheckoutCompleted {
		t.Errorf("expected state %s, got %s", model.CheckoutCompleted, got.State)
	}
	if got.BookingID != "booking-9" {
		t.Errorf("expected recovered booking id booking-9, got %q", got.BookingID)
	}
	if f.bookings.paymentRefLookups != 1 {
		t.Errorf("expected one payment-ref lookup, got %d", f.bookings.paymentRefLookups)
	}
	if f.carts.clearCalls != 1 {
		t.Errorf("expected cart cleared after recovery, got %d clears", f.carts.clearCalls)
	}
}

func TestCompletePayment_CartClearFailureStillCompletes(t *testing.T) {
	f := newFixture(t, func(f *fixture) *fixture {
		f.carts.clearFunc = func(ctx context.Context, customerID string) error {
			return errors.New("store unavailable")
		}
		return f
	})
	session := beginSession(t, f)

	got, err := f.svc.CompletePayment(context.Background(), session.ID, client.PaymentResult{
		OrderID:   session.PaymentOrderID,
		PaymentID: "pay-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.State != model.CheckoutCompleted {
		t.Errorf("expected state %s, got %s", model.CheckoutCompleted, got.State)
	}
	if !got.CartStale {
		t.Error("expected session flagged cart_stale")
	}
	if got.BookingID == "" {
		t.Error("expected booking id despite clear failure")
	}
	if f.events.clearFailed != 1 {
		t.Errorf("expected one clear-failed event, got %d", f.events.clearFailed)
	}
	if f.events.completed != 1 {
		t.Errorf("expected one completed event, got %d", f.events.completed)
	}
}

func TestCompletePayment_UnknownSession(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.CompletePayment(context.Background(), "no-such-session", client.PaymentResult{OrderID: "x"})
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %v", apperrors.CodeNotFound, err)
	}
}

func TestCompletePayment_RepeatedResultRejected(t *testing.T) {
	f := newFixture(t, nil)
	session := beginSession(t, f)

	result := client.PaymentResult{OrderID: session.PaymentOrderID, PaymentID: "pay-1"}
	if _, err := f.svc.CompletePayment(context.Background(), session.ID, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.svc.CompletePayment(context.Background(), session.ID, result)
	if apperrors.CodeOf(err) != apperrors.CodeConflict {
		t.Errorf("expected code %s for completed session, got %v", apperrors.CodeConflict, err)
	}
	if f.bookings.createCalls != 1 {
		t.Errorf("expected a single booking, got %d", f.bookings.createCalls)
	}
}

func TestGet_ReturnsStoredSession(t *testing.T) {
	f := newFixture(t, nil)
	session := beginSession(t, f)

	got, err := f.svc.Get(session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != session.ID || got.State != model.CheckoutPaymentProcessing {
		t.Errorf("unexpected session: %+v", got)
	}
}
