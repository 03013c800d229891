package service

import (
	"context"
	"fmt"
	"time"

	"glowbook/internal/checkout/repository"
	"glowbook/pkg/client"
	"glowbook/pkg/clock"
	"glowbook/pkg/config"
	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartSource is the slice of the cart service the orchestrator needs.
type CartSource interface {
	GetCart(ctx context.Context, customerID string) (*model.Cart, error)
	Clear(ctx context.Context, customerID string) error
	FlagStale(ctx context.Context, customerID string) error
}

// Pricer computes the payment split for a cart total.
type Pricer interface {
	Calculate(ctx context.Context, serviceTotal decimal.Decimal) (model.PricingBreakdown, error)
}

// SlotValidator checks a slot selection before any money moves.
type SlotValidator interface {
	ValidateSelection(ctx context.Context, sel model.SlotSelection) error
}

// PaymentGateway creates orders and verifies their signed results.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*client.PaymentOrder, error)
	Verify(result client.PaymentResult) error
}

// BookingCreator persists the booking downstream. The payment reference acts
// as its idempotency key, so calling it again with the same reference is
// create-or-fetch, and a lookup by reference recovers a create whose response
// was lost.
type BookingCreator interface {
	Create(ctx context.Context, req client.CreateBookingRequest) (*model.BookingRecord, error)
	GetByPaymentRef(ctx context.Context, paymentRef string) (*model.BookingRecord, error)
}

// EventSink receives pipeline outcome notifications.
type EventSink interface {
	CheckoutCompleted(ctx context.Context, session *model.CheckoutSession)
	CartClearFailed(ctx context.Context, session *model.CheckoutSession)
}

type CheckoutService interface {
	Begin(ctx context.Context, customerID string, sel model.SlotSelection) (*model.CheckoutSession, *client.PaymentOrder, error)
	CompletePayment(ctx context.Context, sessionID string, result client.PaymentResult) (*model.CheckoutSession, error)
	Get(sessionID string) (*model.CheckoutSession, error)
}

type checkoutService struct {
	sessions repository.SessionStore
	carts    CartSource
	pricer   Pricer
	slots    SlotValidator
	gateway  PaymentGateway
	bookings BookingCreator
	events   EventSink
	clk      clock.Clock
	cfg      *config.Config
}

func NewCheckoutService(
	sessions repository.SessionStore,
	carts CartSource,
	pricer Pricer,
	slots SlotValidator,
	gateway PaymentGateway,
	bookings BookingCreator,
	events EventSink,
	clk clock.Clock,
	cfg *config.Config,
) CheckoutService {
	return &checkoutService{
		sessions: sessions,
		carts:    carts,
		pricer:   pricer,
		slots:    slots,
		gateway:  gateway,
		bookings: bookings,
		events:   events,
		clk:      clk,
		cfg:      cfg,
	}
}

// transition advances the session state, rejecting jumps the state machine
// does not allow.
func (s *checkoutService) transition(session *model.CheckoutSession, next model.CheckoutState) error {
	if !session.State.CanTransitionTo(next) {
		return apperrors.Internal(
			fmt.Sprintf("illegal checkout transition %s -> %s", session.State, next), nil)
	}
	session.State = next
	session.UpdatedAt = s.clk.Now()
	return nil
}

// fail moves the session to its terminal failed state and records why.
func (s *checkoutService) fail(session *model.CheckoutSession, appErr *apperrors.AppError) {
	session.State = model.CheckoutFailed
	session.FailureCode = appErr.Code
	session.FailureMessage = appErr.Message
	session.UpdatedAt = s.clk.Now()
	s.sessions.Save(session)
}

// Begin validates the slot selection, prices the cart, and opens a gateway
// order. No booking exists yet; the cart stays untouched until payment is
// verified and the booking is created.
func (s *checkoutService) Begin(ctx context.Context, customerID string, sel model.SlotSelection) (*model.CheckoutSession, *client.PaymentOrder, error) {
	if customerID == "" {
		return nil, nil, apperrors.Unauthorized("Sign in to check out")
	}

	if err := s.slots.ValidateSelection(ctx, sel); err != nil {
		return nil, nil, err
	}

	cart, err := s.carts.GetCart(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	if cart.IsEmpty() {
		return nil, nil, apperrors.Validation("Cart is empty", nil)
	}

	now := s.clk.Now()
	session := &model.CheckoutSession{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		State:      model.CheckoutIdle,
		Cart:       cart.Clone(),
		Slot:       sel,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.transition(session, model.CheckoutSlotPending); err != nil {
		return nil, nil, err
	}

	pricing, err := s.pricer.Calculate(ctx, cart.TotalAmount())
	if err != nil {
		// Fee configuration is a hard gate: no gateway order may exist
		// without a priced checkout.
		if appErr, ok := apperrors.IsAppError(err); ok {
			s.fail(session, appErr)
		}
		return nil, nil, err
	}
	session.Pricing = pricing

	if err := s.transition(session, model.CheckoutPaymentInitiating); err != nil {
		return nil, nil, err
	}

	order, err := s.gateway.CreateOrder(ctx, pricing.PayNow, s.cfg.PaymentCurrency, session.ID)
	if err != nil {
		initErr := apperrors.PaymentInit(err)
		s.fail(session, initErr)
		s.cfg.Log.Error("Payment order creation failed",
			"session_id", session.ID,
			"customer_id", customerID,
			"error", err,
		)
		return nil, nil, initErr
	}
	session.PaymentOrderID = order.OrderID

	if err := s.transition(session, model.CheckoutPaymentProcessing); err != nil {
		return nil, nil, err
	}
	s.sessions.Save(session)

	s.cfg.Log.Info("Checkout started",
		"session_id", session.ID,
		"customer_id", customerID,
		"order_id", order.OrderID,
		"pay_now", pricing.PayNow.String(),
	)
	return session, order, nil
}

// CompletePayment runs the back half of the pipeline: verify the gateway
// result, create the booking with bounded retries, then clear the cart.
func (s *checkoutService) CompletePayment(ctx context.Context, sessionID string, result client.PaymentResult) (*model.CheckoutSession, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, apperrors.NotFoundWithID("Checkout session", sessionID)
	}
	if session.State != model.CheckoutPaymentProcessing {
		if session.State.IsTerminal() {
			return nil, apperrors.Conflict(
				fmt.Sprintf("checkout session already ended as %s", session.State))
		}
		return nil, apperrors.Conflict(
			fmt.Sprintf("checkout session is %s, payment result not expected", session.State))
	}

	if result.Cancelled {
		if err := s.transition(session, model.CheckoutCancelled); err != nil {
			return nil, err
		}
		s.sessions.Save(session)
		s.cfg.Log.Info("Payment cancelled by customer", "session_id", session.ID)
		return session, apperrors.PaymentCancelled()
	}

	if result.OrderID != session.PaymentOrderID {
		verErr := apperrors.PaymentVerification(
			fmt.Errorf("order id %s does not belong to session %s", result.OrderID, session.ID))
		s.fail(session, verErr)
		return session, verErr
	}
	if err := s.gateway.Verify(result); err != nil {
		verErr := apperrors.PaymentVerification(err)
		s.fail(session, verErr)
		s.cfg.Log.Error("Payment verification failed", "session_id", session.ID, "error", err)
		return session, verErr
	}

	if err := s.transition(session, model.CheckoutPaymentSucceeded); err != nil {
		return nil, err
	}
	session.PaymentRef = result.PaymentID
	if session.PaymentRef == "" {
		// Demo mode never produces a gateway payment id.
		session.PaymentRef = session.PaymentOrderID
	}
	s.sessions.Save(session)

	if err := s.transition(session, model.CheckoutBookingCreating); err != nil {
		return nil, err
	}
	s.sessions.Save(session)

	booking, err := s.createBookingWithRetry(ctx, session)
	if err != nil {
		bookErr := apperrors.BookingCreation(err, session.PaymentRef)
		s.fail(session, bookErr)
		s.cfg.Log.Error("Booking creation exhausted retries, payment captured",
			"session_id", session.ID,
			"payment_ref", session.PaymentRef,
			"error", err,
		)
		return session, bookErr
	}
	session.BookingID = booking.ID

	if err := s.transition(session, model.CheckoutCartClearing); err != nil {
		return nil, err
	}

	// Booking and payment are settled; a failed cart clear must not undo
	// that. Flag the cart and let the next read sweep it.
	if err := s.carts.Clear(ctx, session.CustomerID); err != nil {
		s.cfg.Log.Warn("Cart clear failed after booking, flagging stale",
			"session_id", session.ID,
			"customer_id", session.CustomerID,
			"error", err,
		)
		session.CartStale = true
		if flagErr := s.carts.FlagStale(ctx, session.CustomerID); flagErr != nil {
			s.cfg.Log.Error("Failed to flag stale cart", "customer_id", session.CustomerID, "error", flagErr)
		}
		s.events.CartClearFailed(ctx, session)
	}

	if err := s.transition(session, model.CheckoutCompleted); err != nil {
		return nil, err
	}
	s.sessions.Save(session)
	s.events.CheckoutCompleted(ctx, session)

	s.cfg.Log.Info("Checkout completed",
		"session_id", session.ID,
		"customer_id", session.CustomerID,
		"booking_id", session.BookingID,
		"cart_stale", session.CartStale,
	)
	return session, nil
}

// createBookingWithRetry calls the booking service with the same payment
// reference on every attempt so a retry after a timeout cannot double-book.
func (s *checkoutService) createBookingWithRetry(ctx context.Context, session *model.CheckoutSession) (*model.BookingRecord, error) {
	req := bookingRequest(session)

	var lastErr error
	for attempt := 1; attempt <= s.cfg.BookingRetryAttempts; attempt++ {
		booking, err := s.bookings.Create(ctx, req)
		if err == nil {
			return booking, nil
		}
		lastErr = err

		s.cfg.Log.Warn("Booking creation attempt failed",
			"session_id", session.ID,
			"attempt", attempt,
			"max_attempts", s.cfg.BookingRetryAttempts,
			"error", err,
		)

		if attempt < s.cfg.BookingRetryAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.cfg.BookingRetryBackoff):
			}
		}
	}

	// A timed-out attempt may still have landed. Look the booking up by its
	// payment reference before giving the money up for support recovery.
	booking, err := s.bookings.GetByPaymentRef(ctx, session.PaymentRef)
	if err == nil && booking != nil {
		s.cfg.Log.Info("Booking recovered by payment reference after failed creates",
			"session_id", session.ID,
			"booking_id", booking.ID,
			"payment_ref", session.PaymentRef,
		)
		return booking, nil
	}

	return nil, lastErr
}

func bookingRequest(session *model.CheckoutSession) client.CreateBookingRequest {
	items := make([]model.BookingLineItem, 0, len(session.Cart.Items))
	for _, item := range session.Cart.Items {
		items = append(items, model.BookingLineItem{
			ServiceID:       item.ServiceID,
			ServiceName:     item.ServiceName,
			PlanName:        item.PlanName,
			DurationMinutes: item.DurationMinutes,
			UnitPrice:       item.UnitPrice,
			Quantity:        item.Quantity,
		})
	}

	return client.CreateBookingRequest{
		CustomerID: session.CustomerID,
		VendorID:   session.Cart.VendorID(),
		VendorName: session.Cart.VendorName(),
		Items:      items,
		Date:       session.Slot.Date,
		Times:      session.Slot.Times,
		AmountPaid: session.Pricing.PayNow.StringFixed(2),
		AmountDue:  session.Pricing.PayAtVenue.StringFixed(2),
		PaymentRef: session.PaymentRef,
	}
}

func (s *checkoutService) Get(sessionID string) (*model.CheckoutSession, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, apperrors.NotFoundWithID("Checkout session", sessionID)
	}
	return session, nil
}
