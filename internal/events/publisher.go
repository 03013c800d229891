package events

import (
	"context"
	"time"

	"glowbook/pkg/kafka"
	"glowbook/pkg/logger"
	"glowbook/pkg/model"
)

const (
	EventCheckoutCompleted = "checkout.completed"
	EventCartClearFailed   = "cart.clear_failed"
	EventCartUpdated       = "cart.updated"

	source = "checkout-service"
)

// Publisher emits booking pipeline events for downstream consumers
// (notifications, vendor dashboards, reconciliation).
type Publisher interface {
	CheckoutCompleted(ctx context.Context, session *model.CheckoutSession)
	CartClearFailed(ctx context.Context, session *model.CheckoutSession)
	CartUpdated(ctx context.Context, cart *model.Cart)
	Close() error
}

type checkoutCompletedEvent struct {
	SessionID  string   `json:"session_id"`
	BookingID  string   `json:"booking_id"`
	CustomerID string   `json:"customer_id"`
	VendorID   string   `json:"vendor_id"`
	Date       string   `json:"date"`
	Times      []string `json:"times"`
	StartsAt   string   `json:"starts_at,omitempty"`
	AmountPaid string   `json:"amount_paid"`
	AmountDue  string   `json:"amount_due"`
	PaymentRef string   `json:"payment_ref"`
}

type cartClearFailedEvent struct {
	SessionID  string `json:"session_id"`
	CustomerID string `json:"customer_id"`
	BookingID  string `json:"booking_id"`
}

type cartUpdatedEvent struct {
	CustomerID string `json:"customer_id"`
	VendorID   string `json:"vendor_id,omitempty"`
	ItemCount  int    `json:"item_count"`
	Total      string `json:"total"`
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

// publish is fire-and-forget: event delivery must never fail a checkout that
// already settled money.
func (p *kafkaPublisher) publish(ctx context.Context, eventType, key string, payload any) {
	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}

func (p *kafkaPublisher) CheckoutCompleted(ctx context.Context, session *model.CheckoutSession) {
	event := checkoutCompletedEvent{
		SessionID:  session.ID,
		BookingID:  session.BookingID,
		CustomerID: session.CustomerID,
		VendorID:   session.Cart.VendorID(),
		Date:       session.Slot.Date,
		Times:      session.Slot.Times,
		AmountPaid: session.Pricing.PayNow.StringFixed(2),
		AmountDue:  session.Pricing.PayAtVenue.StringFixed(2),
		PaymentRef: session.PaymentRef,
	}
	if startsAt, err := session.Slot.StartsAt(time.UTC); err == nil {
		event.StartsAt = startsAt.Format(time.RFC3339)
	}
	p.publish(ctx, EventCheckoutCompleted, session.CustomerID, event)
}

func (p *kafkaPublisher) CartClearFailed(ctx context.Context, session *model.CheckoutSession) {
	p.publish(ctx, EventCartClearFailed, session.CustomerID, cartClearFailedEvent{
		SessionID:  session.ID,
		CustomerID: session.CustomerID,
		BookingID:  session.BookingID,
	})
}

func (p *kafkaPublisher) CartUpdated(ctx context.Context, cart *model.Cart) {
	p.publish(ctx, EventCartUpdated, cart.CustomerID, cartUpdatedEvent{
		CustomerID: cart.CustomerID,
		VendorID:   cart.VendorID(),
		ItemCount:  cart.ItemCount(),
		Total:      cart.TotalAmount().StringFixed(2),
	})
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// nopPublisher serves deployments without brokers configured.
type nopPublisher struct{}

func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) CheckoutCompleted(ctx context.Context, session *model.CheckoutSession) {}
func (nopPublisher) CartClearFailed(ctx context.Context, session *model.CheckoutSession)  {}
func (nopPublisher) CartUpdated(ctx context.Context, cart *model.Cart)                    {}
func (nopPublisher) Close() error                                                         { return nil }
