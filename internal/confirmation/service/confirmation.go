package service

import (
	"glowbook/pkg/config"
	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/model"
)

// SessionSource reads stored checkout sessions.
type SessionSource interface {
	Get(sessionID string) (*model.CheckoutSession, error)
}

// Confirmation is what the post-payment page shows: the booking, what was
// paid, what remains due, and when.
type Confirmation struct {
	SessionID  string   `json:"session_id"`
	BookingID  string   `json:"booking_id"`
	VendorName string   `json:"vendor_name"`
	Date       string   `json:"date"`
	Times      []string `json:"times"`
	AmountPaid string   `json:"amount_paid"`
	AmountDue  string   `json:"amount_due"`
	CartStale  bool     `json:"cart_stale,omitempty"`
}

type ConfirmationService interface {
	Build(sessionID, customerID string) (*Confirmation, error)
}

type confirmationService struct {
	sessions SessionSource
	cfg      *config.Config
}

func NewConfirmationService(sessions SessionSource, cfg *config.Config) ConfirmationService {
	return &confirmationService{
		sessions: sessions,
		cfg:      cfg,
	}
}

// Build resolves a confirmation for a completed checkout. Anything else, a
// direct navigation, an expired session, a checkout still in flight, is a
// missing-context case the handler redirects away.
func (s *confirmationService) Build(sessionID, customerID string) (*Confirmation, error) {
	if sessionID == "" {
		return nil, apperrors.MissingContext("No checkout session to confirm")
	}

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, apperrors.MissingContext("Checkout session not found or expired")
	}

	if session.CustomerID != customerID {
		return nil, apperrors.MissingContext("Checkout session not found or expired")
	}

	if session.State != model.CheckoutCompleted {
		s.cfg.Log.Warn("Confirmation requested for incomplete checkout",
			"session_id", sessionID,
			"state", session.State,
		)
		return nil, apperrors.MissingContext("Checkout is not completed")
	}

	return &Confirmation{
		SessionID:  session.ID,
		BookingID:  session.BookingID,
		VendorName: session.Cart.VendorName(),
		Date:       session.Slot.Date,
		Times:      session.Slot.Times,
		AmountPaid: session.Pricing.PayNow.StringFixed(2),
		AmountDue:  session.Pricing.PayAtVenue.StringFixed(2),
		CartStale:  session.CartStale,
	}, nil
}
