package handler

import (
	"time"

	"glowbook/pkg/model"
)

// sessionView is the polling payload: state plus the amounts the UI shows.
type sessionView struct {
	ID             string   `json:"id"`
	State          string   `json:"state"`
	Date           string   `json:"date"`
	Times          []string `json:"times"`
	ServiceTotal   string   `json:"service_total"`
	BookingFee     string   `json:"booking_fee"`
	Tax            string   `json:"tax"`
	PayNow         string   `json:"pay_now"`
	PayAtVenue     string   `json:"pay_at_venue"`
	BookingID      string   `json:"booking_id,omitempty"`
	FailureCode    string   `json:"failure_code,omitempty"`
	FailureMessage string   `json:"failure_message,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

func newSessionView(session *model.CheckoutSession) *sessionView {
	return &sessionView{
		ID:             session.ID,
		State:          string(session.State),
		Date:           session.Slot.Date,
		Times:          session.Slot.Times,
		ServiceTotal:   session.Pricing.ServiceTotal.StringFixed(2),
		BookingFee:     session.Pricing.BookingFee.StringFixed(2),
		Tax:            session.Pricing.Tax.StringFixed(2),
		PayNow:         session.Pricing.PayNow.StringFixed(2),
		PayAtVenue:     session.Pricing.PayAtVenue.StringFixed(2),
		BookingID:      session.BookingID,
		FailureCode:    session.FailureCode,
		FailureMessage: session.FailureMessage,
		CreatedAt:      session.CreatedAt.Format(time.RFC3339),
	}
}
