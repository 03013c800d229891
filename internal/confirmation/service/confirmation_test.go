package service

import (
	"testing"

	"glowbook/pkg/config"
	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/logger"
	"glowbook/pkg/model"

	"github.com/shopspring/decimal"
)

type mockSessionSource struct {
	getFunc func(sessionID string) (*model.CheckoutSession, error)
}

func (m *mockSessionSource) Get(sessionID string) (*model.CheckoutSession, error) {
	if m.getFunc != nil {
		return m.getFunc(sessionID)
	}
	return nil, apperrors.NotFoundWithID("Checkout session", sessionID)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}),
	}
}

func completedSession() *model.CheckoutSession {
	return &model.CheckoutSession{
		ID:         "sess-1",
		CustomerID: "cust-1",
		State:      model.CheckoutCompleted,
		BookingID:  "booking-1",
		Cart: &model.Cart{
			CustomerID: "cust-1",
			Items: []model.CartItem{
				{VendorID: "vendor-1", VendorName: "Glow Studio", ServiceID: "svc-1", Quantity: 1},
			},
		},
		Slot: model.SlotSelection{Date: "2026-09-01", Times: []string{"10:00"}},
		Pricing: model.PricingBreakdown{
			PayNow:     decimal.RequireFromString("118"),
			PayAtVenue: decimal.RequireFromString("900"),
		},
	}
}

func TestBuild_CompletedSession(t *testing.T) {
	svc := NewConfirmationService(&mockSessionSource{
		getFunc: func(sessionID string) (*model.CheckoutSession, error) {
			return completedSession(), nil
		},
	}, testConfig())

	conf, err := svc.Build("sess-1", "cust-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if conf.BookingID != "booking-1" {
		t.Errorf("expected booking-1, got %s", conf.BookingID)
	}
	if conf.AmountPaid != "118.00" || conf.AmountDue != "900.00" {
		t.Errorf("unexpected amounts: paid %s due %s", conf.AmountPaid, conf.AmountDue)
	}
	if conf.VendorName != "Glow Studio" {
		t.Errorf("expected vendor name, got %s", conf.VendorName)
	}
}

func TestBuild_UnknownSession(t *testing.T) {
	svc := NewConfirmationService(&mockSessionSource{}, testConfig())

	_, err := svc.Build("no-such-session", "cust-1")
	if apperrors.CodeOf(err) != apperrors.CodeMissingContext {
		t.Errorf("expected code %s, got %v", apperrors.CodeMissingContext, err)
	}
}

func TestBuild_IncompleteSession(t *testing.T) {
	session := completedSession()
	session.State = model.CheckoutPaymentProcessing

	svc := NewConfirmationService(&mockSessionSource{
		getFunc: func(sessionID string) (*model.CheckoutSession, error) {
			return session, nil
		},
	}, testConfig())

	_, err := svc.Build("sess-1", "cust-1")
	if apperrors.CodeOf(err) != apperrors.CodeMissingContext {
		t.Errorf("expected code %s, got %v", apperrors.CodeMissingContext, err)
	}
}

func TestBuild_WrongCustomer(t *testing.T) {
	svc := NewConfirmationService(&mockSessionSource{
		getFunc: func(sessionID string) (*model.CheckoutSession, error) {
			return completedSession(), nil
		},
	}, testConfig())

	_, err := svc.Build("sess-1", "someone-else")
	if apperrors.CodeOf(err) != apperrors.CodeMissingContext {
		t.Errorf("expected code %s, got %v", apperrors.CodeMissingContext, err)
	}
}
