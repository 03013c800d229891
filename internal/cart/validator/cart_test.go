package validator

import (
	"testing"

	"glowbook/pkg/logger"
	"glowbook/pkg/model"

	"github.com/shopspring/decimal"
)

func validItem() *model.CartItem {
	return &model.CartItem{
		VendorID:        "vendor-1",
		VendorName:      "Glow Studio",
		ServiceID:       "svc-1",
		ServiceName:     "Classic Facial",
		DurationMinutes: 45,
		UnitPrice:       decimal.NewFromInt(1200),
		Quantity:        1,
	}
}

func newValidator() *CartValidator {
	return NewCartValidator(logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}))
}

func TestValidateItem_OK(t *testing.T) {
	if err := newValidator().ValidateItem(validItem()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateItem_MissingFields(t *testing.T) {
	item := validItem()
	item.VendorID = ""
	item.ServiceName = ""

	err := newValidator().ValidateItem(item)
	if err == nil {
		t.Fatal("expected a validation error")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 2 {
		t.Errorf("expected 2 errors, got %d: %v", len(verrs), verrs)
	}
}

func TestValidateItem_NegativePrice(t *testing.T) {
	item := validItem()
	item.UnitPrice = decimal.NewFromInt(-5)

	err := newValidator().ValidateItem(item)
	if err == nil {
		t.Fatal("expected a validation error for negative price")
	}
}

func TestValidateItem_ZeroQuantity(t *testing.T) {
	item := validItem()
	item.Quantity = 0

	if err := newValidator().ValidateItem(item); err == nil {
		t.Fatal("expected a validation error for zero quantity")
	}
}
