package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one unit of a bookable service in a pending cart.
// UnitPrice is validated in code (non-negative decimal); validator tags cover
// the rest.
type CartItem struct {
	ID              string          `json:"id,omitempty" validate:"omitempty,uuid4"`
	VendorID        string          `json:"vendor_id" validate:"required"`
	VendorName      string          `json:"vendor_name" validate:"required,min=1,max=120"`
	ServiceID       string          `json:"service_id" validate:"required"`
	ServiceName     string          `json:"service_name" validate:"required,min=1,max=120"`
	PlanName        string          `json:"plan_name,omitempty" validate:"omitempty,max=120"`
	CategoryName    string          `json:"category_name,omitempty" validate:"omitempty,max=120"`
	DurationMinutes int             `json:"duration_minutes" validate:"required,min=1,max=600"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity" validate:"required,min=1"`
	Description     string          `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// Subtotal is UnitPrice × Quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart owns the ordered item collection for one customer. Totals are always
// derived from Items so they cannot drift out of sync.
type Cart struct {
	CustomerID string     `json:"customer_id"`
	Items      []CartItem `json:"items"`
	// Stale marks a cart whose post-booking clear failed; it is cleaned up
	// best-effort on the next read.
	Stale     bool      `json:"stale,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// VendorID returns the vendor the cart is bound to, or "" for an empty cart.
func (c *Cart) VendorID() string {
	if len(c.Items) == 0 {
		return ""
	}
	return c.Items[0].VendorID
}

func (c *Cart) VendorName() string {
	if len(c.Items) == 0 {
		return ""
	}
	return c.Items[0].VendorName
}

// TotalAmount is the sum of item subtotals, computed on demand.
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities, computed on demand.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// HasService reports whether a service id is already in the cart.
func (c *Cart) HasService(serviceID string) bool {
	for _, item := range c.Items {
		if item.ServiceID == serviceID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, used to snapshot the cart into a checkout session.
func (c *Cart) Clone() *Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return &Cart{
		CustomerID: c.CustomerID,
		Items:      items,
		Stale:      c.Stale,
		UpdatedAt:  c.UpdatedAt,
	}
}
