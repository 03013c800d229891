package handler

import "glowbook/pkg/model"

// CartView attaches the derived totals the UI needs to the raw cart.
type CartView struct {
	CustomerID  string           `json:"customer_id"`
	VendorID    string           `json:"vendor_id,omitempty"`
	VendorName  string           `json:"vendor_name,omitempty"`
	Items       []model.CartItem `json:"items"`
	ItemCount   int              `json:"item_count"`
	TotalAmount string           `json:"total_amount"`
}

func cartView(cart *model.Cart) CartView {
	return CartView{
		CustomerID:  cart.CustomerID,
		VendorID:    cart.VendorID(),
		VendorName:  cart.VendorName(),
		Items:       cart.Items,
		ItemCount:   cart.ItemCount(),
		TotalAmount: cart.TotalAmount().StringFixed(2),
	}
}
