package domain

// CartItem is one line in a cart. Product carries only the fields the cart
// queries select (name, prices, images), not the full product record.
type CartItem struct {
	ID       string  `json:"id"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size"`
	Product  Product `json:"product"`
}

// Subtotal is the line total for this item, using the price matching the
// chosen size. Unknown sizes contribute zero.
func (i CartItem) Subtotal() float64 {
	v, ok := i.Product.PriceFor(i.Size)
	if !ok {
		return 0
	}
	return v * float64(i.Quantity)
}

// Cart is a user's cart as served by the remote backend.
type Cart struct {
	ID     string     `json:"id"`
	UserID string     `json:"userId,omitempty"`
	Items  []CartItem `json:"items"`
	Total  float64    `json:"total"`
}

// Count returns the total number of units across all items.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
