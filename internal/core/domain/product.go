package domain

// Price is one size/value pair on a product.
type Price struct {
	Size  string  `json:"size"`
	Value float64 `json:"value"`
}

// Image is a product image reference.
type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Product is a storefront product as served by the remote backend.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
	Prices      []Price `json:"prices"`
	Images      []Image `json:"images"`
}

// PriceFor returns the price value for the given size, and whether the
// product offers that size at all.
func (p Product) PriceFor(size string) (float64, bool) {
	for _, pr := range p.Prices {
		if pr.Size == size {
			return pr.Value, true
		}
	}
	return 0, false
}

// InStock reports whether the product can currently be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}
