// internal/domain/cart/entity.go
package cart

import (
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// Item represents a cart line. A line is identified by the pair of
// product id and selected variation label; the same product in two
// different sizes occupies two lines.
type Item struct {
	catalog.Product
	Quantity  int     `json:"quantity"`
	Variation string  `json:"selectedSize,omitempty"`
	UnitPrice float64 `json:"selectedPrice,omitempty"`
}

// EffectivePrice returns the price this line is charged at
func (i Item) EffectivePrice() float64 {
	if i.UnitPrice > 0 {
		return i.UnitPrice
	}
	return i.Price
}

// LineTotal returns quantity times effective price
func (i Item) LineTotal() float64 {
	return i.EffectivePrice() * float64(i.Quantity)
}

// Matches reports whether a line holds the given product and variation
func (i Item) Matches(productID, variation string) bool {
	return i.ID == productID && i.Variation == variation
}

// Totals summarizes a cart
type Totals struct {
	ItemCount     int     `json:"itemCount"`
	TotalQuantity int     `json:"totalQuantity"`
	Total         float64 `json:"total"`
}

// Cart is a shopper's cart with computed totals
type Cart struct {
	Items  []Item `json:"items"`
	Totals Totals `json:"totals"`
}

// ComputeTotals recalculates totals from the items
func ComputeTotals(items []Item) Totals {
	totals := Totals{ItemCount: len(items)}
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.Total += item.LineTotal()
	}
	return totals
}
