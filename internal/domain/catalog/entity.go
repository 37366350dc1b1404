// internal/domain/catalog/entity.go
package catalog

import (
	"regexp"
	"strings"
)

// Variation represents a purchasable size/price combination of a product
type Variation struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Size  string  `json:"size,omitempty"`
	Price float64 `json:"price"`
	Order int     `json:"order,omitempty"`
}

// Label returns the label shoppers pick a variation by
func (v Variation) Label() string {
	if v.Size != "" {
		return v.Size
	}
	return v.Name
}

// Product represents a catalog entry as supplied by the external product
// API. Field names match the API's JSON. Products are immutable from the
// storefront's perspective.
type Product struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Price            float64     `json:"price"`
	Image            string      `json:"image"`
	Category         string      `json:"category"`
	Brand            string      `json:"brand"`
	IsTopSeller      bool        `json:"isTopSeller,omitempty"`
	Description      string      `json:"description,omitempty"`
	AdditionalImages []string    `json:"additionalImages,omitempty"`
	Rating           float64     `json:"rating,omitempty"`
	ReviewCount      int         `json:"reviewCount,omitempty"`
	Variations       []Variation `json:"variations,omitempty"`
}

// LowestPrice returns the minimum variation price, or the base price for
// products without variations. A product with variations has no single
// canonical price.
func (p Product) LowestPrice() float64 {
	if len(p.Variations) == 0 {
		return p.Price
	}

	lowest := p.Variations[0].Price
	for _, v := range p.Variations[1:] {
		if v.Price < lowest {
			lowest = v.Price
		}
	}
	return lowest
}

// VariationByLabel finds the variation matching a shopper-selected label
func (p Product) VariationByLabel(label string) (Variation, bool) {
	for _, v := range p.Variations {
		if v.Label() == label {
			return v, true
		}
	}
	return Variation{}, false
}

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugDashRuns     = regexp.MustCompile(`-+`)
)

// Slugify generates a URL-safe slug from a product title
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	slug = slugDashRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Slug returns the product's URL slug
func (p Product) Slug() string {
	return Slugify(p.Title)
}
