// Package catalog exposes the imported product dataset to the storefront.
// The dataset itself lives in products_gen.go, regenerated wholesale by
// `vitrine import`; the accessors here are the only contract the rest of
// the application depends on.
package catalog

// Product is the canonical storefront product schema.
type Product struct {
	ID              int      `json:"id"`
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription"`
	Price           float64  `json:"price"`
	OriginalPrice   *float64 `json:"originalPrice"`
	Currency        string   `json:"currency"`
	Category        string   `json:"category"`
	Images          []string `json:"images"`
	Colors          []string `json:"colors"`
	Sizes           []string `json:"sizes"`
	Rating          float64  `json:"rating"`
	Reviews         int      `json:"reviews"`
	Material        string   `json:"material"`
}

// ProductByID returns the product with the given id, or false when no such
// product exists.
func ProductByID(id int) (Product, bool) {
	for _, p := range imported {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Products returns a copy of the full dataset; callers may reorder or
// filter it freely.
func Products() []Product {
	out := make([]Product, len(imported))
	copy(out, imported)
	return out
}

// ptrFloat is referenced by the generated data file for optional prices.
func ptrFloat(f float64) *float64 { return &f }
