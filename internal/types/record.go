package types

// RawProduct is a single product record as scraped from a detail page.
// Field values are best-effort: everything except URL may be empty. The
// JSON tags match the per-product files written by the crawler, so a
// partially completed run remains readable by the importer.
type RawProduct struct {
	// URL is the canonical source page URL, unique within a category run.
	URL string `json:"url"`

	// Title is the product title as found on the page.
	Title string `json:"title"`

	// Brand is the brand label, when the page exposes one.
	Brand string `json:"brand,omitempty"`

	// Price is the raw price text, currency symbols and locale formatting
	// included. Normalization happens in the importer.
	Price string `json:"price,omitempty"`

	// Description is free text, possibly empty.
	Description string `json:"description,omitempty"`

	// Images holds absolute image URLs, deduplicated, at most 12.
	Images []string `json:"images"`

	// Specs holds free-text key/value-ish spec lines in page order.
	Specs []string `json:"specs,omitempty"`

	// Sizes and Colors are option labels from the page's selectors.
	Sizes  []string `json:"sizes,omitempty"`
	Colors []string `json:"colors,omitempty"`

	// SourceCategory is the category keyword or URL this record was
	// discovered under.
	SourceCategory string `json:"_source_category,omitempty"`

	// SequenceIndex is the 1-based position within the category's
	// accepted records.
	SequenceIndex int `json:"_index,omitempty"`
}

// Acceptable reports whether the record passes the persistence gate:
// a non-empty title and at least one image.
func (p *RawProduct) Acceptable() bool {
	return p.Title != "" && len(p.Images) > 0
}
