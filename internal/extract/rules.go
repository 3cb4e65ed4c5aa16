package extract

// FieldRule is a single extraction strategy within a field's cascade.
// Rules are evaluated in order until one yields a non-empty value.
type FieldRule struct {
	Type      string // "css" (default) or "xpath"
	Selector  string
	Attribute string // "" means element text; otherwise the attribute name
}

// Cascades per field. The selectors mirror the markup families observed on
// the target site; each field degrades independently when the page drops
// or renames a hook.
var (
	titleRules = []FieldRule{
		{Type: "css", Selector: "h1"},
		{Type: "css", Selector: `meta[property="og:title"]`, Attribute: "content"},
	}

	brandRules = []FieldRule{
		{Type: "css", Selector: `[data-testid="brand"]`},
	}

	priceRules = []FieldRule{
		{Type: "css", Selector: `[data-testid="price"]`},
		{Type: "css", Selector: `[itemprop="price"]`, Attribute: "content"},
		{Type: "css", Selector: `meta[property="product:price:amount"]`, Attribute: "content"},
	}

	descriptionRules = []FieldRule{
		{Type: "css", Selector: ".product-description"},
		{Type: "xpath", Selector: `//*[@id="description"]`},
		{Type: "css", Selector: `meta[name="description"]`, Attribute: "content"},
	}
)

const (
	ogImageSelector = `meta[property="og:image"]`
	specsSelector   = `.product-specs li, .characteristics li, [data-testid="specs"] li`
	sizesSelector   = `[data-testid="size-selector"] option, select.size option, .product-sizes option`
	colorsSelector  = `[data-testid="color-selector"] option, .product-colors img, .color-swatch`
)

// maxImages caps the image list of a raw record.
const maxImages = 12
