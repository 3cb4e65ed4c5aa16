package extract

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"

	"github.com/julesvx/vitrine/internal/types"
)

// ProductExtractor parses a product-detail page into a RawProduct. It is a
// best-effort structural scrape: every field falls back through its cascade
// independently, and a field that never matches stays empty. The acceptance
// gate (title + images) is the caller's job.
type ProductExtractor struct {
	logger *slog.Logger
}

// NewProductExtractor creates a product page extractor.
func NewProductExtractor(logger *slog.Logger) *ProductExtractor {
	return &ProductExtractor{
		logger: logger.With("component", "product_extractor"),
	}
}

// Extract parses the given HTML into a RawProduct.
func (e *ProductExtractor) Extract(htmlText, pageURL string) (*types.RawProduct, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, &types.ParseError{URL: pageURL, Err: err}
	}

	rec := &types.RawProduct{
		URL:         pageURL,
		Title:       firstMatch(doc, titleRules),
		Brand:       firstMatch(doc, brandRules),
		Price:       firstMatch(doc, priceRules),
		Description: firstMatch(doc, descriptionRules),
	}

	rec.Images = e.extractImages(doc, pageURL)
	rec.Specs = extractTexts(doc, specsSelector)
	rec.Sizes = extractTexts(doc, sizesSelector)
	rec.Colors = e.extractColors(doc)

	return rec, nil
}

// firstMatch evaluates a cascade and returns the first non-empty value.
func firstMatch(doc *goquery.Document, rules []FieldRule) string {
	for _, rule := range rules {
		var val string
		switch rule.Type {
		case "xpath":
			val = evalXPath(doc, rule)
		default:
			val = evalCSS(doc, rule)
		}
		if val != "" {
			return val
		}
	}
	return ""
}

func evalCSS(doc *goquery.Document, rule FieldRule) string {
	sel := doc.Find(rule.Selector).First()
	if sel.Length() == 0 {
		return ""
	}
	if rule.Attribute == "" {
		return strings.TrimSpace(sel.Text())
	}
	val, _ := sel.Attr(rule.Attribute)
	return strings.TrimSpace(val)
}

func evalXPath(doc *goquery.Document, rule FieldRule) string {
	if len(doc.Nodes) == 0 {
		return ""
	}
	nodes, err := htmlquery.QueryAll(doc.Nodes[0], rule.Selector)
	if err != nil || len(nodes) == 0 {
		return ""
	}
	if rule.Attribute == "" {
		return strings.TrimSpace(htmlquery.InnerText(nodes[0]))
	}
	return strings.TrimSpace(htmlquery.SelectAttr(nodes[0], rule.Attribute))
}

// extractImages collects the social-preview image plus generic <img>
// sources, resolves them against the page URL, strips query strings,
// and dedupes, capped at maxImages.
func (e *ProductExtractor) extractImages(doc *goquery.Document, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]bool)
	var images []string
	add := func(src string) {
		src = strings.TrimSpace(src)
		if src == "" || base == nil {
			return
		}
		resolved := resolveLink(base, src)
		if resolved == "" {
			return
		}
		resolved, _, _ = strings.Cut(resolved, "?")
		if !seen[resolved] {
			seen[resolved] = true
			images = append(images, resolved)
		}
	}

	if og, ok := doc.Find(ogImageSelector).Attr("content"); ok {
		add(og)
	}

	doc.Find("img").Each(func(i int, sel *goquery.Selection) {
		for _, attr := range []string{"src", "data-src", "data-lazy"} {
			if src, ok := sel.Attr(attr); ok && strings.TrimSpace(src) != "" {
				add(src)
				return
			}
		}
	})

	if len(images) > maxImages {
		images = images[:maxImages]
	}
	return images
}

// extractColors reads color swatch labels, preferring alt over title over
// inner text.
func (e *ProductExtractor) extractColors(doc *goquery.Document) []string {
	var colors []string
	doc.Find(colorsSelector).Each(func(i int, sel *goquery.Selection) {
		label, ok := sel.Attr("alt")
		if !ok || label == "" {
			label, ok = sel.Attr("title")
		}
		if !ok || label == "" {
			label = sel.Text()
		}
		if label = strings.TrimSpace(label); label != "" {
			colors = append(colors, label)
		}
	})
	return colors
}

// extractTexts returns the trimmed, non-empty text of every element
// matching the selector, in document order.
func extractTexts(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}
