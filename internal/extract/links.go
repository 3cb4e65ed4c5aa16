package extract

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Product-detail URLs tend to either carry a product marker in the path or
// sit deep in the site hierarchy. The heuristic is intentionally permissive:
// false positives are filtered downstream by the extraction gate.
var (
	productHrefPattern    = regexp.MustCompile(`(?i)product|product-detail|/p-`)
	paginationHrefPattern = regexp.MustCompile(`(?i)page=|/page/`)
)

// minPathParts is the number of "/"-separated parts above which an href is
// considered deep enough to be a product page.
const minPathParts = 4

// LinkExtractor derives candidate product-detail URLs from listing pages.
type LinkExtractor struct {
	host   string
	logger *slog.Logger
}

// NewLinkExtractor creates a link extractor restricted to the given host
// family (substring match on the link host).
func NewLinkExtractor(host string, logger *slog.Logger) *LinkExtractor {
	return &LinkExtractor{
		host:   host,
		logger: logger.With("component", "link_extractor"),
	}
}

// ProductLinks returns deduplicated absolute URLs judged likely to be
// product-detail pages, in discovery order. Malformed hrefs are skipped.
func (e *LinkExtractor) ProductLinks(html, baseURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logger.Debug("listing page unparseable", "base", baseURL, "error", err)
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		if !productHrefPattern.MatchString(href) && len(strings.Split(href, "/")) <= minPathParts {
			return
		}

		resolved := resolveLink(base, href)
		if resolved == "" {
			return
		}

		// Truncate at the query string: variants of the same product page
		// collapse to one candidate.
		resolved, _, _ = strings.Cut(resolved, "?")

		if !e.sameHostFamily(resolved) {
			return
		}

		if !seen[resolved] {
			seen[resolved] = true
			links = append(links, resolved)
		}
	})

	return links
}

// PaginationLinks returns absolute URLs of pagination-looking links.
func (e *LinkExtractor) PaginationLinks(html, baseURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || !paginationHrefPattern.MatchString(href) {
			return
		}
		if resolved := resolveLink(base, href); resolved != "" {
			links = append(links, resolved)
		}
	})

	return links
}

func (e *LinkExtractor) sameHostFamily(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.Contains(u.Host, e.host)
}

// resolveLink resolves href against base and returns an absolute http(s)
// URL, or "" if the href does not resolve to one.
func resolveLink(base *url.URL, href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
