package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/julesvx/vitrine/internal/config"
	"github.com/julesvx/vitrine/internal/extract"
	"github.com/julesvx/vitrine/internal/fetcher"
	"github.com/julesvx/vitrine/internal/store"
	"github.com/julesvx/vitrine/internal/types"
)

// candidateFloor is the minimum size of the candidate pool cap; the actual
// cap is max(candidateFloor, limit*2).
const candidateFloor = 100

// Policy is the politeness policy between product-page fetches. The crawl
// is strictly sequential; only the delay is tunable.
type Policy struct {
	DelayBase   time.Duration
	DelayJitter time.Duration
}

// ImageMirrorer rewrites a record's images to local paths where possible.
type ImageMirrorer interface {
	MirrorImages(ctx context.Context, category string, seq int, images []string) []string
}

// CategoryCrawler produces accepted product records for one category.
type CategoryCrawler struct {
	fetch    fetcher.PageFetcher
	links    *extract.LinkExtractor
	products *extract.ProductExtractor
	store    *store.Store
	mirror   ImageMirrorer // nil when mirroring is disabled
	site     config.SiteConfig
	policy   Policy
	logger   *slog.Logger

	// sleep and rng are injectable for tests.
	sleep func(time.Duration)
	rng   *rand.Rand
}

// NewCategoryCrawler wires a crawler from its collaborators. mirror may be
// nil to disable image mirroring.
func NewCategoryCrawler(
	fetch fetcher.PageFetcher,
	st *store.Store,
	mirror ImageMirrorer,
	site config.SiteConfig,
	policy Policy,
	logger *slog.Logger,
) *CategoryCrawler {
	return &CategoryCrawler{
		fetch:    fetch,
		links:    extract.NewLinkExtractor(site.Host, logger),
		products: extract.NewProductExtractor(logger),
		store:    st,
		mirror:   mirror,
		site:     site,
		policy:   policy,
		logger:   logger.With("component", "category_crawler"),
		sleep:    time.Sleep,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Crawl resolves the category to a listing page, walks its candidate
// product links, and returns up to limit accepted records. An unresolvable
// category is reported and yields an empty (but persisted) result set, not
// an error; only persistence failures escalate.
func (c *CategoryCrawler) Crawl(ctx context.Context, category string, limit int) ([]types.RawProduct, error) {
	c.logger.Info("crawling category", "category", category, "limit", limit)

	html, listingURL := c.resolveListing(ctx, category)
	if html == "" {
		c.logger.Warn("category page not found", "category", category)
		if _, err := c.store.SaveCategory(category, nil); err != nil {
			return nil, err
		}
		return []types.RawProduct{}, nil
	}

	candidates := c.collectCandidates(html, listingURL, limit)
	c.logger.Info("candidate links found",
		"category", category,
		"candidates", len(candidates),
		"limit", limit,
	)

	accepted := make([]types.RawProduct, 0, limit)
	for _, link := range candidates {
		if len(accepted) >= limit {
			break
		}

		pageHTML, ok := c.fetch.TryFetch(ctx, link)
		if !ok {
			continue
		}

		rec, err := c.products.Extract(pageHTML, link)
		if err != nil {
			c.logger.Warn("product page unparseable", "url", link, "error", err)
			continue
		}
		if !rec.Acceptable() {
			c.logger.Debug("record rejected", "url", link, "title", rec.Title, "images", len(rec.Images))
			continue
		}

		rec.SourceCategory = category
		rec.SequenceIndex = len(accepted) + 1

		if _, err := c.store.SaveRecord(category, rec); err != nil {
			return accepted, err
		}

		if c.mirror != nil && len(rec.Images) > 0 {
			rec.Images = c.mirror.MirrorImages(ctx, category, rec.SequenceIndex, rec.Images)
			if _, err := c.store.SaveRecord(category, rec); err != nil {
				return accepted, err
			}
		}

		accepted = append(accepted, *rec)
		c.politeDelay()
	}

	if _, err := c.store.SaveCategory(category, accepted); err != nil {
		return accepted, err
	}

	c.logger.Info("category crawl complete", "category", category, "records", len(accepted))
	return accepted, nil
}

// resolveListing turns a category keyword or URL into listing page HTML.
// Keywords walk the configured URL templates in order, then fall back to
// scanning the homepage for a link containing the keyword.
func (c *CategoryCrawler) resolveListing(ctx context.Context, category string) (html, listingURL string) {
	if isURL(category) {
		if body, ok := c.fetch.TryFetch(ctx, category); ok {
			return body, category
		}
		return "", ""
	}

	keyword := strings.ToLower(category)
	for _, tmpl := range c.site.ListingTemplates {
		candidate := c.site.BaseURL + fmt.Sprintf(tmpl, keyword)
		if body, ok := c.fetch.TryFetch(ctx, candidate); ok {
			return body, candidate
		}
	}

	// Last resort: the homepage may link to the category directly.
	home, ok := c.fetch.TryFetch(ctx, c.site.BaseURL)
	if !ok {
		return "", ""
	}
	for _, link := range c.links.ProductLinks(home, c.site.BaseURL) {
		if strings.Contains(strings.ToLower(link), keyword) {
			if body, ok := c.fetch.TryFetch(ctx, link); ok {
				return body, link
			}
			return "", ""
		}
	}
	return "", ""
}

// collectCandidates merges product links and pagination-looking links from
// the listing page into one deduplicated pool, capped at
// max(candidateFloor, limit*2). The seen set is scoped to this call.
func (c *CategoryCrawler) collectCandidates(html, listingURL string, limit int) []string {
	seen := make(map[string]bool)
	var candidates []string
	add := func(link string) {
		if !seen[link] {
			seen[link] = true
			candidates = append(candidates, link)
		}
	}

	for _, link := range c.links.ProductLinks(html, listingURL) {
		add(link)
	}
	for _, link := range c.links.PaginationLinks(html, listingURL) {
		add(link)
	}

	poolCap := candidateFloor
	if limit*2 > poolCap {
		poolCap = limit * 2
	}
	if len(candidates) > poolCap {
		candidates = candidates[:poolCap]
	}
	return candidates
}

func (c *CategoryCrawler) politeDelay() {
	d := c.policy.DelayBase
	if c.policy.DelayJitter > 0 {
		d += time.Duration(c.rng.Float64() * float64(c.policy.DelayJitter))
	}
	if d > 0 {
		c.sleep(d)
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
