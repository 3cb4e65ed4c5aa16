package crawler

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julesvx/vitrine/internal/config"
	"github.com/julesvx/vitrine/internal/store"
	"github.com/julesvx/vitrine/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// stubFetcher serves canned pages; everything else fails like a dead URL.
type stubFetcher struct {
	pages map[string]string
}

func (s *stubFetcher) TryFetch(_ context.Context, url string) (string, bool) {
	html, ok := s.pages[url]
	return html, ok
}

func testSite() config.SiteConfig {
	return config.SiteConfig{
		BaseURL: "https://shop.example.com",
		Host:    "example.com",
		ListingTemplates: []string{
			"/en-eu/women/%s",
			"/en-eu/men/%s",
		},
	}
}

func productPage(title string, withImage bool) string {
	img := ""
	if withImage {
		img = `<img src="/img/main.jpg">`
	}
	return `<html><body><h1>` + title + `</h1>` + img +
		`<span data-testid="price">€100.00</span></body></html>`
}

const testListing = `<html><body>
  <a href="/en-eu/women/coats/item-one-A1">One</a>
  <a href="/en-eu/women/coats/item-two-B2">Two</a>
  <a href="/en-eu/women/coats/item-three-C3">Three</a>
  <a href="/en-eu/women/coats/no-image-D4">No image</a>
</body></html>`

func newTestCrawler(t *testing.T, pages map[string]string, m ImageMirrorer) (*CategoryCrawler, *store.Store) {
	t.Helper()
	st, err := store.New(t.TempDir(), "all-products.json", testLogger)
	require.NoError(t, err)
	c := NewCategoryCrawler(&stubFetcher{pages: pages}, st, m, testSite(), Policy{}, testLogger)
	return c, st
}

func TestCrawlDirectListingURL(t *testing.T) {
	listingURL := "https://shop.example.com/en-eu/women/coats"
	pages := map[string]string{
		listingURL: testListing,
		"https://shop.example.com/en-eu/women/coats/item-one-A1":   productPage("Item One", true),
		"https://shop.example.com/en-eu/women/coats/no-image-D4":   productPage("No Image", false),
		"https://shop.example.com/en-eu/women/coats/item-two-B2":   productPage("Item Two", true),
		"https://shop.example.com/en-eu/women/coats/item-three-C3": productPage("Item Three", true),
	}

	c, st := newTestCrawler(t, pages, nil)
	recs, err := c.Crawl(context.Background(), listingURL, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// Accepted in candidate order, gated on title+images, 1-based indexes.
	assert.Equal(t, "Item One", recs[0].Title)
	assert.Equal(t, 1, recs[0].SequenceIndex)
	assert.Equal(t, "Item Two", recs[1].Title)
	assert.Equal(t, 2, recs[1].SequenceIndex)
	for _, rec := range recs {
		assert.NotEmpty(t, rec.Title)
		assert.NotEmpty(t, rec.Images)
		assert.Equal(t, listingURL, rec.SourceCategory)
	}

	// Per-record files and the aggregate exist.
	cat := store.SanitizeName(listingURL)
	for i := 1; i <= 2; i++ {
		_, err := os.Stat(filepath.Join(st.Dir(), cat+"-"+itoa(i)+".json"))
		assert.NoError(t, err)
	}
	agg, err := os.ReadFile(filepath.Join(st.Dir(), cat+"-products.json"))
	require.NoError(t, err)
	var saved []types.RawProduct
	require.NoError(t, json.Unmarshal(agg, &saved))
	assert.Len(t, saved, 2)
}

func TestCrawlSkipsRejectedRecords(t *testing.T) {
	listingURL := "https://shop.example.com/en-eu/women/coats"
	pages := map[string]string{
		listingURL: testListing,
		// First candidate has no image, second is a dead URL; only the
		// remaining two can be accepted.
		"https://shop.example.com/en-eu/women/coats/item-one-A1":   productPage("Item One", false),
		"https://shop.example.com/en-eu/women/coats/item-three-C3": productPage("Item Three", true),
		"https://shop.example.com/en-eu/women/coats/no-image-D4":   productPage("Late Item", true),
	}

	c, _ := newTestCrawler(t, pages, nil)
	recs, err := c.Crawl(context.Background(), listingURL, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Item Three", recs[0].Title)
	assert.Equal(t, "Late Item", recs[1].Title)
}

func TestCrawlKeywordUsesListingTemplates(t *testing.T) {
	pages := map[string]string{
		// The women template misses, the men one hits.
		"https://shop.example.com/en-eu/men/coats": testListing,
		"https://shop.example.com/en-eu/women/coats/item-one-A1": productPage("Item One", true),
	}

	c, _ := newTestCrawler(t, pages, nil)
	recs, err := c.Crawl(context.Background(), "Coats", 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Coats", recs[0].SourceCategory)
}

func TestCrawlKeywordHomepageFallback(t *testing.T) {
	pages := map[string]string{
		"https://shop.example.com": `<html><body>
		  <a href="/en-eu/shop/women/silk-scarves-collection">Scarves</a>
		</body></html>`,
		"https://shop.example.com/en-eu/shop/women/silk-scarves-collection": testListing,
		"https://shop.example.com/en-eu/women/coats/item-one-A1":            productPage("Item One", true),
	}

	c, _ := newTestCrawler(t, pages, nil)
	recs, err := c.Crawl(context.Background(), "scarves", 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestCrawlUnresolvableCategory(t *testing.T) {
	c, st := newTestCrawler(t, map[string]string{}, nil)

	recs, err := c.Crawl(context.Background(), "gloves", 5)
	require.NoError(t, err)
	assert.Empty(t, recs)

	// The aggregate file still exists and contains an empty array.
	agg, err := os.ReadFile(filepath.Join(st.Dir(), "gloves-products.json"))
	require.NoError(t, err)
	var saved []types.RawProduct
	require.NoError(t, json.Unmarshal(agg, &saved))
	assert.Empty(t, saved)
}

// stubMirrorer rewrites every image to a fixed local path.
type stubMirrorer struct{}

func (stubMirrorer) MirrorImages(_ context.Context, category string, seq int, images []string) []string {
	out := make([]string, len(images))
	for i := range images {
		out[i] = "/local/" + store.SanitizeName(category) + "/img"
	}
	return out
}

func TestCrawlMirrorRewritesPersistedRecord(t *testing.T) {
	listingURL := "https://shop.example.com/en-eu/women/coats"
	pages := map[string]string{
		listingURL: testListing,
		"https://shop.example.com/en-eu/women/coats/item-one-A1": productPage("Item One", true),
	}

	c, st := newTestCrawler(t, pages, stubMirrorer{})
	recs, err := c.Crawl(context.Background(), listingURL, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotEmpty(t, recs[0].Images)
	assert.Contains(t, recs[0].Images[0], "/local/")

	// The per-record file was re-written with the mirrored paths.
	cat := store.SanitizeName(listingURL)
	data, err := os.ReadFile(filepath.Join(st.Dir(), cat+"-1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "/local/")
}

func TestCollectCandidatesCap(t *testing.T) {
	c, _ := newTestCrawler(t, nil, nil)

	var sb []byte
	sb = append(sb, []byte("<html><body>")...)
	for i := 0; i < 300; i++ {
		sb = append(sb, []byte(`<a href="/en-eu/women/coats/item-`+itoa(i)+`-X">x</a>`)...)
	}
	sb = append(sb, []byte("</body></html>")...)

	candidates := c.collectCandidates(string(sb), "https://shop.example.com/en-eu/women/coats", 10)
	assert.Len(t, candidates, 100) // max(100, 10*2)

	candidates = c.collectCandidates(string(sb), "https://shop.example.com/en-eu/women/coats", 80)
	assert.Len(t, candidates, 160) // max(100, 80*2)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
