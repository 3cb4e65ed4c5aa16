package extract

import (
	"log/slog"
	"net/url"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const listingHTML = `<!DOCTYPE html>
<html>
<body>
  <a href="/en-eu/women/coats/wool-blend-coat-CLOAK1">Wool blend coat</a>
  <a href="/en-eu/women/coats/wool-blend-coat-CLOAK1?color=navy">Wool blend coat (navy)</a>
  <a href="https://shop.example.com/product/silk-scarf">Silk scarf</a>
  <a href="/p-12345">Short product link</a>
  <a href="https://othersite.com/product/counterfeit">Off-site product</a>
  <a href="/about">About us</a>
  <a href="://bad-href">Broken</a>
  <a href="?page=2">Next page</a>
  <a href="/en-eu/women/coats/page/3">Page three</a>
</body>
</html>`

func TestProductLinksHeuristics(t *testing.T) {
	e := NewLinkExtractor("example.com", testLogger)
	links := e.ProductLinks(listingHTML, "https://shop.example.com/en-eu/women/coats")

	want := []string{
		"https://shop.example.com/en-eu/women/coats/wool-blend-coat-CLOAK1",
		"https://shop.example.com/product/silk-scarf",
		"https://shop.example.com/p-12345",
		"https://shop.example.com/en-eu/women/coats/page/3",
	}
	assert.Equal(t, want, links)
}

func TestProductLinksNoDuplicates(t *testing.T) {
	e := NewLinkExtractor("example.com", testLogger)
	links := e.ProductLinks(listingHTML, "https://shop.example.com/en-eu/women/coats")

	seen := make(map[string]bool)
	for _, link := range links {
		assert.False(t, seen[link], "duplicate link %s", link)
		seen[link] = true
	}
}

func TestProductLinksAbsoluteAndOnHost(t *testing.T) {
	e := NewLinkExtractor("example.com", testLogger)
	links := e.ProductLinks(listingHTML, "https://shop.example.com/en-eu/women/coats")
	require.NotEmpty(t, links)

	for _, link := range links {
		u, err := url.Parse(link)
		require.NoError(t, err)
		assert.True(t, u.IsAbs(), "link %s is not absolute", link)
		assert.Contains(t, u.Host, "example.com")
		assert.NotContains(t, link, "?")
	}
}

func TestProductLinksSkipsOffHost(t *testing.T) {
	e := NewLinkExtractor("example.com", testLogger)
	links := e.ProductLinks(listingHTML, "https://shop.example.com/en-eu/women/coats")

	for _, link := range links {
		assert.NotContains(t, link, "othersite.com")
	}
}

func TestPaginationLinks(t *testing.T) {
	e := NewLinkExtractor("example.com", testLogger)
	links := e.PaginationLinks(listingHTML, "https://shop.example.com/en-eu/women/coats")

	assert.Equal(t, []string{
		"https://shop.example.com/en-eu/women/coats?page=2",
		"https://shop.example.com/en-eu/women/coats/page/3",
	}, links)
}

func TestProductLinksEmptyPage(t *testing.T) {
	e := NewLinkExtractor("example.com", testLogger)
	assert.Empty(t, e.ProductLinks("<html><body>nothing here</body></html>", "https://shop.example.com"))
}
