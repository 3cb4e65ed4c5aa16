package fetcher

import "context"

// PageFetcher retrieves page HTML for the crawler. Implementations absorb
// all transport failures: a page either comes back as text or not at all.
type PageFetcher interface {
	// TryFetch returns the page body and true on any 2xx response,
	// ("", false) on any failure.
	TryFetch(ctx context.Context, url string) (string, bool)
}
