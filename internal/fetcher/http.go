package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/julesvx/vitrine/internal/config"
	"github.com/julesvx/vitrine/internal/types"
)

// Client is the HTTP fetcher used for listing pages, product pages, and
// image downloads. There is no retry at this layer: retry policy lives in
// the crawler's candidate-URL fallback.
type Client struct {
	client      *http.Client
	imageClient *http.Client
	cfg         *config.FetcherConfig
	logger      *slog.Logger
}

// New creates an HTTP fetcher from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 50,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  true, // We handle decompression ourselves (including brotli)
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !cfg.Fetcher.FollowRedirects {
			return http.ErrUseLastResponse
		}
		if len(via) >= cfg.Fetcher.MaxRedirects {
			return fmt.Errorf("max redirects (%d) reached", cfg.Fetcher.MaxRedirects)
		}
		return nil
	}

	return &Client{
		client: &http.Client{
			Transport:     transport,
			Timeout:       cfg.Fetcher.Timeout,
			CheckRedirect: redirectPolicy,
		},
		imageClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Fetcher.ImageTimeout,
		},
		cfg:    &cfg.Fetcher,
		logger: logger.With("component", "fetcher"),
	}
}

// Fetch performs a GET and returns the body as text on any 2xx status.
// Any other outcome is a *types.FetchError.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	body, err := c.get(ctx, c.client, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// TryFetch is the null-result variant of Fetch used during traversal:
// every failure is absorbed and logged at debug level.
func (c *Client) TryFetch(ctx context.Context, url string) (string, bool) {
	body, err := c.Fetch(ctx, url)
	if err != nil {
		c.logger.Debug("fetch failed", "url", url, "error", err)
		return "", false
	}
	return body, true
}

// FetchBytes performs a GET with the image timeout and returns raw bytes.
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, c.imageClient, url)
}

func (c *Client) get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}

	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return nil, &types.FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	var reader io.Reader = resp.Body
	if c.cfg.MaxBodySize > 0 {
		reader = io.LimitReader(reader, c.cfg.MaxBodySize)
	}

	reader, err = decompressReader(resp, reader)
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}

	c.logger.Debug("fetch complete",
		"url", url,
		"status", resp.StatusCode,
		"size", len(body),
		"duration", time.Since(start),
	)

	return body, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// decompressReader wraps a reader with the appropriate decompressor.
// Handles gzip, deflate, and brotli (br) encodings.
func decompressReader(resp *http.Response, reader io.Reader) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		return flate.NewReader(reader), nil
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}
