package fetcher

import (
	"compress/gzip"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julesvx/vitrine/internal/config"
	"github.com/julesvx/vitrine/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>hello</html>"))
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/gzipped", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte("compressed body"))
		gz.Close()
	})
	mux.HandleFunc("/image", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0xFF, 0xD8, 0xFF})
	})
	return httptest.NewServer(mux)
}

func newTestClient() (*Client, *httptest.Server) {
	srv := newTestServer()
	cfg := config.DefaultConfig()
	c := New(cfg, testLogger)
	return c, srv
}

func TestFetchSuccess(t *testing.T) {
	c, srv := newTestClient()
	defer srv.Close()

	body, err := c.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "<html>hello</html>", body)
}

func TestFetchNon2xx(t *testing.T) {
	c, srv := newTestClient()
	defer srv.Close()

	for _, path := range []string{"/gone", "/broken"} {
		_, err := c.Fetch(context.Background(), srv.URL+path)
		require.Error(t, err, path)

		var fe *types.FetchError
		require.ErrorAs(t, err, &fe)
		assert.NotZero(t, fe.StatusCode)
	}
}

func TestFetchDecompressesGzip(t *testing.T) {
	c, srv := newTestClient()
	defer srv.Close()

	body, err := c.Fetch(context.Background(), srv.URL+"/gzipped")
	require.NoError(t, err)
	assert.Equal(t, "compressed body", body)
}

func TestTryFetchAbsorbsFailures(t *testing.T) {
	c, srv := newTestClient()
	defer srv.Close()

	body, ok := c.TryFetch(context.Background(), srv.URL+"/ok")
	assert.True(t, ok)
	assert.NotEmpty(t, body)

	_, ok = c.TryFetch(context.Background(), srv.URL+"/gone")
	assert.False(t, ok)

	// A connection failure is absorbed just like a bad status.
	_, ok = c.TryFetch(context.Background(), "http://127.0.0.1:1/nope")
	assert.False(t, ok)
}

func TestFetchBytes(t *testing.T) {
	c, srv := newTestClient()
	defer srv.Close()

	data, err := c.FetchBytes(context.Background(), srv.URL+"/image")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, data)
}
