package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/julesvx/vitrine/internal/store"
)

// ImageFetcher downloads raw image bytes.
type ImageFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Mirrorer downloads a record's images into a per-category directory and
// rewrites each entry to its local public path. A failed download keeps the
// original remote URL, so a mirrored record may mix local and remote
// references.
type Mirrorer struct {
	fetch        ImageFetcher
	baseDir      string
	publicPrefix string
	logger       *slog.Logger
}

// New creates a mirrorer writing under baseDir and recording paths under
// publicPrefix.
func New(fetch ImageFetcher, baseDir, publicPrefix string, logger *slog.Logger) *Mirrorer {
	return &Mirrorer{
		fetch:        fetch,
		baseDir:      baseDir,
		publicPrefix: publicPrefix,
		logger:       logger.With("component", "mirror"),
	}
}

// MirrorImages downloads images sequentially and returns the rewritten
// list. seq is the record's sequence index within its category, used in the
// local filenames. Failures are logged and skipped; they never abort the
// record.
func (m *Mirrorer) MirrorImages(ctx context.Context, category string, seq int, images []string) []string {
	catName := store.SanitizeName(category)
	dir := filepath.Join(m.baseDir, catName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("mirror directory not created, keeping remote URLs", "dir", dir, "error", err)
		return images
	}

	out := make([]string, len(images))
	copy(out, images)

	for i, imgURL := range images {
		data, err := m.fetch.FetchBytes(ctx, imgURL)
		if err != nil {
			m.logger.Warn("image download failed", "url", imgURL, "error", err)
			continue
		}

		name := fmt.Sprintf("img-%d-%d%s", seq, i, extensionOf(imgURL))
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			m.logger.Warn("image write failed", "url", imgURL, "error", err)
			continue
		}

		out[i] = m.publicPrefix + "/" + catName + "/" + name
		m.logger.Debug("image mirrored", "url", imgURL, "local", out[i], "size", len(data))
	}

	return out
}

// extensionOf returns the file extension of the URL path, or ".jpg" when
// the path carries none.
func extensionOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".jpg"
	}
	if ext := path.Ext(u.Path); ext != "" {
		return ext
	}
	return ".jpg"
}
