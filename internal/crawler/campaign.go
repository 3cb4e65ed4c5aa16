package crawler

import (
	"context"
	"log/slog"

	"github.com/julesvx/vitrine/internal/store"
	"github.com/julesvx/vitrine/internal/types"
)

// CategoryRunner is the per-category crawl operation the campaign drives.
type CategoryRunner interface {
	Crawl(ctx context.Context, category string, limit int) ([]types.RawProduct, error)
}

// Campaign runs a list of categories in sequence and writes the combined
// dataset. A failing category is logged and skipped; it never aborts the
// remaining categories.
type Campaign struct {
	crawler CategoryRunner
	store   *store.Store
	logger  *slog.Logger
}

// NewCampaign creates a campaign runner.
func NewCampaign(crawler CategoryRunner, st *store.Store, logger *slog.Logger) *Campaign {
	return &Campaign{
		crawler: crawler,
		store:   st,
		logger:  logger.With("component", "campaign"),
	}
}

// Run crawls each category with the shared limit and returns the
// concatenation of all successfully produced records, after persisting it
// as the combined dataset.
func (r *Campaign) Run(ctx context.Context, categories []string, limit int) ([]types.RawProduct, error) {
	combined := make([]types.RawProduct, 0)

	for _, category := range categories {
		recs, err := r.crawler.Crawl(ctx, category, limit)
		if err != nil {
			r.logger.Error("category crawl failed", "category", category, "error", err)
			continue
		}
		combined = append(combined, recs...)
	}

	path, err := r.store.SaveCombined(combined)
	if err != nil {
		return combined, err
	}

	r.logger.Info("campaign complete",
		"categories", len(categories),
		"records", len(combined),
		"output", path,
	)
	return combined, nil
}
