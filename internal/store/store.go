package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/julesvx/vitrine/internal/types"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeName makes a category keyword or URL safe for use in filenames.
func SanitizeName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// Store persists crawl artifacts as indented JSON files under one output
// directory: one file per accepted record, one aggregate per category, and
// one combined file per campaign.
type Store struct {
	dir          string
	combinedFile string
	logger       *slog.Logger
}

// New creates a store rooted at dir, creating it if needed.
func New(dir, combinedFile string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.StorageError{Path: dir, Err: err}
	}
	return &Store{
		dir:          dir,
		combinedFile: combinedFile,
		logger:       logger.With("component", "store"),
	}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string { return s.dir }

// SaveRecord writes one accepted record to its own file, named after the
// category and the record's sequence index. Called again after image
// mirroring to refresh the image paths in place.
func (s *Store) SaveRecord(category string, rec *types.RawProduct) (string, error) {
	name := fmt.Sprintf("%s-%d.json", SanitizeName(category), rec.SequenceIndex)
	path := filepath.Join(s.dir, name)
	if err := s.writeJSON(path, rec); err != nil {
		return "", err
	}
	s.logger.Info("record saved", "path", path, "title", rec.Title)
	return path, nil
}

// SaveCategory writes the full accepted set for one category. An empty
// crawl still produces an aggregate file containing [].
func (s *Store) SaveCategory(category string, recs []types.RawProduct) (string, error) {
	name := fmt.Sprintf("%s-products.json", SanitizeName(category))
	path := filepath.Join(s.dir, name)
	if recs == nil {
		recs = []types.RawProduct{}
	}
	if err := s.writeJSON(path, recs); err != nil {
		return "", err
	}
	s.logger.Info("category aggregate saved", "path", path, "records", len(recs))
	return path, nil
}

// SaveCombined writes the campaign-wide dataset.
func (s *Store) SaveCombined(recs []types.RawProduct) (string, error) {
	path := filepath.Join(s.dir, s.combinedFile)
	if recs == nil {
		recs = []types.RawProduct{}
	}
	if err := s.writeJSON(path, recs); err != nil {
		return "", err
	}
	s.logger.Info("combined dataset saved", "path", path, "records", len(recs))
	return path, nil
}

// LoadCombined reads the campaign-wide dataset back. A missing file is
// reported as types.ErrMissingDataset so the importer can fail cleanly.
func (s *Store) LoadCombined() ([]types.RawProduct, error) {
	path := filepath.Join(s.dir, s.combinedFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrMissingDataset, path)
		}
		return nil, &types.StorageError{Path: path, Err: err}
	}

	var recs []types.RawProduct
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, &types.StorageError{Path: path, Err: err}
	}
	return recs, nil
}

func (s *Store) writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return &types.StorageError{Path: path, Err: err}
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return &types.StorageError{Path: path, Err: err}
	}
	return nil
}
