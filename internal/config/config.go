package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for vitrine.
type Config struct {
	Site    SiteConfig    `mapstructure:"site"    yaml:"site"`
	Crawler CrawlerConfig `mapstructure:"crawler" yaml:"crawler"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Mirror  MirrorConfig  `mapstructure:"mirror"  yaml:"mirror"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Import  ImportConfig  `mapstructure:"import"  yaml:"import"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// SiteConfig describes the crawl target.
type SiteConfig struct {
	// BaseURL is the site root, used for the homepage fallback.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Host restricts extracted links to the site's host family.
	Host string `mapstructure:"host" yaml:"host"`

	// ListingTemplates are candidate listing-page paths tried in order for
	// a bare category keyword. Each must contain one %s placeholder.
	ListingTemplates []string `mapstructure:"listing_templates" yaml:"listing_templates"`
}

// CrawlerConfig controls category traversal.
type CrawlerConfig struct {
	Limit       int           `mapstructure:"limit"        yaml:"limit"`
	DelayBase   time.Duration `mapstructure:"delay_base"   yaml:"delay_base"`
	DelayJitter time.Duration `mapstructure:"delay_jitter" yaml:"delay_jitter"`
}

// FetcherConfig controls the HTTP client.
type FetcherConfig struct {
	UserAgent       string        `mapstructure:"user_agent"       yaml:"user_agent"`
	Timeout         time.Duration `mapstructure:"timeout"          yaml:"timeout"`
	ImageTimeout    time.Duration `mapstructure:"image_timeout"    yaml:"image_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"    yaml:"max_body_size"`
	FollowRedirects bool          `mapstructure:"follow_redirects" yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"    yaml:"max_redirects"`
}

// MirrorConfig controls local image mirroring.
type MirrorConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Dir is where mirrored images are written on disk.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// PublicPrefix is the path prefix recorded in the dataset in place of
	// the remote URL for successfully mirrored images.
	PublicPrefix string `mapstructure:"public_prefix" yaml:"public_prefix"`
}

// StorageConfig controls output artifacts.
type StorageConfig struct {
	// OutputDir holds per-product, per-category, and combined JSON files.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// CombinedFile is the campaign-wide dataset filename inside OutputDir.
	CombinedFile string `mapstructure:"combined_file" yaml:"combined_file"`
}

// ImportConfig controls the importer/normalizer.
type ImportConfig struct {
	// OutputPath is the generated Go data file.
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`

	// Seed seeds the placeholder price/review generator. 0 means seed
	// from the current time (non-reproducible output).
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL: "https://www.24s.com",
			Host:    "24s.com",
			ListingTemplates: []string{
				"/en-eu/women/%s",
				"/en-eu/men/%s",
				"/en-eu/shop/women/%s",
				"/en-eu/shop/men/%s",
				"/en-us/women/%s",
				"/en-us/men/%s",
				"/us-en/%s",
				"/en/%s",
			},
		},
		Crawler: CrawlerConfig{
			Limit:       50,
			DelayBase:   800 * time.Millisecond,
			DelayJitter: 400 * time.Millisecond,
		},
		Fetcher: FetcherConfig{
			UserAgent:       "Mozilla/5.0 (compatible; VitrineBot/1.0; +https://example.com/bot)",
			Timeout:         15 * time.Second,
			ImageTimeout:    20 * time.Second,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			FollowRedirects: true,
			MaxRedirects:    10,
		},
		Mirror: MirrorConfig{
			Enabled:      false,
			Dir:          "public/images/24s",
			PublicPrefix: "/images/24s",
		},
		Storage: StorageConfig{
			OutputDir:    "scrape-output",
			CombinedFile: "all-products.json",
		},
		Import: ImportConfig{
			OutputPath: "catalog/products_gen.go",
			Seed:       0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// CombinedPath returns the full path of the campaign-wide dataset.
func (c *Config) CombinedPath() string {
	return c.Storage.OutputDir + "/" + c.Storage.CombinedFile
}
