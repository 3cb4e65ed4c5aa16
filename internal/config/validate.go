package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url must not be empty")
	}
	if err := ValidateURL(cfg.Site.BaseURL); err != nil {
		return fmt.Errorf("site.base_url: %w", err)
	}
	if cfg.Site.Host == "" {
		return fmt.Errorf("site.host must not be empty")
	}
	for _, tmpl := range cfg.Site.ListingTemplates {
		if strings.Count(tmpl, "%s") != 1 {
			return fmt.Errorf("site.listing_templates entry %q must contain exactly one %%s", tmpl)
		}
	}

	if cfg.Crawler.Limit < 1 {
		return fmt.Errorf("crawler.limit must be >= 1, got %d", cfg.Crawler.Limit)
	}
	if cfg.Crawler.DelayBase < 0 {
		return fmt.Errorf("crawler.delay_base must be >= 0")
	}
	if cfg.Crawler.DelayJitter < 0 {
		return fmt.Errorf("crawler.delay_jitter must be >= 0")
	}

	if cfg.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher.timeout must be > 0")
	}
	if cfg.Fetcher.ImageTimeout <= 0 {
		return fmt.Errorf("fetcher.image_timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if cfg.Mirror.Enabled {
		if cfg.Mirror.Dir == "" {
			return fmt.Errorf("mirror.dir must not be empty when mirroring is enabled")
		}
		if cfg.Mirror.PublicPrefix == "" {
			return fmt.Errorf("mirror.public_prefix must not be empty when mirroring is enabled")
		}
	}

	if cfg.Storage.OutputDir == "" {
		return fmt.Errorf("storage.output_dir must not be empty")
	}
	if cfg.Storage.CombinedFile == "" {
		return fmt.Errorf("storage.combined_file must not be empty")
	}

	if cfg.Import.OutputPath == "" {
		return fmt.Errorf("import.output_path must not be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidateURL checks if a URL string is usable as a crawl target.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
