package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("VITRINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("vitrine")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".vitrine"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("site.base_url", cfg.Site.BaseURL)
	v.SetDefault("site.host", cfg.Site.Host)
	v.SetDefault("site.listing_templates", cfg.Site.ListingTemplates)

	v.SetDefault("crawler.limit", cfg.Crawler.Limit)
	v.SetDefault("crawler.delay_base", cfg.Crawler.DelayBase)
	v.SetDefault("crawler.delay_jitter", cfg.Crawler.DelayJitter)

	v.SetDefault("fetcher.user_agent", cfg.Fetcher.UserAgent)
	v.SetDefault("fetcher.timeout", cfg.Fetcher.Timeout)
	v.SetDefault("fetcher.image_timeout", cfg.Fetcher.ImageTimeout)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)

	v.SetDefault("mirror.enabled", cfg.Mirror.Enabled)
	v.SetDefault("mirror.dir", cfg.Mirror.Dir)
	v.SetDefault("mirror.public_prefix", cfg.Mirror.PublicPrefix)

	v.SetDefault("storage.output_dir", cfg.Storage.OutputDir)
	v.SetDefault("storage.combined_file", cfg.Storage.CombinedFile)

	v.SetDefault("import.output_path", cfg.Import.OutputPath)
	v.SetDefault("import.seed", cfg.Import.Seed)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
