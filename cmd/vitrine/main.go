package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/julesvx/vitrine/internal/config"
	"github.com/julesvx/vitrine/internal/crawler"
	"github.com/julesvx/vitrine/internal/fetcher"
	"github.com/julesvx/vitrine/internal/importer"
	"github.com/julesvx/vitrine/internal/mirror"
	"github.com/julesvx/vitrine/internal/store"
)

var (
	cfgFile      string
	verbose      bool
	limit        int
	mirrorImages bool
	outputDir    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vitrine",
		Short: "Storefront product ingestion pipeline",
		Long: `vitrine crawls an e-commerce site, extracts product records from static
HTML, and normalizes them into the storefront's canonical catalog.

Commands:
  crawl     scrape a single category into per-product JSON files
  campaign  scrape a list of categories and write a combined dataset
  import    regenerate the catalog data file from the combined dataset`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(crawlCmd())
	rootCmd.AddCommand(campaignCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// crawlCmd creates the "crawl" subcommand.
func crawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [category]",
		Short: "Crawl one category keyword or listing URL",
		Args:  cobra.ExactArgs(1),
		RunE:  runCrawl,
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum products to accept (0 = config default)")
	cmd.Flags().BoolVar(&mirrorImages, "download-images", false, "mirror product images to local storage")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides config)")

	return cmd
}

func runCrawl(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, st, c, err := buildCrawler(logger)
	if err != nil {
		return err
	}

	ctx := signalContext(logger)

	n := limit
	if n <= 0 {
		n = cfg.Crawler.Limit
	}

	start := time.Now()
	recs, err := c.Crawl(ctx, args[0], n)
	if err != nil {
		return fmt.Errorf("crawl category %q: %w", args[0], err)
	}

	fmt.Printf("Category %s: saved %d products to %s (in %s)\n",
		args[0], len(recs), st.Dir(), time.Since(start).Round(time.Millisecond))
	return nil
}

// campaignCmd creates the "campaign" subcommand.
func campaignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign [category]...",
		Short: "Crawl a list of categories and write the combined dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCampaign,
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum products per category (0 = config default)")
	cmd.Flags().BoolVar(&mirrorImages, "download-images", false, "mirror product images to local storage")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides config)")

	return cmd
}

func runCampaign(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, st, c, err := buildCrawler(logger)
	if err != nil {
		return err
	}

	ctx := signalContext(logger)

	n := limit
	if n <= 0 {
		n = cfg.Crawler.Limit
	}

	logger.Info("starting campaign", "categories", args, "limit", n, "mirror", mirrorImages)

	start := time.Now()
	campaign := crawler.NewCampaign(c, st, logger)
	combined, err := campaign.Run(ctx, args, n)
	if err != nil {
		return fmt.Errorf("run campaign: %w", err)
	}

	fmt.Printf("Saved combined %d products to %s (in %s)\n",
		len(combined), cfg.CombinedPath(), time.Since(start).Round(time.Millisecond))
	return nil
}

// importCmd creates the "import" subcommand.
func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Regenerate the catalog data file from the combined dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			st, err := store.New(cfg.Storage.OutputDir, cfg.Storage.CombinedFile, logger)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}

			if err := importer.Run(st, &cfg.Import, logger); err != nil {
				return fmt.Errorf("import: %w", err)
			}

			fmt.Printf("Wrote %s\n", cfg.Import.OutputPath)
			return nil
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vitrine %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("Site:\n")
			fmt.Printf("  Base URL:          %s\n", cfg.Site.BaseURL)
			fmt.Printf("  Host:              %s\n", cfg.Site.Host)
			fmt.Printf("  Listing Templates: %d configured\n", len(cfg.Site.ListingTemplates))
			fmt.Printf("\nCrawler:\n")
			fmt.Printf("  Limit:             %d\n", cfg.Crawler.Limit)
			fmt.Printf("  Delay:             %s (+ up to %s jitter)\n", cfg.Crawler.DelayBase, cfg.Crawler.DelayJitter)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Timeout:           %s\n", cfg.Fetcher.Timeout)
			fmt.Printf("  Image Timeout:     %s\n", cfg.Fetcher.ImageTimeout)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("\nMirror:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Mirror.Enabled)
			fmt.Printf("  Dir:               %s\n", cfg.Mirror.Dir)
			fmt.Printf("  Public Prefix:     %s\n", cfg.Mirror.PublicPrefix)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Output Dir:        %s\n", cfg.Storage.OutputDir)
			fmt.Printf("  Combined File:     %s\n", cfg.Storage.CombinedFile)
			fmt.Printf("\nImport:\n")
			fmt.Printf("  Output Path:       %s\n", cfg.Import.OutputPath)
			fmt.Printf("  Seed:              %d\n", cfg.Import.Seed)
			return nil
		},
	}
}

// buildCrawler wires a category crawler from config and CLI overrides.
func buildCrawler(logger *slog.Logger) (*config.Config, *store.Store, *crawler.CategoryCrawler, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	if outputDir != "" {
		cfg.Storage.OutputDir = outputDir
	}
	if mirrorImages {
		cfg.Mirror.Enabled = true
	}

	st, err := store.New(cfg.Storage.OutputDir, cfg.Storage.CombinedFile, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}

	client := fetcher.New(cfg, logger)

	var m crawler.ImageMirrorer
	if cfg.Mirror.Enabled {
		m = mirror.New(client, cfg.Mirror.Dir, cfg.Mirror.PublicPrefix, logger)
	}

	c := crawler.NewCategoryCrawler(client, st, m, cfg.Site, crawler.Policy{
		DelayBase:   cfg.Crawler.DelayBase,
		DelayJitter: cfg.Crawler.DelayJitter,
	}, logger)

	return cfg, st, c, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM. Per-record
// files already flushed to disk stay valid across an interrupted run.
func signalContext(logger *slog.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, stopping after current page", "signal", sig)
		cancel()
	}()
	return ctx
}

// setupLogger creates a structured logger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
