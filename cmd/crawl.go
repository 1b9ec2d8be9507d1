package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grobinson/webminer/internal/api"
	"github.com/grobinson/webminer/internal/crawler"
)

// newCrawlCmd creates and configures the 'crawl' subcommand.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Download a site's pages into the output directory",
		Long: `Starts a concurrent crawl at the given URL, following links that
stay on the same origin and saving each page as an HTML file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyCrawlFlags(cmd)
			_, err := runCrawl(cmd.Context(), args[0])
			return err
		},
	}
	addCrawlFlags(cmd)
	return cmd
}

// crawlFlagValues holds flag values until the loaded config can absorb
// them. Config loading runs after flag parsing, so the flags the user
// actually set are merged in explicitly.
type crawlFlagValues struct {
	maxPages   int
	output     string
	threads    int
	skipVerify bool
	metrics    bool
}

var crawlFlags crawlFlagValues

func addCrawlFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&crawlFlags.maxPages, "max-pages", "m", -1, "maximum pages to download (-1 for unbounded)")
	cmd.Flags().StringVarP(&crawlFlags.output, "output", "o", "output", "directory for downloaded pages")
	cmd.Flags().IntVarP(&crawlFlags.threads, "concurrent-threads", "t", 5, "number of crawl workers")
	cmd.Flags().BoolVar(&crawlFlags.skipVerify, "skip-verify", false, "skip TLS certificate verification")
	cmd.Flags().BoolVar(&crawlFlags.metrics, "metrics", false, "serve /healthz and /metrics during the crawl")
}

func applyCrawlFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("max-pages") {
		cfg.Crawl.MaxPages = crawlFlags.maxPages
	}
	if cmd.Flags().Changed("output") {
		cfg.Crawl.OutputDir = crawlFlags.output
	}
	if cmd.Flags().Changed("concurrent-threads") {
		cfg.Crawl.Threads = crawlFlags.threads
	}
	if cmd.Flags().Changed("skip-verify") {
		cfg.Crawl.SkipVerify = crawlFlags.skipVerify
	}
	if cmd.Flags().Changed("metrics") {
		cfg.Metrics.Enabled = crawlFlags.metrics
	}
}

// runCrawl executes a crawl with the active configuration and returns
// the directory the pages landed in.
func runCrawl(ctx context.Context, seedURL string) (string, error) {
	runID := uuid.NewString()
	log := logger.With(zap.String("run_id", runID), zap.String("seed", seedURL))

	if cfg.Metrics.Enabled {
		server := api.NewServer(cfg.Metrics.Addr, log)
		server.Start()
		defer func() {
			if err := server.Shutdown(ctx); err != nil {
				log.Warn("debug server shutdown failed", zap.Error(err))
			}
		}()
	}

	sink, err := crawler.NewFileSystemSink(cfg.Crawl.OutputDir, log)
	if err != nil {
		return "", fmt.Errorf("init sink: %w", err)
	}

	opts := crawler.Options{
		MaxPages:   cfg.Crawl.MaxPages,
		OutputDir:  cfg.Crawl.OutputDir,
		Threads:    cfg.Crawl.Threads,
		UserAgent:  cfg.Crawl.UserAgent,
		Timeout:    cfg.FetchTimeout(),
		SkipVerify: cfg.Crawl.SkipVerify,
	}
	fetcher := crawler.NewHTTPFetcher(opts, crawler.NewExponentialRetryPolicy())

	engine, err := crawler.NewEngine(seedURL, opts, fetcher, sink, log)
	if err != nil {
		return "", fmt.Errorf("init crawler: %w", err)
	}

	log.Info("crawl starting", zap.Int("threads", opts.Threads), zap.Int("max_pages", opts.MaxPages))
	pages, err := engine.Crawl(ctx)
	if err != nil {
		return "", fmt.Errorf("crawl: %w", err)
	}
	log.Info("crawl finished", zap.Int("pages", pages), zap.String("output", cfg.Crawl.OutputDir))
	return cfg.Crawl.OutputDir, nil
}
