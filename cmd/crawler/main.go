package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vstakis/go-scrape-wines/config"
	"github.com/vstakis/go-scrape-wines/fetcher"
	"github.com/vstakis/go-scrape-wines/models"
	"github.com/vstakis/go-scrape-wines/scraper"
	"github.com/vstakis/go-scrape-wines/store"
)

func main() {
	defaults := config.DefaultConfig()
	categoriesDefault := defaults.CategoriesFile
	if value, ok := config.EnvString("WINES_CONFIG"); ok {
		categoriesDefault = value
	}
	outputDefault := defaults.OutputFile
	if value, ok := config.EnvString("WINES_OUTPUT"); ok {
		outputDefault = value
	}
	databaseDefault := ""
	if value, ok := config.EnvString("WINES_DATABASE_URL"); ok {
		databaseDefault = value
	}
	metricsDefault := ""
	if value, ok := config.EnvString("WINES_METRICS_ADDR"); ok {
		metricsDefault = value
	}
	maxLinksDefault := defaults.MaxLinksPerPage
	if value, ok, err := config.EnvInt("WINES_MAX_LINKS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid WINES_MAX_LINKS: %v\n", err)
		os.Exit(1)
	} else if ok {
		maxLinksDefault = value
	}

	categoriesFile := flag.String("config", categoriesDefault, "Categories file: one listing URL per line, # comments")
	outputFile := flag.String("output", outputDefault, "Output file path (ignored when -database-url is set)")
	outputFormat := flag.String("format", defaults.OutputFormat, "Output format: csv, jsonl, or dual")
	databaseURL := flag.String("database-url", databaseDefault, "Postgres DSN; overrides file output")
	maxLinks := flag.Int("max-links", maxLinksDefault, "Maximum product links per listing page")
	delayMin := flag.Duration("delay-min", defaults.DelayMin, "Minimum delay before each detail-page fetch")
	delayMax := flag.Duration("delay-max", defaults.DelayMax, "Maximum delay before each detail-page fetch")
	listingTimeout := flag.Duration("listing-timeout", defaults.ListingTimeout, "Timeout for listing-page fetches")
	detailTimeout := flag.Duration("detail-timeout", defaults.DetailTimeout, "Timeout for detail-page fetches")
	maxRetries := flag.Int("max-retries", defaults.MaxRetries, "Maximum retry attempts per request")
	retryBackoff := flag.Duration("retry-backoff", defaults.RetryBackoff, "Initial retry backoff")
	retryBackoffMax := flag.Duration("retry-backoff-max", defaults.RetryBackoffMax, "Maximum retry backoff")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	tlsVerify := flag.Bool("tls-verify", defaults.TLSVerify, "Verify TLS certificates")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaults
	cfg.CategoriesFile = *categoriesFile
	cfg.OutputFile = *outputFile
	cfg.OutputFormat = strings.ToLower(*outputFormat)
	cfg.DatabaseURL = *databaseURL
	cfg.MaxLinksPerPage = *maxLinks
	cfg.DelayMin = *delayMin
	cfg.DelayMax = *delayMax
	cfg.ListingTimeout = *listingTimeout
	cfg.DetailTimeout = *detailTimeout
	cfg.MaxRetries = *maxRetries
	cfg.RetryBackoff = *retryBackoff
	cfg.RetryBackoffMax = *retryBackoffMax
	cfg.MetricsAddr = *metricsAddr
	cfg.TLSVerify = *tlsVerify
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, finishing current page")
	}()

	st, err := buildStore(ctx, cfg)
	if err != nil {
		slog.Error("creating store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("close store", slog.Any("error", err))
		}
	}()

	client := fetcher.New(fetcher.Config{
		UserAgent:       cfg.UserAgent,
		MaxRetries:      cfg.MaxRetries,
		RetryBackoff:    cfg.RetryBackoff,
		RetryBackoffMax: cfg.RetryBackoffMax,
		RetryStatuses:   cfg.RetryStatuses,
		TLSVerify:       cfg.TLSVerify,
	})

	crawler := scraper.New(cfg, client, st)

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(crawler.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	result, err := crawler.CrawlCategories(ctx, cfg.CategoriesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "categories file not usable: %v\n", err)
		os.Exit(1)
	}

	if err := st.Validate(); err != nil {
		slog.Warn("store validation", slog.Any("error", err))
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result)
}

// buildStore picks the persistence backend: postgres when a DSN is given,
// file writers otherwise, and a discard store as the last resort. Every
// backend sits behind a bounded URL deduper.
func buildStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	var (
		backend store.Store
		err     error
	)
	switch {
	case cfg.DatabaseURL != "":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		backend, err = store.NewPostgres(connectCtx, cfg.DatabaseURL)
		if err != nil {
			slog.Warn("postgres unavailable, records will be discarded", slog.Any("error", err))
			backend, err = store.Noop{}, nil
		}
	case cfg.OutputFile != "":
		backend, err = buildWriter(cfg.OutputFormat, cfg.OutputFile)
	default:
		backend = store.Noop{}
	}
	if err != nil {
		return nil, err
	}
	return store.NewDeduper(backend, cfg.DedupeMaxSize)
}

func buildWriter(format, path string) (store.Store, error) {
	switch format {
	case "csv":
		return store.NewCSV(path)
	case "jsonl":
		return store.NewJSONL(path)
	case "dual":
		csvStore, err := store.NewCSV(path)
		if err != nil {
			return nil, err
		}
		jsonPath := strings.TrimSuffix(path, ".csv") + ".jsonl"
		jsonStore, err := store.NewJSONL(jsonPath)
		if err != nil {
			csvStore.Close()
			return nil, err
		}
		return store.NewMulti(csvStore, jsonStore), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func printSummary(result *models.RunResult) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Crawl complete")
	fmt.Printf("  Run ID:        %s\n", result.RunID)
	fmt.Printf("  Categories:    %d\n", result.Categories)
	fmt.Printf("  Records saved: %d\n", result.TotalSaved)
	if len(result.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", result.ErrorsByType)
	}
	fmt.Printf("  Duration:      %v\n", result.EndTime.Sub(result.StartTime).Round(time.Millisecond))
	fmt.Printf("  Store:         %s\n", result.StoreLocation)
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
