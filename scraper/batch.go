package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vstakis/go-scrape-wines/models"
)

// CrawlCategories reads category URLs from a plain-text file (one per line,
// blank lines and #-comments ignored) and crawls each in order. A missing
// file is the one hard failure of a run; everything past that degrades to a
// partial result.
func (c *Crawler) CrawlCategories(ctx context.Context, path string) (*models.RunResult, error) {
	result := &models.RunResult{
		RunID:         uuid.NewString(),
		StartTime:     time.Now(),
		StoreLocation: c.store.Location(),
		ErrorsByType:  map[string]int{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.EndTime = time.Now()
		return result, fmt.Errorf("categories file %s: %w", path, err)
	}

	urls := categoryLines(data)
	slog.Info("categories loaded",
		slog.String("run_id", result.RunID),
		slog.Int("count", len(urls)),
		slog.String("file", path),
	)

	for i, categoryURL := range urls {
		slog.Info("processing category",
			slog.Int("index", i+1),
			slog.Int("total", len(urls)),
			slog.String("url", categoryURL),
		)
		wines := c.CrawlCategory(ctx, categoryURL)
		result.Categories++
		result.TotalSaved += len(wines)

		if ctx.Err() != nil {
			slog.Warn("run canceled", slog.String("run_id", result.RunID))
			break
		}
	}

	result.EndTime = time.Now()
	result.ErrorsByType = c.snapshotErrors()
	slog.Info("run complete",
		slog.String("run_id", result.RunID),
		slog.Int("categories", result.Categories),
		slog.Int("records", result.TotalSaved),
		slog.String("store", result.StoreLocation),
	)
	return result, nil
}

func categoryLines(data []byte) []string {
	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls
}
