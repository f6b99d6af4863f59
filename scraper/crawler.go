// Package scraper drives category crawls and aggregates batch runs.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/vstakis/go-scrape-wines/config"
	"github.com/vstakis/go-scrape-wines/extract"
	"github.com/vstakis/go-scrape-wines/fetcher"
	"github.com/vstakis/go-scrape-wines/models"
	"github.com/vstakis/go-scrape-wines/parser"
	"github.com/vstakis/go-scrape-wines/store"
)

// Crawler walks category listing pages, extracts product records from the
// detail pages they link to, and persists the valid ones. Categories are
// processed strictly one at a time; within a category, detail pages are
// fetched sequentially with a jitter delay between requests.
type Crawler struct {
	cfg     *config.Config
	client  *fetcher.Client
	store   store.Store
	Metrics *Metrics

	mu           sync.Mutex
	errorsByType map[string]int
}

// New builds a Crawler on top of a fetch client and a store.
func New(cfg *config.Config, client *fetcher.Client, st store.Store) *Crawler {
	return &Crawler{
		cfg:          cfg,
		client:       client,
		store:        st,
		Metrics:      NewMetrics(),
		errorsByType: make(map[string]int),
	}
}

// CrawlCategory crawls one listing page and returns the valid records found.
// Failures at any level are logged and absorbed: a broken link skips that
// link, a broken listing yields an empty result, and the batch moves on.
func (c *Crawler) CrawlCategory(ctx context.Context, startURL string) []*models.Wine {
	base, err := url.Parse(startURL)
	if err != nil || base.Host == "" {
		slog.Error("invalid category url", slog.String("url", startURL), slog.Any("error", err))
		c.recordError(fmt.Errorf("invalid url %q", startURL))
		return nil
	}
	vendor := parser.Vendor(base.Host)

	slog.Info("parsing category", slog.String("url", startURL), slog.String("vendor", vendor))
	c.Metrics.IncCategories()

	doc, err := c.fetchDocument(ctx, startURL, c.cfg.ListingTimeout, "listing")
	if err != nil {
		slog.Error("category fetch failed", slog.String("url", startURL), slog.Any("error", err))
		c.recordError(err)
		return nil
	}

	links := extract.ProductLinks(doc, base, c.cfg.MaxLinksPerPage)
	slog.Info("candidate product links", slog.Int("count", len(links)), slog.String("vendor", vendor))
	c.Metrics.AddLinksFound(len(links))

	var wines []*models.Wine
	for _, link := range links {
		if err := c.sleepJitter(ctx); err != nil {
			break
		}

		wine, err := c.fetchProduct(ctx, link, vendor, base.Host)
		if err != nil {
			slog.Warn("product skipped",
				slog.String("url", link),
				slog.String("category", errorTypeLabel(err)),
				slog.Any("error", err),
			)
			c.recordError(err)
			continue
		}

		if err := parser.ValidateWine(wine); err != nil {
			slog.Debug("record rejected", slog.String("url", link), slog.Any("reason", err))
			c.Metrics.IncRejected("invalid_record")
			continue
		}

		wines = append(wines, wine)
		c.Metrics.IncSaved()
		if err := c.store.Save(ctx, wine); err != nil {
			slog.Error("save failed", slog.String("url", link), slog.Any("error", err))
			c.Metrics.IncError("store")
		}
	}
	return wines
}

// fetchDocument gets a page and parses it, folding fetch and HTTP status
// failures into the error taxonomy.
func (c *Crawler) fetchDocument(ctx context.Context, pageURL string, timeout time.Duration, phase string) (*goquery.Document, error) {
	c.Metrics.IncRequest(phase)
	start := time.Now()
	status, body, err := c.client.Get(ctx, pageURL, timeout)
	c.Metrics.ObserveDuration(time.Since(start))

	if err != nil {
		return nil, classifyError(err, status)
	}
	if status != http.StatusOK {
		return nil, classifyError(nil, status)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

func (c *Crawler) fetchProduct(ctx context.Context, link, vendor, shop string) (*models.Wine, error) {
	doc, err := c.fetchDocument(ctx, link, c.cfg.DetailTimeout, "detail")
	if err != nil {
		return nil, err
	}
	wine := extract.Product(doc, link, vendor)
	wine.ShopName = shop
	return wine, nil
}

// sleepJitter throttles detail-page requests with a randomized delay.
func (c *Crawler) sleepJitter(ctx context.Context) error {
	max := c.cfg.DelayMax
	if max <= 0 {
		return ctx.Err()
	}
	delay := c.cfg.DelayMin
	if max > delay {
		delay += rand.N(max - delay)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (c *Crawler) recordError(err error) {
	label := errorTypeLabel(err)
	c.Metrics.IncError(label)

	c.mu.Lock()
	c.errorsByType[label]++
	c.mu.Unlock()
}

func (c *Crawler) snapshotErrors() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.errorsByType))
	for k, v := range c.errorsByType {
		out[k] = v
	}
	return out
}
