// Package config holds crawler configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the knobs for a batch crawl run.
type Config struct {
	CategoriesFile  string
	MaxLinksPerPage int
	DelayMin        time.Duration
	DelayMax        time.Duration
	ListingTimeout  time.Duration
	DetailTimeout   time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration
	RetryBackoffMax time.Duration
	RetryStatuses   []int
	UserAgent       string
	TLSVerify       bool
	OutputFile      string
	OutputFormat    string // csv, jsonl, or dual
	DatabaseURL     string
	MetricsAddr     string
	DedupeMaxSize   int
	Verbose         bool
}

// DefaultConfig returns conservative defaults tuned for small shop sites.
func DefaultConfig() *Config {
	return &Config{
		CategoriesFile:  "config/shop_categories.txt",
		MaxLinksPerPage: 50,
		DelayMin:        500 * time.Millisecond,
		DelayMax:        time.Second,
		ListingTimeout:  15 * time.Second,
		DetailTimeout:   10 * time.Second,
		MaxRetries:      3,
		RetryBackoff:    time.Second,
		RetryBackoffMax: 8 * time.Second,
		RetryStatuses:   []int{500, 502, 503, 504},
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		TLSVerify:       false,
		OutputFile:      "output/wines.csv",
		OutputFormat:    "csv",
		DedupeMaxSize:   10000,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.CategoriesFile == "" {
		return fmt.Errorf("categories file cannot be empty")
	}
	if c.MaxLinksPerPage <= 0 {
		return fmt.Errorf("max links per page must be positive")
	}
	if c.DelayMin < 0 || c.DelayMax < 0 {
		return fmt.Errorf("delays cannot be negative")
	}
	if c.DelayMax > 0 && c.DelayMin > c.DelayMax {
		return fmt.Errorf("delay min (%s) cannot exceed delay max (%s)", c.DelayMin, c.DelayMax)
	}
	if c.ListingTimeout <= 0 || c.DetailTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.RetryBackoffMax > 0 && c.RetryBackoff > c.RetryBackoffMax {
		return fmt.Errorf("retry backoff (%s) cannot exceed retry backoff max (%s)", c.RetryBackoff, c.RetryBackoffMax)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.DatabaseURL == "" {
		if c.OutputFile == "" {
			return fmt.Errorf("output file cannot be empty")
		}
		if c.OutputFormat != "csv" && c.OutputFormat != "jsonl" && c.OutputFormat != "dual" {
			return fmt.Errorf("output format must be csv, jsonl, or dual")
		}
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}
	return nil
}

// EnvString reads a string environment override.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer environment override.
func EnvInt(key string) (int, bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return value, true, nil
}
