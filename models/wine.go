// Package models defines data structures for the crawler.
package models

import "time"

// Wine represents a single product record scraped from a shop detail page.
// Name and Price use sentinel "not found" values (empty string, zero) until
// extraction fills them in; parser.ValidateWine decides whether a record may
// be persisted.
type Wine struct {
	Name      string    `csv:"name" json:"name"`
	Price     float64   `csv:"price" json:"price"`
	Vendor    string    `csv:"vendor" json:"vendor"`
	ShopName  string    `csv:"shop_name" json:"shop_name"`
	ImageURL  string    `csv:"image_url" json:"image_url"`
	URL       string    `csv:"url" json:"url"`
	ScrapedAt time.Time `csv:"scraped_at" json:"scraped_at"`
}

// RunResult holds the overall outcome of a batch run over a categories file.
type RunResult struct {
	RunID         string
	Categories    int
	TotalSaved    int
	ErrorsByType  map[string]int
	StartTime     time.Time
	EndTime       time.Time
	StoreLocation string
}
