// Package store persists wine records through interchangeable backends.
package store

import (
	"context"

	"github.com/vstakis/go-scrape-wines/models"
)

// Store is the persistence boundary for scraped records. Saves are
// single-record and synchronous; implementations must tolerate seeing the
// same URL twice across runs (replace by key or skip).
type Store interface {
	Save(ctx context.Context, wine *models.Wine) error
	Location() string
	Validate() error
	Close() error
}

// Noop discards every record. It stands in when no backend is configured so
// a crawl still runs end to end.
type Noop struct{}

// Save discards the record.
func (Noop) Save(context.Context, *models.Wine) error { return nil }

// Location identifies the sink for user-facing reporting.
func (Noop) Location() string { return "discard" }

// Validate always passes.
func (Noop) Validate() error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }
