package store

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vstakis/go-scrape-wines/models"
)

// Deduper drops records whose URL was already saved this run, so a product
// linked from two categories is written once. The seen set is bounded; on a
// very long run old URLs may be re-saved, which the backends absorb by
// replacing on key.
type Deduper struct {
	next Store
	seen *lru.Cache[string, struct{}]
}

// NewDeduper wraps next with a bounded seen-URL filter.
func NewDeduper(next Store, maxSize int) (*Deduper, error) {
	cache, err := lru.New[string, struct{}](maxSize)
	if err != nil {
		return nil, fmt.Errorf("dedupe cache: %w", err)
	}
	return &Deduper{next: next, seen: cache}, nil
}

// Save forwards unseen URLs and silently drops repeats. A URL only counts as
// seen once the wrapped store accepted it.
func (d *Deduper) Save(ctx context.Context, wine *models.Wine) error {
	if _, ok := d.seen.Get(wine.URL); ok {
		return nil
	}
	if err := d.next.Save(ctx, wine); err != nil {
		return err
	}
	d.seen.Add(wine.URL, struct{}{})
	return nil
}

// Location reports the wrapped store's location.
func (d *Deduper) Location() string { return d.next.Location() }

// Validate delegates to the wrapped store.
func (d *Deduper) Validate() error { return d.next.Validate() }

// Close delegates to the wrapped store.
func (d *Deduper) Close() error { return d.next.Close() }
