package store

import (
	"context"
	"errors"
	"strings"

	"github.com/vstakis/go-scrape-wines/models"
)

// Multi fans every save out to all wrapped stores.
type Multi struct {
	stores []Store
}

// NewMulti wraps the given stores.
func NewMulti(stores ...Store) *Multi {
	return &Multi{stores: stores}
}

// Save writes the record to every store and reports all failures.
func (m *Multi) Save(ctx context.Context, wine *models.Wine) error {
	var errs []error
	for _, s := range m.stores {
		if err := s.Save(ctx, wine); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Location joins the wrapped locations.
func (m *Multi) Location() string {
	locations := make([]string, 0, len(m.stores))
	for _, s := range m.stores {
		locations = append(locations, s.Location())
	}
	return strings.Join(locations, ", ")
}

// Validate checks every wrapped store.
func (m *Multi) Validate() error {
	var errs []error
	for _, s := range m.stores {
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every wrapped store.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.stores {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
