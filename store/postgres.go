package store

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vstakis/go-scrape-wines/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS wines (
	url        TEXT PRIMARY KEY,
	vendor     TEXT NOT NULL,
	shop_name  TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL,
	price      NUMERIC(10,2) NOT NULL,
	image_url  TEXT NOT NULL DEFAULT '',
	scraped_at TIMESTAMPTZ NOT NULL
)`

const upsertSQL = `
INSERT INTO wines (url, vendor, shop_name, name, price, image_url, scraped_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (url) DO UPDATE SET
	vendor     = EXCLUDED.vendor,
	shop_name  = EXCLUDED.shop_name,
	name       = EXCLUDED.name,
	price      = EXCLUDED.price,
	image_url  = EXCLUDED.image_url,
	scraped_at = EXCLUDED.scraped_at`

// PgxPool is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// Postgres keeps records in a wines table keyed by URL, so re-crawling an
// unchanged shop replaces rows instead of accumulating duplicates.
type Postgres struct {
	pool     PgxPool
	location string
}

// NewPostgres connects, verifies the connection, and ensures the schema.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Postgres{pool: pool, location: redactDSN(dsn)}, nil
}

// NewPostgresWithPool wires an existing pool. Tests use it with a mock pool.
func NewPostgresWithPool(pool PgxPool, location string) *Postgres {
	return &Postgres{pool: pool, location: location}
}

// Save upserts one record by URL.
func (p *Postgres) Save(ctx context.Context, wine *models.Wine) error {
	_, err := p.pool.Exec(ctx, upsertSQL,
		wine.URL, wine.Vendor, wine.ShopName, wine.Name, wine.Price, wine.ImageURL, wine.ScrapedAt)
	if err != nil {
		return fmt.Errorf("save wine %s: %w", wine.URL, err)
	}
	return nil
}

// Location returns the DSN with credentials redacted.
func (p *Postgres) Location() string { return p.location }

// Validate pings the database.
func (p *Postgres) Validate() error { return p.pool.Ping(context.Background()) }

// Close releases the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func redactDSN(dsn string) string {
	parsed, err := url.Parse(dsn)
	if err != nil {
		return "postgres"
	}
	return parsed.Redacted()
}
