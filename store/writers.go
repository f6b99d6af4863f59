package store

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/vstakis/go-scrape-wines/models"
)

var csvHeader = []string{"name", "price", "vendor", "shop_name", "image_url", "url", "scraped_at"}

// CSV appends records to a CSV file, header row first.
type CSV struct {
	file   *os.File
	writer *csv.Writer
	path   string
	mu     sync.Mutex
}

// NewCSV creates the file, parent directories included, and writes the header.
func NewCSV(path string) (*CSV, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSV{file: f, writer: writer, path: path}, nil
}

// Save appends one record.
func (c *CSV) Save(_ context.Context, wine *models.Wine) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	record := []string{
		wine.Name,
		strconv.FormatFloat(wine.Price, 'f', 2, 64),
		wine.Vendor,
		wine.ShopName,
		wine.ImageURL,
		wine.URL,
		wine.ScrapedAt.Format(time.RFC3339),
	}
	if err := c.writer.Write(record); err != nil {
		return fmt.Errorf("write csv record: %w", err)
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return fmt.Errorf("flush csv record: %w", err)
	}
	return nil
}

// Location returns the output path.
func (c *CSV) Location() string { return c.path }

// Validate ensures the file is non-empty.
func (c *CSV) Validate() error {
	info, err := c.file.Stat()
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

// Close flushes and closes the file handle.
func (c *CSV) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return c.file.Close()
}

// JSONL appends newline-delimited JSON records.
type JSONL struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
	path    string
	mu      sync.Mutex
}

// NewJSONL creates the output file, parent directories included.
func NewJSONL(path string) (*JSONL, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create jsonl file: %w", err)
	}

	buffer := bufio.NewWriter(f)
	return &JSONL{
		file:    f,
		writer:  buffer,
		encoder: json.NewEncoder(buffer),
		path:    path,
	}, nil
}

// Save appends one record as a JSON line.
func (j *JSONL) Save(_ context.Context, wine *models.Wine) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.encoder.Encode(wine); err != nil {
		return fmt.Errorf("encode json record: %w", err)
	}
	if err := j.writer.Flush(); err != nil {
		return fmt.Errorf("flush json record: %w", err)
	}
	return nil
}

// Location returns the output path.
func (j *JSONL) Location() string { return j.path }

// Validate ensures the file has data.
func (j *JSONL) Validate() error {
	info, err := j.file.Stat()
	if err != nil {
		return fmt.Errorf("stat jsonl file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("jsonl file is empty")
	}
	return nil
}

// Close flushes buffers and closes the underlying file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return j.file.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
