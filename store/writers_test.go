package store

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vstakis/go-scrape-wines/models"
)

func sampleWine() *models.Wine {
	return &models.Wine{
		Name:      "Assyrtiko 2022",
		Price:     18.5,
		Vendor:    "shop.test",
		ShopName:  "www.shop.test",
		ImageURL:  "/img/a.jpg",
		URL:       "http://www.shop.test/wines/a",
		ScrapedAt: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestCSVStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "wines.csv")

	cs, err := NewCSV(path)
	if err != nil {
		t.Fatalf("new csv: %v", err)
	}
	if err := cs.Save(context.Background(), sampleWine()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := cs.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cs.Location() != path {
		t.Fatalf("location = %q", cs.Location())
	}
	if err := cs.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header plus one record", len(rows))
	}
	if rows[1][0] != "Assyrtiko 2022" || rows[1][1] != "18.50" {
		t.Fatalf("record row = %v", rows[1])
	}
}

func TestJSONLStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wines.jsonl")

	js, err := NewJSONL(path)
	if err != nil {
		t.Fatalf("new jsonl: %v", err)
	}
	if err := js.Save(context.Background(), sampleWine()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := js.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := js.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var decoded models.Wine
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode line: %v", err)
	}
	if decoded.Name != "Assyrtiko 2022" || decoded.Price != 18.5 {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestMultiStoreFansOut(t *testing.T) {
	dir := t.TempDir()
	cs, err := NewCSV(filepath.Join(dir, "wines.csv"))
	if err != nil {
		t.Fatalf("new csv: %v", err)
	}
	js, err := NewJSONL(filepath.Join(dir, "wines.jsonl"))
	if err != nil {
		t.Fatalf("new jsonl: %v", err)
	}

	multi := NewMulti(cs, js)
	if err := multi.Save(context.Background(), sampleWine()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := multi.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := multi.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	for _, name := range []string{"wines.csv", "wines.jsonl"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
}

func TestNoopStore(t *testing.T) {
	var n Noop
	if err := n.Save(context.Background(), sampleWine()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := n.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if n.Location() != "discard" {
		t.Fatalf("location = %q", n.Location())
	}
}
