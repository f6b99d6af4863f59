package extract

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/vstakis/go-scrape-wines/models"
	"github.com/vstakis/go-scrape-wines/parser"
)

// priceSelectors are common price containers, tried in order; the first
// selector with a match whose text parses wins.
var priceSelectors = []string{
	".price",
	".special-price",
	".regular-price",
	"span.amount",
	".product-price",
	".current-price",
}

// productLD mirrors the subset of a schema.org Product block the extractor
// reads. Offers stays raw because shops emit both a single offer object and
// an offer array.
type productLD struct {
	Type   string          `json:"@type"`
	Name   string          `json:"name"`
	Image  json.RawMessage `json:"image"`
	Offers json.RawMessage `json:"offers"`
}

type offerLD struct {
	Price any `json:"price"`
}

// Product builds a best-effort wine record from a detail page.
//
// JSON-LD blocks are scanned first, in document order; the first Product
// block carrying both a name and a positive price is authoritative and later
// blocks are ignored, since many shops embed a site-wide block before the
// product-specific one. Fields still missing afterwards fall back to HTML
// heuristics, independently per field. Nothing here errors: malformed markup
// leaves the sentinel values in place and the caller validates.
func Product(doc *goquery.Document, pageURL, vendor string) *models.Wine {
	wine := &models.Wine{
		URL:       pageURL,
		Vendor:    vendor,
		ScrapedAt: time.Now(),
	}

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		block, ok := parseProductBlock(s.Text())
		if !ok {
			return true
		}
		// Partial blocks still contribute: a name-only block suppresses the
		// heading heuristic, exactly as the offers-only case keeps scanning.
		wine.Name = block.Name
		wine.ImageURL = firstImage(block.Image)
		wine.Price = offerPrice(block.Offers)
		return !(wine.Name != "" && wine.Price > 0)
	})
	if wine.Name != "" && wine.Price > 0 {
		return wine
	}

	if wine.Name == "" {
		if h1 := doc.Find("h1").First(); h1.Length() > 0 {
			wine.Name = parser.CleanText(h1.Text())
		}
	}
	if wine.Price <= 0 {
		for _, selector := range priceSelectors {
			el := doc.Find(selector).First()
			if el.Length() == 0 {
				continue
			}
			if value, ok := parser.ParsePrice(el.Text()); ok {
				wine.Price = value
				break
			}
		}
	}
	return wine
}

// parseProductBlock decodes one JSON-LD script body. Invalid JSON or a
// non-Product type means "skip this block", never an error.
func parseProductBlock(raw string) (productLD, bool) {
	var top json.RawMessage
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return productLD{}, false
	}

	var list []json.RawMessage
	if err := json.Unmarshal(top, &list); err == nil {
		if len(list) == 0 {
			return productLD{}, false
		}
		top = list[0]
	}

	var block productLD
	if err := json.Unmarshal(top, &block); err != nil {
		return productLD{}, false
	}
	if block.Type != "Product" {
		return productLD{}, false
	}
	return block, true
}

// offerPrice reads offers.price from a single offer object or the first
// element of an offer array. Prices arrive as JSON numbers or numeric
// strings; anything else counts as not found.
func offerPrice(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var single offerLD
	if err := json.Unmarshal(raw, &single); err == nil {
		if value, ok := toFloat(single.Price); ok {
			return value
		}
	}

	var many []offerLD
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		if value, ok := toFloat(many[0].Price); ok {
			return value
		}
	}
	return 0
}

// firstImage accepts the image field as a bare string or an array of strings.
func firstImage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}

	var many []any
	if err := json.Unmarshal(raw, &many); err == nil {
		for _, item := range many {
			if s, ok := item.(string); ok {
				return s
			}
		}
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
