// Package parser provides field-level cleanup and validation for scraped records.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vstakis/go-scrape-wines/models"
)

var priceToken = regexp.MustCompile(`\d+\.?\d*`)

// ValidateWine ensures a record is fit for persistence: a non-empty name and a
// strictly positive price. Anything else stays at its sentinel value and must
// be discarded by the caller.
func ValidateWine(w *models.Wine) error {
	if w == nil {
		return fmt.Errorf("wine is nil")
	}
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("wine missing name for %s", w.URL)
	}
	if w.Price <= 0 {
		return fmt.Errorf("wine missing price for %s", w.Name)
	}
	return nil
}

// CleanText collapses every run of whitespace, newlines included, into a
// single space and trims the ends.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Vendor derives the vendor identifier from a URL host by stripping a leading
// "www.". The raw host is kept separately on the record as the shop name.
func Vendor(host string) string {
	return strings.TrimPrefix(host, "www.")
}

// ParsePrice extracts a price value from raw element text: the euro sign is
// stripped, a decimal comma becomes a decimal point, and the first numeric
// token is parsed. Thousands separators are not removed, so "1.234,56 €"
// yields 1.234; changing that would silently rewrite prices already stored.
func ParsePrice(text string) (float64, bool) {
	s := strings.ReplaceAll(text, "€", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)

	token := priceToken.FindString(s)
	if token == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
