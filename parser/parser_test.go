package parser

import (
	"testing"

	"github.com/vstakis/go-scrape-wines/models"
)

func TestValidateWine(t *testing.T) {
	tests := []struct {
		name    string
		wine    *models.Wine
		wantErr bool
	}{
		{name: "nil", wine: nil, wantErr: true},
		{name: "valid", wine: &models.Wine{Name: "Reserve Red 2020", Price: 14.90}, wantErr: false},
		{name: "missing name", wine: &models.Wine{Price: 12.50}, wantErr: true},
		{name: "whitespace name", wine: &models.Wine{Name: "   ", Price: 12.50}, wantErr: true},
		{name: "zero price", wine: &models.Wine{Name: "Chardonnay", Price: 0}, wantErr: true},
		{name: "negative price", wine: &models.Wine{Name: "Chardonnay", Price: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWine(tt.wine)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateWine(%+v) error = %v, wantErr %v", tt.wine, err, tt.wantErr)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Reserve   Red\n\t2020  ", "Reserve Red 2020"},
		{"plain", "plain"},
		{"", ""},
		{"\n\n", ""},
	}

	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Fatalf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVendor(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"www.cava-example.gr", "cava-example.gr"},
		{"shop.example.com", "shop.example.com"},
		{"wwwshop.gr", "wwwshop.gr"},
	}

	for _, tt := range tests {
		if got := Vendor(tt.host); got != tt.want {
			t.Fatalf("Vendor(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
		ok   bool
	}{
		{name: "decimal comma with euro", in: "14,90 €", want: 14.90, ok: true},
		{name: "decimal point", in: "12.50", want: 12.50, ok: true},
		{name: "euro prefix", in: "€ 8,00", want: 8.00, ok: true},
		{name: "surrounding text", in: "Τιμή: 21,30 € με ΦΠΑ", want: 21.30, ok: true},
		{name: "integer", in: "15", want: 15, ok: true},
		{name: "no digits", in: "call for price", want: 0, ok: false},
		{name: "empty", in: "", want: 0, ok: false},
		// Thousands separators are deliberately not handled: the comma
		// becomes a decimal point and the first token wins.
		{name: "thousands separator misparse", in: "1.234,56 €", want: 1.234, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ParsePrice(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
