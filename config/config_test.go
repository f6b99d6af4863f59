package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "empty categories file", mutate: func(c *Config) { c.CategoriesFile = "" }, want: "categories file"},
		{name: "zero max links", mutate: func(c *Config) { c.MaxLinksPerPage = 0 }, want: "max links"},
		{name: "negative delay", mutate: func(c *Config) { c.DelayMin = -time.Second }, want: "delays"},
		{name: "delay min above max", mutate: func(c *Config) { c.DelayMin = 2 * time.Second; c.DelayMax = time.Second }, want: "delay min"},
		{name: "zero timeout", mutate: func(c *Config) { c.ListingTimeout = 0 }, want: "timeouts"},
		{name: "negative retries", mutate: func(c *Config) { c.MaxRetries = -1 }, want: "max retries"},
		{name: "backoff above max", mutate: func(c *Config) { c.RetryBackoff = time.Minute; c.RetryBackoffMax = time.Second }, want: "retry backoff"},
		{name: "empty user agent", mutate: func(c *Config) { c.UserAgent = "" }, want: "user agent"},
		{name: "bad format", mutate: func(c *Config) { c.OutputFormat = "xml" }, want: "output format"},
		{name: "zero dedupe size", mutate: func(c *Config) { c.DedupeMaxSize = 0 }, want: "dedupe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestValidateSkipsFileChecksWithDatabase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DatabaseURL = "postgres://db.test/wines"
	cfg.OutputFile = ""
	cfg.OutputFormat = "xml"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("database-backed config invalid: %v", err)
	}
}

func TestEnvString(t *testing.T) {
	t.Setenv("WINES_TEST_STR", "value")
	if got, ok := EnvString("WINES_TEST_STR"); !ok || got != "value" {
		t.Fatalf("EnvString = (%q, %v)", got, ok)
	}
	if _, ok := EnvString("WINES_TEST_UNSET"); ok {
		t.Fatalf("unset variable must not report ok")
	}
	t.Setenv("WINES_TEST_EMPTY", "")
	if _, ok := EnvString("WINES_TEST_EMPTY"); ok {
		t.Fatalf("empty variable must not report ok")
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("WINES_TEST_INT", "42")
	got, ok, err := EnvInt("WINES_TEST_INT")
	if err != nil || !ok || got != 42 {
		t.Fatalf("EnvInt = (%d, %v, %v)", got, ok, err)
	}

	t.Setenv("WINES_TEST_INT", "not-a-number")
	if _, _, err := EnvInt("WINES_TEST_INT"); err == nil {
		t.Fatalf("expected parse error")
	}

	if _, ok, err := EnvInt("WINES_TEST_INT_UNSET"); ok || err != nil {
		t.Fatalf("unset variable must be silent, got (%v, %v)", ok, err)
	}
}
