package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fightstats.yaml")
	yaml := `
scraper:
  letters: "ab"
  event_limit: 5
  concurrency: 2
fetcher:
  request_timeout: 10s
  rate_limit: 0.5
storage:
  type: "csv, sqlite"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Scraper.Letters != "ab" || cfg.Scraper.EventLimit != 5 || cfg.Scraper.Concurrency != 2 {
		t.Errorf("scraper overrides not applied: %+v", cfg.Scraper)
	}
	if cfg.Fetcher.RequestTimeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.Fetcher.RequestTimeout)
	}
	if cfg.Fetcher.RateLimit != 0.5 {
		t.Errorf("expected rate limit 0.5, got %v", cfg.Fetcher.RateLimit)
	}

	// Keys absent from the file keep their defaults.
	if cfg.Scraper.RankingsURL != DefaultConfig().Scraper.RankingsURL {
		t.Errorf("expected default rankings url, got %q", cfg.Scraper.RankingsURL)
	}
	if !cfg.Scraper.SkipMalformed {
		t.Error("expected skip_malformed default to survive")
	}

	got := cfg.Storage.Types()
	if len(got) != 2 || got[0] != "csv" || got[1] != "sqlite" {
		t.Errorf("expected [csv sqlite], got %v", got)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FIGHTSTATS_SCRAPER_CONCURRENCY", "8")
	t.Setenv("FIGHTSTATS_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scraper.Concurrency != 8 {
		t.Errorf("expected concurrency 8 from env, got %d", cfg.Scraper.Concurrency)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level from env, got %q", cfg.Logging.Level)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero concurrency", func(c *Config) { c.Scraper.Concurrency = 0 }, "scraper.concurrency"},
		{"negative limit", func(c *Config) { c.Scraper.EventLimit = -1 }, "scraper.event_limit"},
		{"no letters", func(c *Config) { c.Scraper.Letters = " " }, "scraper.letters"},
		{"index url without verb", func(c *Config) { c.Scraper.FighterIndexURL = "http://ufcstats.com/statistics/fighters" }, "exactly one %s"},
		{"bad rankings url", func(c *Config) { c.Scraper.RankingsURL = "ftp://ufc.com" }, "scraper.rankings_url"},
		{"bad fetcher", func(c *Config) { c.Fetcher.Type = "curl" }, "fetcher.type"},
		{"zero timeout", func(c *Config) { c.Fetcher.RequestTimeout = 0 }, "fetcher.request_timeout"},
		{"rate without burst", func(c *Config) { c.Fetcher.Burst = 0 }, "fetcher.burst"},
		{"unknown sink", func(c *Config) { c.Storage.Type = "csv,parquet" }, "parquet"},
		{"empty sink list", func(c *Config) { c.Storage.Type = " , " }, "at least one sink"},
		{"mongo without uri", func(c *Config) { c.Storage.Type = "mongodb" }, "mongo_uri"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad metrics port", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Port = 0 }, "metrics.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("http://ufcstats.com/statistics/events/completed"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateURL("/relative"); err == nil {
		t.Error("expected error for relative URL")
	}
}
