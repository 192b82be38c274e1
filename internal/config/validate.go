package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validStorageTypes = map[string]bool{
	"csv": true, "json": true, "jsonl": true, "sqlite": true, "mongodb": true,
}

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Scraper.Concurrency < 1 {
		return fmt.Errorf("scraper.concurrency must be >= 1, got %d", cfg.Scraper.Concurrency)
	}
	if cfg.Scraper.Concurrency > 64 {
		return fmt.Errorf("scraper.concurrency must be <= 64, got %d", cfg.Scraper.Concurrency)
	}
	if cfg.Scraper.EventLimit < 0 {
		return fmt.Errorf("scraper.event_limit must be >= 0, got %d", cfg.Scraper.EventLimit)
	}
	if strings.TrimSpace(cfg.Scraper.Letters) == "" {
		return fmt.Errorf("scraper.letters must not be empty")
	}
	if strings.Count(cfg.Scraper.FighterIndexURL, "%s") != 1 {
		return fmt.Errorf("scraper.fighter_index_url must contain exactly one %%s, got %q", cfg.Scraper.FighterIndexURL)
	}
	for name, raw := range map[string]string{
		"scraper.fighter_index_url": strings.Replace(cfg.Scraper.FighterIndexURL, "%s", "a", 1),
		"scraper.event_index_url":   cfg.Scraper.EventIndexURL,
		"scraper.rankings_url":      cfg.Scraper.RankingsURL,
	} {
		if err := ValidateURL(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if cfg.Fetcher.Type != "http" && cfg.Fetcher.Type != "browser" {
		return fmt.Errorf("fetcher.type must be 'http' or 'browser', got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.RateLimit < 0 {
		return fmt.Errorf("fetcher.rate_limit must be >= 0")
	}
	if cfg.Fetcher.RateLimit > 0 && cfg.Fetcher.Burst < 1 {
		return fmt.Errorf("fetcher.burst must be >= 1 when rate_limit is set, got %d", cfg.Fetcher.Burst)
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	types := cfg.Storage.Types()
	if len(types) == 0 {
		return fmt.Errorf("storage.type must name at least one sink")
	}
	for _, t := range types {
		if !validStorageTypes[t] {
			return fmt.Errorf("storage.type %q is not supported (valid: csv, json, jsonl, sqlite, mongodb)", t)
		}
		if t == "mongodb" && cfg.Storage.MongoURI == "" {
			return fmt.Errorf("storage.mongo_uri is required for the mongodb sink")
		}
		if t == "sqlite" && cfg.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite sink")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks that rawURL is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
