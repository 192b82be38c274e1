package config

import (
	"strings"
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for fightstats.
type Config struct {
	Scraper ScraperConfig `mapstructure:"scraper" yaml:"scraper"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// ScraperConfig controls what the walkers visit and how.
type ScraperConfig struct {
	// FighterIndexURL is a format string with one %s for the listing letter.
	FighterIndexURL string `mapstructure:"fighter_index_url" yaml:"fighter_index_url"`
	EventIndexURL   string `mapstructure:"event_index_url"   yaml:"event_index_url"`
	RankingsURL     string `mapstructure:"rankings_url"      yaml:"rankings_url"`
	Letters         string `mapstructure:"letters"           yaml:"letters"`

	// EventLimit caps the number of events walked; 0 walks all of them.
	EventLimit    int    `mapstructure:"event_limit"    yaml:"event_limit"`
	Concurrency   int    `mapstructure:"concurrency"    yaml:"concurrency"`
	SkipMalformed bool   `mapstructure:"skip_malformed" yaml:"skip_malformed"`
	SchemaFile    string `mapstructure:"schema_file"    yaml:"schema_file"`
}

// FetcherConfig controls the document fetcher.
type FetcherConfig struct {
	Type           string        `mapstructure:"type"            yaml:"type"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`

	// RateLimit is the request rate in requests per second; 0 disables it.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
	Burst     int     `mapstructure:"burst"      yaml:"burst"`

	UserAgents      []string      `mapstructure:"user_agents"       yaml:"user_agents"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	Stealth         bool          `mapstructure:"stealth"           yaml:"stealth"`
}

// StorageConfig controls where assembled tables are written.
type StorageConfig struct {
	// Type is a comma-separated list of sinks: csv, json, jsonl, sqlite, mongodb.
	Type          string `mapstructure:"type"           yaml:"type"`
	OutputPath    string `mapstructure:"output_path"    yaml:"output_path"`
	SQLitePath    string `mapstructure:"sqlite_path"    yaml:"sqlite_path"`
	MongoURI      string `mapstructure:"mongo_uri"      yaml:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database" yaml:"mongo_database"`
}

// Types returns the configured sink names, trimmed and lowercased.
func (s StorageConfig) Types() []string {
	var types []string
	for _, t := range strings.Split(s.Type, ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			types = append(types, t)
		}
	}
	return types
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig controls the metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scraper: ScraperConfig{
			FighterIndexURL: "http://ufcstats.com/statistics/fighters?char=%s&page=all",
			EventIndexURL:   "http://ufcstats.com/statistics/events/completed?page=all",
			RankingsURL:     "https://www.ufc.com/rankings",
			Letters:         "abcdefghijklmnopqrstuvwxyz",
			EventLimit:      0,
			Concurrency:     4,
			SkipMalformed:   true,
		},
		Fetcher: FetcherConfig{
			Type:           "http",
			RequestTimeout: 30 * time.Second,
			RateLimit:      5,
			Burst:          1,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
		},
		Storage: StorageConfig{
			Type:          "csv",
			OutputPath:    "./output",
			SQLitePath:    "./output/fightstats.db",
			MongoDatabase: "fightstats",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
