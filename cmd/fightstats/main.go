package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/fightstats/internal/config"
)

var (
	cfgFile     string
	verbose     bool
	outputPath  string
	outputType  string
	concurrency int
	eventLimit  int
	letters     string
	preview     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fightstats",
		Short: "fightstats: UFC statistics scraper",
		Long: `fightstats walks ufcstats.com and ufc.com and writes three tables:

  fighters   one row per fighter profile, from the A-Z fighter listings
  fights     one row per completed bout with full striking statistics
  rankings   one row per (fighter, weight class) from the official rankings

Tables can be written as CSV, JSON, JSONL, to SQLite or to MongoDB.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(fightersCmd())
	rootCmd.AddCommand(fightsCmd())
	rootCmd.AddCommand(rankingsCmd())
	rootCmd.AddCommand(allCmd())
	rootCmd.AddCommand(schemaCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addOutputFlags registers the flags shared by every scraping command.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output directory for file sinks")
	cmd.Flags().StringVarP(&outputType, "format", "f", "", "comma-separated sinks: csv, json, jsonl, sqlite, mongodb")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "n", 0, "number of pages fetched at once (1 = serial)")
	cmd.Flags().IntVar(&preview, "preview", 5, "print the first N rows of each table (0 = none)")
}

// loadConfig loads the config file, applies flag overrides and validates.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if outputPath != "" {
		cfg.Storage.OutputPath = outputPath
	}
	if outputType != "" {
		cfg.Storage.Type = strings.ToLower(outputType)
	}
	if concurrency > 0 {
		cfg.Scraper.Concurrency = concurrency
	}
	if eventLimit > 0 {
		cfg.Scraper.EventLimit = eventLimit
	}
	if letters != "" {
		cfg.Scraper.Letters = strings.ToLower(letters)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
}

// setupLogger creates a structured logger from the logging config. The
// returned func closes the log file, if one was opened.
func setupLogger(cfg config.LoggingConfig) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var (
		out     io.Writer = os.Stderr
		cleanup           = func() {}
	)
	switch cfg.Output {
	case "", "stderr":
	case "stdout":
		out = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		cleanup = func() { f.Close() }
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler), cleanup, nil
}
