package main

import (
	"fmt"
	"os"
	"sort"

	pretty "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/IshaanNene/fightstats/internal/config"
	"github.com/IshaanNene/fightstats/internal/schema"
)

// schemaCmd prints every locator of the active document schema.
func schemaCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the document schema used to locate fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				cfg, err := config.Load(cfgFile)
				if err != nil {
					return err
				}
				file = cfg.Scraper.SchemaFile
			}
			s, err := schema.Load(file)
			if err != nil {
				return err
			}

			locators := s.Locators()
			keys := make([]string, 0, len(locators))
			for k := range locators {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			tw := pretty.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.SetStyle(pretty.StyleRounded)
			tw.SetTitle("schema " + s.Version)
			tw.AppendHeader(pretty.Row{"field", "kind", "locator"})
			for _, k := range keys {
				kind := "css"
				if locators[k].IsXPath() {
					kind = "xpath"
				}
				tw.AppendRow(pretty.Row{k, kind, locators[k].String()})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "schema file to load (default: scraper.schema_file)")
	return cmd
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Scraper:\n")
			fmt.Printf("  Fighter Index:     %s\n", cfg.Scraper.FighterIndexURL)
			fmt.Printf("  Event Index:       %s\n", cfg.Scraper.EventIndexURL)
			fmt.Printf("  Rankings:          %s\n", cfg.Scraper.RankingsURL)
			fmt.Printf("  Letters:           %s\n", cfg.Scraper.Letters)
			fmt.Printf("  Event Limit:       %d\n", cfg.Scraper.EventLimit)
			fmt.Printf("  Concurrency:       %d\n", cfg.Scraper.Concurrency)
			fmt.Printf("  Skip Malformed:    %v\n", cfg.Scraper.SkipMalformed)
			fmt.Printf("  Schema File:       %s\n", cfg.Scraper.SchemaFile)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Type:              %s\n", cfg.Fetcher.Type)
			fmt.Printf("  Request Timeout:   %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Rate Limit:        %.2f req/s (burst %d)\n", cfg.Fetcher.RateLimit, cfg.Fetcher.Burst)
			fmt.Printf("  User Agents:       %d configured\n", len(cfg.Fetcher.UserAgents))
			fmt.Printf("  Follow Redirects:  %v\n", cfg.Fetcher.FollowRedirects)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Path:       %s\n", cfg.Storage.OutputPath)
			fmt.Printf("  SQLite Path:       %s\n", cfg.Storage.SQLitePath)
			fmt.Printf("  Mongo Database:    %s\n", cfg.Storage.MongoDatabase)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:              %d\n", cfg.Metrics.Port)

			if err := config.Validate(cfg); err != nil {
				fmt.Printf("\nInvalid: %v\n", err)
			}
			return nil
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("fightstats %s (schema %s)\n", config.Version, schema.Version)
		},
	}
}
