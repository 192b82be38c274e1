package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/fightstats/internal/engine"
	"github.com/IshaanNene/fightstats/internal/fetcher"
	"github.com/IshaanNene/fightstats/internal/observability"
	"github.com/IshaanNene/fightstats/internal/storage"
	"github.com/IshaanNene/fightstats/internal/table"
)

// walkFunc runs one or more walkers and returns the tables to store.
type walkFunc func(ctx context.Context, eng *engine.Engine, limit int) ([]*table.Table, error)

func fightersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fighters",
		Short: "Scrape every fighter profile from the A-Z listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(func(ctx context.Context, eng *engine.Engine, _ int) ([]*table.Table, error) {
				t, err := eng.Fighters(ctx)
				return []*table.Table{t}, err
			})
		},
	}
	addOutputFlags(cmd)
	cmd.Flags().StringVar(&letters, "letters", "", "listing letters to walk (default a-z)")
	return cmd
}

func fightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fights",
		Short: "Scrape fight statistics from completed events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(func(ctx context.Context, eng *engine.Engine, limit int) ([]*table.Table, error) {
				t, err := eng.Fights(ctx, limit)
				return []*table.Table{t}, err
			})
		},
	}
	addOutputFlags(cmd)
	cmd.Flags().IntVarP(&eventLimit, "limit", "l", 0, "walk only the N most recent events (0 = all)")
	return cmd
}

func rankingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rankings",
		Short: "Scrape the official rankings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(func(ctx context.Context, eng *engine.Engine, _ int) ([]*table.Table, error) {
				t, err := eng.Rankings(ctx)
				return []*table.Table{t}, err
			})
		},
	}
	addOutputFlags(cmd)
	return cmd
}

func allCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Scrape fighters, fights and rankings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(func(ctx context.Context, eng *engine.Engine, limit int) ([]*table.Table, error) {
				return eng.All(ctx, limit)
			})
		},
	}
	addOutputFlags(cmd)
	cmd.Flags().StringVar(&letters, "letters", "", "listing letters to walk (default a-z)")
	cmd.Flags().IntVarP(&eventLimit, "limit", "l", 0, "walk only the N most recent events (0 = all)")
	return cmd
}

// runScrape wires config, logging, fetcher, engine and storage, runs walk
// and stores every table it returns.
func runScrape(walk walkFunc) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Enabled {
		metrics.StartServer(ctx, cfg.Metrics.Port, cfg.Metrics.Path)
	}

	f, err := fetcher.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	eng, err := engine.New(cfg, f, metrics, logger)
	if err != nil {
		f.Close()
		return fmt.Errorf("create engine: %w", err)
	}
	defer eng.Close()

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	defer store.Close()

	logger.Info("starting scrape",
		"fetcher", f.Type(),
		"concurrency", cfg.Scraper.Concurrency,
		"event_limit", cfg.Scraper.EventLimit,
		"storage", cfg.Storage.Type,
		"schema", eng.Schema().Version,
	)

	start := time.Now()
	tables, err := walk(ctx, eng, cfg.Scraper.EventLimit)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}

	for _, t := range tables {
		if err := store.Store(ctx, t); err != nil {
			return fmt.Errorf("store %s: %w", t.Name, err)
		}
		metrics.TablesStored.Add(1)
		if preview > 0 {
			t.Render(os.Stdout, preview)
			fmt.Println()
		}
	}

	elapsed := time.Since(start)
	stats := metrics.Snapshot()
	logger.Info("scrape complete",
		"elapsed", elapsed,
		"pages", stats["pages_fetched"],
		"rows", stats["rows_emitted"],
		"skipped", stats["rows_skipped"],
		"omitted", stats["rows_omitted"],
		"bytes", stats["bytes_downloaded"],
	)

	fmt.Printf("Scrape complete in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("   Pages:   %d fetched, %d returned 4xx\n", stats["pages_fetched"], stats["responses_4xx"])
	fmt.Printf("   Rows:    %d written, %d skipped, %d fights without stats\n", stats["rows_emitted"], stats["rows_skipped"], stats["rows_omitted"])
	fmt.Printf("   Tables:  %d to %s\n", stats["tables_stored"], cfg.Storage.Type)
	return nil
}
