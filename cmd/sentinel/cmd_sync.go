package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"StockSentinel/internal/config"
	"StockSentinel/internal/store"
)

var syncDays int

// syncCmd implements 'sentinel sync <code>...'.
var syncCmd = &cobra.Command{
	Use:   "sync <code>...",
	Short: "Download daily bars into the local SQLite store",
	Long: `Fetch daily bars from the online providers and upsert them into
data_source.sqlite_path, so '--provider sqlite' works offline.

Example:
  sentinel sync 005930 000660 --days 365`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().IntVar(&syncDays, "days", 0, "Calendar-day lookback (default data_source.lookback_days)")
}

func runSync(cmd *cobra.Command, args []string) error {
	online := *cfg
	online.DataSource.Provider = onlineProviders(cfg)
	d, err := buildDeps(&online)
	if err != nil {
		return err
	}
	defer d.Close()

	s, err := store.NewSQLiteStore(cfg.DataSource.SQLitePath)
	if err != nil {
		return err
	}
	defer s.Close()

	days := syncDays
	if days <= 0 {
		days = cfg.DataSource.LookbackDays
	}
	ctx := context.Background()
	for _, code := range args {
		n, err := store.Sync(ctx, d.fetcher, s, code, days)
		if err != nil {
			return err
		}
		run, err := s.LastSync(ctx, code)
		if err != nil {
			return err
		}
		if run == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bars\n", code, n)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bars from %s (%s)\n", code, n, run.Provider, humanize.Time(run.SyncedAt))
	}
	return nil
}

// onlineProviders drops the sqlite store from the chain so sync never reads
// back its own target.
func onlineProviders(c *config.Config) string {
	var out []string
	for _, p := range c.Providers() {
		if p != "sqlite" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "naver,yahoo"
	}
	return strings.Join(out, ",")
}
