package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"StockSentinel/internal/display"
)

var (
	reportDate string
	reportJSON bool
)

// reportCmd implements 'sentinel report <code>'.
var reportCmd = &cobra.Command{
	Use:   "report <code>",
	Short: "Evaluate designation rules for a stock",
	Long: `Fetch recent daily bars for a KRX code and evaluate the overheating,
caution and warning designation rules on the latest bar, or on the last bar
on or before --date.

Examples:
  sentinel report 005930
  sentinel report 005930 --date 2026-03-20
  sentinel report 005930 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Cutoff date (YYYY-MM-DD)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the JSON response")
}

func runReport(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	resp := d.assembler(cfg).Generate(context.Background(), args[0], reportDate)
	if reportJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	} else {
		display.RenderReport(cmd.OutOrStdout(), resp)
	}
	if !resp.OK {
		os.Exit(2)
	}
	return nil
}
