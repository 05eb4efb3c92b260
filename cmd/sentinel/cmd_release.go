package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"StockSentinel/internal/display"
)

var releaseJSON bool

// releaseCmd implements 'sentinel release <code> <designation-date>'.
var releaseCmd = &cobra.Command{
	Use:   "release <code> <designation-date>",
	Short: "Check when a warning designation can be lifted",
	Long: `Scan forward from the warning designation date and report the first
trading day that qualifies for release, or the ceiling the next close must
stay under while the release is pending.

Example:
  sentinel release 032820 2026-01-22`,
	Args: cobra.ExactArgs(2),
	RunE: runRelease,
}

func init() {
	rootCmd.AddCommand(releaseCmd)
	releaseCmd.Flags().BoolVar(&releaseJSON, "json", false, "Print the JSON response")
}

func runRelease(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	resp := d.assembler(cfg).ReleaseSchedule(context.Background(), args[0], args[1])
	if releaseJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	} else {
		display.RenderRelease(cmd.OutOrStdout(), resp)
	}
	if !resp.OK {
		os.Exit(2)
	}
	return nil
}
