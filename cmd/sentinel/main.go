package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StockSentinel/internal/config"
)

var (
	configPath   string
	providerFlag string
	logLevelFlag string
	jsonLogs     bool

	cfg *config.Config
)

// rootCmd is the base command for the StockSentinel CLI.
var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "KRX market-alert designation checker",
	Long: `StockSentinel evaluates a KRX listing against the exchange's overheating,
investment caution and investment warning designation rules, and tracks when a
warning designation can be lifted.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if providerFlag != "" {
			cfg.DataSource.Provider = providerFlag
		}
		if logLevelFlag != "" {
			cfg.Log.Level = logLevelFlag
		}
		setupLogging(cfg.Log.Level, jsonLogs)
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.Path(), "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "Override data_source.provider (naver,yahoo,sqlite,mock)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override log.level")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit JSON logs instead of console output")
}

func setupLogging(level string, asJSON bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if !asJSON {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
