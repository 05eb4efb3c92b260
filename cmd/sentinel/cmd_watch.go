package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StockSentinel/internal/notifier"
	"StockSentinel/internal/scheduler"
)

var watchRunOnStart bool

// watchCmd implements 'sentinel watch'.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the scheduled watch job with Telegram delivery",
	Long: `Evaluate watch.symbol on the watch.cron schedule and send the report
(and the release schedule when watch.designation_date is set) to Telegram.
The bot also answers /report <code> [date] and /release <code> <date>.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchRunOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "Run the watch job once at startup")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateWatch(); err != nil {
		return err
	}
	d, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	sched := scheduler.NewScheduler(ctx, d.assembler(cfg), tn, scheduler.Watch{
		Symbol:          cfg.Watch.Symbol,
		DesignationDate: cfg.Watch.DesignationDate,
	})
	if err := sched.Register(cfg.Watch.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	if watchRunOnStart {
		log.Info().Msg("running watch job now")
		go sched.RunNow()
	}

	log.Info().Msg("StockSentinel is running. Press Ctrl+C to stop.")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	return nil
}
