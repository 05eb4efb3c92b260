// Package scheduler runs the watch job for one configured symbol and answers
// chat commands.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"StockSentinel/internal/notifier"
	"StockSentinel/internal/report"
)

// Sender delivers formatted messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Watch names the symbol checked on every run and, optionally, the date it
// was designated a warning stock.
type Watch struct {
	Symbol          string
	DesignationDate string
}

// Scheduler manages the cron watch job.
type Scheduler struct {
	Cron      *cron.Cron
	Assembler *report.Assembler
	Notifier  Sender
	Watch     Watch
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, a *report.Assembler, n Sender, w Watch) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Assembler: a,
		Notifier:  n,
		Watch:     w,
		Ctx:       ctx,
	}
}

// Register adds the watch job on spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Str("symbol", s.Watch.Symbol).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the watch job immediately (for RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.watchTask()
}

func (s *Scheduler) watchTask() {
	runID := uuid.New().String()[:8]
	logger := log.With().Str("run", runID).Str("symbol", s.Watch.Symbol).Logger()
	logger.Info().Msg("running watch task")

	ctx, cancel := context.WithTimeout(s.Ctx, 2*time.Minute)
	defer cancel()

	resp := s.Assembler.Generate(ctx, s.Watch.Symbol, "")
	if !resp.OK {
		logger.Error().Err(resp.Err).Msg("watch report failed")
	}
	s.trySend(ctx, notifier.FormatReport(resp))

	if s.Watch.DesignationDate == "" {
		return
	}
	rel := s.Assembler.ReleaseSchedule(ctx, s.Watch.Symbol, s.Watch.DesignationDate)
	if !rel.OK {
		logger.Error().Err(rel.Err).Msg("watch release check failed")
	}
	s.trySend(ctx, notifier.FormatRelease(rel))
}

const usage = "Available commands:\n" +
	"• /report &lt;code&gt; [YYYY-MM-DD]\n" +
	"• /release &lt;code&gt; &lt;designation date&gt;\n" +
	"• /watch (run the configured watch now)"

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return usage
	}
	// Group chats address bots as /cmd@botname.
	name, _, _ := strings.Cut(fields[0], "@")
	args := fields[1:]

	switch name {
	case "/report":
		if len(args) < 1 || len(args) > 2 {
			return usage
		}
		date := ""
		if len(args) == 2 {
			date = args[1]
		}
		return notifier.FormatReport(s.Assembler.Generate(ctx, args[0], date))
	case "/release":
		if len(args) != 2 {
			return usage
		}
		return notifier.FormatRelease(s.Assembler.ReleaseSchedule(ctx, args[0], args[1]))
	case "/watch":
		if s.Watch.Symbol == "" {
			return "No watch symbol configured."
		}
		s.watchTask()
		return ""
	default:
		return usage
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
