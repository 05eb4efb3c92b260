// Package store keeps downloaded daily bars in SQLite so reports can be
// produced offline.
package store

import (
	"context"
	"fmt"
	"time"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/model"
)

// SyncRun records one download of bars for a symbol.
type SyncRun struct {
	Symbol   string
	Provider string
	Rows     int
	SyncedAt time.Time
}

// BarStore persists raw daily bars per symbol.
type BarStore interface {
	SaveBars(ctx context.Context, symbol, provider string, bars []model.PriceBar) error
	LoadBars(ctx context.Context, symbol string, from time.Time) ([]model.PriceBar, error)
	LastSync(ctx context.Context, symbol string) (*SyncRun, error)
	Close() error
}

// Sync downloads a lookback of bars for symbol from f and saves them to s.
// It returns the number of bars written.
func Sync(ctx context.Context, f collector.Fetcher, s BarStore, symbol string, days int) (int, error) {
	bars, err := f.FetchDailyBars(ctx, symbol, days)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	series := model.NewSeries(bars)
	if err := series.Validate(); err != nil {
		return 0, fmt.Errorf("validate %s: %w", symbol, err)
	}
	if err := s.SaveBars(ctx, symbol, f.Name(), series); err != nil {
		return 0, err
	}
	return len(series), nil
}
