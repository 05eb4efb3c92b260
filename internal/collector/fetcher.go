package collector

import (
	"context"
	"errors"
	"time"

	"StockSentinel/internal/model"
)

// ErrNoData is returned when a provider has no bars for a symbol.
var ErrNoData = errors.New("no price data")

// Fetcher defines the interface for fetching daily price bars.
// days is a calendar-day lookback ending today.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error)
	Name() string
}

// NameResolver maps a symbol code to a display name.
type NameResolver interface {
	ResolveName(ctx context.Context, symbol string) (string, error)
}

// since returns the first calendar day inside a lookback of days ending at now.
func since(now time.Time, days int) time.Time {
	return model.CalendarDay(now.AddDate(0, 0, -days))
}

// trimLookback drops bars dated before the lookback window.
func trimLookback(bars []model.PriceBar, now time.Time, days int) []model.PriceBar {
	if days <= 0 {
		return bars
	}
	from := since(now, days)
	out := bars[:0:0]
	for _, b := range bars {
		if !b.Day().Before(from) {
			out = append(out, b)
		}
	}
	return out
}
