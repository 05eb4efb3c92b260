package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"StockSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// It is safe for concurrent use once configured.
type MockFetcher struct {
	Price float64
	Bars  []model.PriceBar
	Err   error

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls reports how many times FetchDailyBars has run.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.PriceBar, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return generateMockBars(m.Price, days), nil
}

func generateMockBars(basePrice float64, count int) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	today := model.CalendarDay(time.Now())
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Date:   today.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// FallbackFetcher tries each fetcher in order and returns the first
// non-empty series.
type FallbackFetcher struct {
	Fetchers []Fetcher
}

// NewFallbackFetcher creates a FallbackFetcher over fetchers.
func NewFallbackFetcher(fetchers ...Fetcher) *FallbackFetcher {
	return &FallbackFetcher{Fetchers: fetchers}
}

func (f *FallbackFetcher) Name() string {
	names := make([]string, len(f.Fetchers))
	for i, ft := range f.Fetchers {
		names[i] = ft.Name()
	}
	return "fallback(" + strings.Join(names, ",") + ")"
}

func (f *FallbackFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	var errs []error
	for _, ft := range f.Fetchers {
		bars, err := ft.FetchDailyBars(ctx, symbol, days)
		if err == nil && len(bars) > 0 {
			return model.NewSeries(bars), nil
		}
		if err == nil {
			err = ErrNoData
		}
		log.Warn().Err(err).Str("provider", ft.Name()).Str("symbol", symbol).Msg("fetch failed, trying next provider")
		errs = append(errs, fmt.Errorf("%s: %w", ft.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, ErrNoData
	}
	return nil, errors.Join(errs...)
}

// LookupName resolves a display name, treating every failure as unknown.
func LookupName(ctx context.Context, r NameResolver, symbol string, timeout time.Duration) string {
	if r == nil {
		return ""
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	name, err := r.ResolveName(ctx, symbol)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("name lookup failed")
		return ""
	}
	return name
}
