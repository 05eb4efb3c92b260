package collector

import (
	"context"
	"fmt"
	"regexp"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"

	"StockSentinel/internal/model"
)

var krxCode = regexp.MustCompile(`^\d{6}$`)

// yahooTickers maps a symbol to the Yahoo tickers to try, in order. Six-digit
// KRX codes are listed on KOSPI (.KS) or KOSDAQ (.KQ).
func yahooTickers(symbolMap map[string]string, symbol string) []string {
	if mapped, ok := symbolMap[symbol]; ok {
		return []string{mapped}
	}
	if krxCode.MatchString(symbol) {
		return []string{symbol + ".KS", symbol + ".KQ"}
	}
	return []string{symbol}
}

// YahooFetcher implements Fetcher using Yahoo Finance charts.
type YahooFetcher struct {
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	now       func() time.Time
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher() *YahooFetcher {
	return &YahooFetcher{
		SymbolMap: map[string]string{},
		now:       time.Now,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	now := f.now()
	start := since(now, days)
	var lastErr error
	for _, ticker := range yahooTickers(f.SymbolMap, symbol) {
		bars, err := withContext(ctx, func() ([]model.PriceBar, error) {
			return fetchYahooChart(ticker, start, now)
		})
		if err != nil {
			lastErr = err
			continue
		}
		if len(bars) > 0 {
			return model.NewSeries(bars), nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
}

func fetchYahooChart(ticker string, start, end time.Time) ([]model.PriceBar, error) {
	iter := chart.Get(&chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})
	var bars []model.PriceBar
	for iter.Next() {
		b := iter.Bar()
		c := b.Close.InexactFloat64()
		if c <= 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.PriceBar{
			Date:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   b.Open.InexactFloat64(),
			High:   b.High.InexactFloat64(),
			Low:    b.Low.InexactFloat64(),
			Close:  c,
			Volume: int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}
	return bars, nil
}

// YahooNameResolver resolves display names from Yahoo equity quotes.
type YahooNameResolver struct {
	SymbolMap map[string]string
}

func (r *YahooNameResolver) ResolveName(ctx context.Context, symbol string) (string, error) {
	for _, ticker := range yahooTickers(r.SymbolMap, symbol) {
		name, err := withContext(ctx, func() (string, error) {
			e, err := equity.Get(ticker)
			if err != nil {
				return "", err
			}
			return equityName(e), nil
		})
		if err == nil && name != "" {
			return name, nil
		}
	}
	return "", fmt.Errorf("yahoo: no quote for %s", symbol)
}

// equityName prefers the short name and falls back to the long one.
func equityName(e *finance.Equity) string {
	if e == nil {
		return ""
	}
	if e.ShortName != "" {
		return e.ShortName
	}
	return e.LongName
}

// withContext runs fn, returning early when ctx ends first. The finance-go
// client has no context support of its own.
func withContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-ch:
		return r.v, r.err
	}
}
