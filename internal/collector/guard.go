package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"StockSentinel/internal/metrics"
	"StockSentinel/internal/model"
)

// Guard bounds calls to an upstream fetcher with a per-call timeout, a
// token-bucket rate limit and a circuit breaker.
type Guard struct {
	Fetcher Fetcher
	Timeout time.Duration

	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// NewGuard wraps f. A non-positive rps disables rate limiting.
func NewGuard(f Fetcher, timeout time.Duration, rps float64) *Guard {
	st := gobreaker.Settings{Name: f.Name()}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}
	// A symbol the provider does not know is an answer, not an outage.
	st.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrNoData)
	}

	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Guard{
		Fetcher: f,
		Timeout: timeout,
		breaker: gobreaker.NewCircuitBreaker(st),
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (g *Guard) Name() string { return g.Fetcher.Name() }

// State reports the breaker state, for diagnostics.
func (g *Guard) State() gobreaker.State { return g.breaker.State() }

func (g *Guard) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.Fetcher.FetchDailyBars(ctx, symbol, days)
	})
	metrics.ObserveFetch(g.Fetcher.Name(), start, err)
	if err != nil {
		return nil, err
	}
	bars, _ := out.([]model.PriceBar)
	return bars, nil
}
