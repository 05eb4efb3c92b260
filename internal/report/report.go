// Package report assembles designation reports and release schedules for a
// symbol from a series provider, producing JSON-ready responses.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/collector"
	"StockSentinel/internal/designation"
	"StockSentinel/internal/metrics"
	"StockSentinel/internal/model"
)

var (
	ErrEmptySymbol        = errors.New("symbol code is required")
	ErrBadDate            = errors.New("date must be formatted as YYYY-MM-DD")
	ErrNoBarsBeforeCutoff = errors.New("no price data on or before the requested date")
	ErrFetchFailed        = errors.New("price data lookup failed, check the symbol code")
)

const releaseLookbackPadding = 60

// Assembler builds reports from a series provider and an optional name
// resolver. It holds no per-request state and is safe for concurrent use.
type Assembler struct {
	Fetcher      collector.Fetcher
	Names        collector.NameResolver
	LookbackDays int
	Currency     string
	NameTimeout  time.Duration

	now func() time.Time
}

// New creates an Assembler with the default currency and timeouts.
func New(f collector.Fetcher, names collector.NameResolver, lookbackDays int) *Assembler {
	if lookbackDays <= 0 {
		lookbackDays = 120
	}
	return &Assembler{
		Fetcher:      f,
		Names:        names,
		LookbackDays: lookbackDays,
		Currency:     "KRW",
		NameTimeout:  5 * time.Second,
		now:          time.Now,
	}
}

// Input echoes the request.
type Input struct {
	Code string  `json:"code"`
	Date *string `json:"date"`
}

// Meta describes the evaluated series.
type Meta struct {
	AsOf        time.Time `json:"as_of"`
	LatestClose float64   `json:"latest_close"`
	Currency    string    `json:"currency"`
	StockName   *string   `json:"stock_name"`
}

// Status summarises the designation state. Margin and Credit need data this
// system does not have and are always nil.
type Status struct {
	Caution bool  `json:"caution"`
	Warning bool  `json:"warning"`
	Margin  *bool `json:"margin"`
	Credit  *bool `json:"credit"`
}

// CategoryView is the wire form of one category result. Details is either
// the "insufficient data" string or a map of rule outcomes.
type CategoryView struct {
	Triggered bool `json:"triggered"`
	Details   any  `json:"details"`
}

type Results struct {
	Overheating CategoryView `json:"overheating"`
	Caution     CategoryView `json:"caution"`
	Warning     CategoryView `json:"warning"`
}

type ErrorBody struct {
	Message string `json:"message"`
}

// Response is a report. On failure only OK, Error and Err are set.
type Response struct {
	OK      bool       `json:"ok"`
	Input   *Input     `json:"input,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
	Status  *Status    `json:"status,omitempty"`
	Results *Results   `json:"results,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`

	// Evaluation keeps the typed results for renderers.
	Evaluation *designation.Results `json:"-"`
	// Err is the failure cause, for callers that map it to a status code.
	Err error `json:"-"`
}

// MarshalJSON encodes the normalized form, so undefined numbers become null.
func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(Normalize(*r))
}

func failure(err error) *Response {
	metrics.ReportsTotal.WithLabelValues("error").Inc()
	return &Response{OK: false, Error: &ErrorBody{Message: err.Error()}, Err: err}
}

func view(r model.CategoryResult) CategoryView {
	return CategoryView{Triggered: r.Triggered, Details: Normalize(r.DetailsValue())}
}

// Generate evaluates every designation category for code as of date, an
// optional cutoff (empty for the latest bar). It never returns nil; failures
// are reported through Response.Error.
func (a *Assembler) Generate(ctx context.Context, code, date string) *Response {
	code = strings.TrimSpace(code)
	if code == "" {
		return failure(ErrEmptySymbol)
	}

	bars, err := a.Fetcher.FetchDailyBars(ctx, code, a.LookbackDays)
	series := model.NewSeries(bars)
	if err != nil || len(series) == 0 {
		log.Warn().Err(err).Str("symbol", code).Msg("report fetch failed")
		return failure(fmt.Errorf("%w: %s", ErrFetchFailed, code))
	}

	input := &Input{Code: code}
	date = strings.TrimSpace(date)
	if date != "" {
		cutoff, err := model.ParseDate(date)
		if err != nil {
			return failure(ErrBadDate)
		}
		series = series.Until(cutoff)
		if len(series) == 0 {
			return failure(fmt.Errorf("%w (%s)", ErrNoBarsBeforeCutoff, date))
		}
		input.Date = &date
	}

	derived := calculator.Derive(series)
	eval := designation.Evaluate(derived)
	latest := derived.Latest()

	resp := &Response{
		OK:    true,
		Input: input,
		Meta: &Meta{
			AsOf:        latest.Day(),
			LatestClose: latest.Close,
			Currency:    a.Currency,
			StockName:   a.stockName(ctx, code),
		},
		Status: &Status{
			Caution: eval.Caution.Triggered,
			Warning: eval.Warning.Triggered,
		},
		Results: &Results{
			Overheating: view(eval.Overheating),
			Caution:     view(eval.Caution),
			Warning:     view(eval.Warning),
		},
		Evaluation: &eval,
	}
	metrics.ReportsTotal.WithLabelValues("ok").Inc()
	return resp
}

func (a *Assembler) stockName(ctx context.Context, code string) *string {
	name := collector.LookupName(ctx, a.Names, code, a.NameTimeout)
	if name == "" {
		return nil
	}
	return &name
}
