package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"StockSentinel/internal/metrics"
	"StockSentinel/internal/model"
	"StockSentinel/internal/release"
)

// ReleaseInput echoes a release request.
type ReleaseInput struct {
	Code            string `json:"code"`
	DesignationDate string `json:"designation_date"`
}

// ReleaseResponse is a warning release schedule for one symbol.
type ReleaseResponse struct {
	OK              bool                         `json:"ok"`
	Input           ReleaseInput                 `json:"input"`
	Meta            *Meta                        `json:"meta,omitempty"`
	Status          model.ReleaseStatus          `json:"status,omitempty"`
	DesignationDate *time.Time                   `json:"designation_date,omitempty"`
	ReleasedDate    *time.Time                   `json:"released_date"`
	History         []model.ReleaseDetermination `json:"determination_history"`
	NextThresholds  *model.ReleaseDetermination  `json:"next_thresholds"`
	Message         string                       `json:"message,omitempty"`
	Error           *ErrorBody                   `json:"error,omitempty"`

	Schedule *model.ReleaseSchedule `json:"-"`
	Err      error                  `json:"-"`
}

func (r *ReleaseResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(Normalize(*r))
}

func releaseFailure(in ReleaseInput, err error) *ReleaseResponse {
	metrics.ReleaseChecksTotal.WithLabelValues("error").Inc()
	return &ReleaseResponse{OK: false, Input: in, Error: &ErrorBody{Message: err.Error()}, Err: err}
}

// ReleaseSchedule scans forward from designationDate for the first day code
// qualifies for release from a warning designation.
func (a *Assembler) ReleaseSchedule(ctx context.Context, code, designationDate string) *ReleaseResponse {
	in := ReleaseInput{Code: strings.TrimSpace(code), DesignationDate: strings.TrimSpace(designationDate)}
	if in.Code == "" {
		return releaseFailure(in, ErrEmptySymbol)
	}
	designated, err := model.ParseDate(in.DesignationDate)
	if err != nil {
		return releaseFailure(in, ErrBadDate)
	}

	bars, err := a.Fetcher.FetchDailyBars(ctx, in.Code, a.releaseLookback(designated))
	series := model.NewSeries(bars)
	if err != nil || len(series) == 0 {
		return releaseFailure(in, fmt.Errorf("%w: %s", ErrFetchFailed, in.Code))
	}

	sched := release.Schedule(series, designated)
	if sched.Error != "" {
		return releaseFailure(in, errors.New(sched.Error))
	}
	latest := series[len(series)-1]
	metrics.ReleaseChecksTotal.WithLabelValues(string(sched.Status)).Inc()

	history := sched.History
	if history == nil {
		history = []model.ReleaseDetermination{}
	}
	return &ReleaseResponse{
		OK:    true,
		Input: in,
		Meta: &Meta{
			AsOf:        latest.Day(),
			LatestClose: latest.Close,
			Currency:    a.Currency,
			StockName:   a.stockName(ctx, in.Code),
		},
		Status:          sched.Status,
		DesignationDate: sched.DesignationDate,
		ReleasedDate:    sched.ReleasedDate,
		History:         history,
		NextThresholds:  sched.NextThresholds,
		Message:         sched.Message,
		Schedule:        &sched,
	}
}

// releaseLookback covers the designation date plus enough earlier bars for
// the 15-day comparisons on the first determination day.
func (a *Assembler) releaseLookback(designated time.Time) int {
	days := int(a.now().Sub(designated).Hours()/24) + releaseLookbackPadding
	if days < a.LookbackDays {
		return a.LookbackDays
	}
	return days
}
