package model

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the calendar-date format used on every external boundary.
const DateLayout = "2006-01-02"

// PriceBar represents one trading day's OHLCV observation.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Day returns the bar's date truncated to a UTC calendar day.
func (b PriceBar) Day() time.Time {
	return CalendarDay(b.Date)
}

// CalendarDay drops the clock and location of t, keeping its calendar date.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Series is a chronologically ascending run of bars with unique dates.
type Series []PriceBar

// NewSeries sorts bars ascending by date and keeps the last bar seen for any
// duplicated calendar date. Gaps are left as they are.
func NewSeries(bars []PriceBar) Series {
	if len(bars) == 0 {
		return nil
	}
	sorted := make([]PriceBar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Day().Before(sorted[j].Day()) })

	out := make(Series, 0, len(sorted))
	for _, b := range sorted {
		if n := len(out); n > 0 && out[n-1].Day().Equal(b.Day()) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// Validate checks the ordering and price invariants of the series.
func (s Series) Validate() error {
	for i, b := range s {
		if b.Close <= 0 || b.Open <= 0 || b.High <= 0 || b.Low <= 0 {
			return fmt.Errorf("bar %s: non-positive price", b.Day().Format(DateLayout))
		}
		if b.Volume < 0 {
			return fmt.Errorf("bar %s: negative volume", b.Day().Format(DateLayout))
		}
		if i > 0 && !s[i-1].Day().Before(b.Day()) {
			return fmt.Errorf("bar %s: dates not strictly increasing", b.Day().Format(DateLayout))
		}
	}
	return nil
}

// Until returns the prefix of bars dated on or before cutoff (inclusive).
func (s Series) Until(cutoff time.Time) Series {
	day := CalendarDay(cutoff)
	n := sort.Search(len(s), func(i int) bool { return s[i].Day().After(day) })
	return s[:n]
}

// Closes extracts the close prices in order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}

// Volumes extracts the volumes in order as floats.
func (s Series) Volumes() []float64 {
	vols := make([]float64, len(s))
	for i, b := range s {
		vols[i] = float64(b.Volume)
	}
	return vols
}

var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"2006.01.02",
	"20060102",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate accepts an ISO calendar date and a few common variants, returning
// the calendar day.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return CalendarDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q, expected YYYY-MM-DD", s)
}
