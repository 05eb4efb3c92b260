package model

import "math"

// DerivedRow is a PriceBar plus the indicators computed from the series
// prefix ending at that bar. Undefined values are NaN, so every threshold
// comparison against them is false.
type DerivedRow struct {
	PriceBar

	Change1d  float64
	Change3d  float64
	Change5d  float64
	Change15d float64

	MA40           float64
	VolMA40        float64
	VolRatio       float64
	Volatility     float64
	VolatilityMA40 float64
}

// DerivedSeries is the enriched counterpart of a Series.
type DerivedSeries []DerivedRow

// Latest returns the last row. The caller must ensure the series is non-empty.
func (d DerivedSeries) Latest() DerivedRow {
	return d[len(d)-1]
}

// CloseAgo returns the close n bars before the latest one, or NaN when the
// series is too short.
func (d DerivedSeries) CloseAgo(n int) float64 {
	idx := len(d) - 1 - n
	if idx < 0 || n < 0 {
		return math.NaN()
	}
	return d[idx].Close
}

// Bars strips the derived columns.
func (d DerivedSeries) Bars() Series {
	s := make(Series, len(d))
	for i, r := range d {
		s[i] = r.PriceBar
	}
	return s
}

// Defined reports whether v carries a value.
func Defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
