package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(y int, m time.Month, d int, close float64) PriceBar {
	return PriceBar{Date: time.Date(y, m, d, 9, 0, 0, 0, time.UTC), Open: close, High: close, Low: close, Close: close, Volume: 10}
}

func TestNewSeries_SortsAndDeduplicates(t *testing.T) {
	s := NewSeries([]PriceBar{
		bar(2026, 1, 7, 3),
		bar(2026, 1, 5, 1),
		bar(2026, 1, 6, 2),
		bar(2026, 1, 6, 22),
	})
	require.Len(t, s, 3)
	assert.Equal(t, []float64{1, 22, 3}, s.Closes())
	assert.NoError(t, s.Validate())
}

func TestSeries_Validate(t *testing.T) {
	s := Series{bar(2026, 1, 6, 1), bar(2026, 1, 5, 1)}
	assert.Error(t, s.Validate())

	s = Series{bar(2026, 1, 5, 0)}
	assert.Error(t, s.Validate())
}

func TestSeries_UntilIsInclusive(t *testing.T) {
	s := NewSeries([]PriceBar{bar(2026, 1, 5, 1), bar(2026, 1, 6, 2), bar(2026, 1, 8, 3)})

	assert.Len(t, s.Until(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)), 2)
	assert.Len(t, s.Until(time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)), 2)
	assert.Empty(t, s.Until(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Len(t, s.Until(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)), 3)
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2026-01-22", "2026/01/22", "20260122", "2026-01-22T10:00:00+09:00"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, time.Date(2026, 1, 22, 0, 0, 0, 0, time.UTC), got, in)
	}
	_, err := ParseDate("22nd of January")
	assert.Error(t, err)
}

func TestCategoryResult_DetailsValue(t *testing.T) {
	r := Insufficient(CategoryCaution)
	assert.Equal(t, InsufficientData, r.DetailsValue())

	r = CategoryResult{Category: CategoryCaution}
	r.Add("a", RuleOutcome{Triggered: true})
	r.Add("b", RuleOutcome{})
	r.Add("a", RuleOutcome{})
	assert.Equal(t, []string{"a", "b"}, r.Rules)
	assert.False(t, r.Details["a"].Triggered)
	_, ok := r.NearestTargetPrice()
	assert.False(t, ok)
}
