package release

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/model"
)

var day0 = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func withCloses(closes ...float64) model.Series {
	s := make(model.Series, len(closes))
	for i, c := range closes {
		s[i] = model.PriceBar{Date: day0.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return s
}

func repeat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestSchedule_AwaitingFirstDetermination(t *testing.T) {
	bars := withCloses(repeat(20, 100)...)
	sched := Schedule(bars, bars[12].Date)

	assert.Equal(t, model.ReleaseAwaiting, sched.Status)
	assert.Empty(t, sched.History)
	assert.Nil(t, sched.ReleasedDate)
	require.NotNil(t, sched.DesignationDate)
	assert.Equal(t, bars[12].Day(), *sched.DesignationDate)
}

func TestSchedule_ReleasedOnFirstDay(t *testing.T) {
	closes := append(repeat(30, 100), repeat(10, 95)...)
	bars := withCloses(closes...)
	sched := Schedule(bars, bars[20].Date)

	require.Equal(t, model.ReleaseReleased, sched.Status)
	require.NotNil(t, sched.ReleasedDate)
	assert.Equal(t, bars[30].Day(), *sched.ReleasedDate)
	require.Len(t, sched.History, 1)

	det := sched.History[0]
	assert.True(t, det.Clears())
	assert.InDelta(t, 160, det.Thresh5d, 1e-9)
	assert.InDelta(t, 200, det.Thresh15d, 1e-9)
	assert.InDelta(t, 100, det.Prev14Max, 1e-9)
	assert.InDelta(t, 100, det.ReleaseCeiling, 1e-9)
	assert.Equal(t, sched.NextThresholds.Date, det.Date)
}

func TestSchedule_PendingWhenNoDayClears(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	bars := withCloses(closes...)
	sched := Schedule(bars, bars[5].Date)

	assert.Equal(t, model.ReleasePending, sched.Status)
	assert.Nil(t, sched.ReleasedDate)
	assert.Len(t, sched.History, len(bars)-15)
	for _, det := range sched.History {
		assert.True(t, det.Fails.Highest)
		assert.False(t, det.Clears())
	}
	require.NotNil(t, sched.NextThresholds)
	assert.Equal(t, bars[len(bars)-1].Day(), sched.NextThresholds.Date)
}

func TestSchedule_ReleasesAfterPullback(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	closes = append(closes, 120, 118)
	bars := withCloses(closes...)
	sched := Schedule(bars, bars[19].Date)

	require.Equal(t, model.ReleaseReleased, sched.Status)
	assert.Equal(t, bars[30].Day(), *sched.ReleasedDate)
	assert.Len(t, sched.History, 2)
	assert.False(t, sched.History[0].Clears())
}

// A close equal to the earlier 15-day high counts as the highest close, so a
// perfectly flat series never releases.
func TestCheckDay_TieWithPriorHighBlocksRelease(t *testing.T) {
	bars := withCloses(repeat(20, 100)...)
	det := CheckDay(bars, 19)

	assert.True(t, det.Fails.Highest)
	assert.False(t, det.Fails.Surge5d)
	assert.False(t, det.Fails.Surge15d)
	assert.Equal(t, []string{"highest"}, det.Fails.Names())
	assert.False(t, det.Clears())
}

func TestCheckDay_SurgeFailures(t *testing.T) {
	closes := repeat(16, 100)
	closes = append(closes, 90, 90, 90, 90, 170)
	bars := withCloses(closes...)
	det := CheckDay(bars, len(bars)-1)

	assert.True(t, det.Fails.Surge5d)
	assert.False(t, det.Fails.Surge15d)
	assert.True(t, det.Fails.Highest)
	assert.InDelta(t, 100, det.ReleaseCeiling, 1e-9)
}

func TestCheckDay_InsufficientHistory(t *testing.T) {
	bars := withCloses(repeat(20, 100)...)
	det := CheckDay(bars, 10)
	assert.True(t, det.InsufficientHistory)
	assert.False(t, det.Clears())
}

func TestSchedule_EarlyDesignationScansShortHistory(t *testing.T) {
	closes := append(repeat(16, 100), 90)
	bars := withCloses(closes...)
	sched := Schedule(bars, bars[0].Date)

	require.Equal(t, model.ReleaseReleased, sched.Status)
	require.Len(t, sched.History, 7)
	for _, det := range sched.History[:5] {
		assert.True(t, det.InsufficientHistory)
	}
	assert.Equal(t, bars[16].Day(), *sched.ReleasedDate)
}

func TestNearestIndex(t *testing.T) {
	bars := model.Series{
		{Date: time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), Close: 1},  // Thu
		{Date: time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC), Close: 1},  // Fri
		{Date: time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), Close: 1}, // Mon
	}
	assert.Equal(t, 1, NearestIndex(bars, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, NearestIndex(bars, time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, NearestIndex(bars, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, NearestIndex(bars, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, NearestIndex(bars, time.Date(2026, 1, 12, 15, 30, 0, 0, time.UTC)))
}

func TestSchedule_NoData(t *testing.T) {
	sched := Schedule(nil, day0)
	assert.NotEmpty(t, sched.Error)
}

func TestSchedule_DesignationOutsideData(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	bars := withCloses(closes...)

	sched := Schedule(bars, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, model.ReleasePending, sched.Status)
	assert.Equal(t, bars[0].Day(), *sched.DesignationDate)
	assert.Contains(t, sched.Message, "2020-01-01 is outside the price data")
	assert.Contains(t, sched.Message, bars[0].Day().Format(model.DateLayout))

	sched = Schedule(bars, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, model.ReleaseAwaiting, sched.Status)
	assert.Contains(t, sched.Message, "2030-01-01 is outside the price data")
	assert.Contains(t, sched.Message, "not reached yet")
}

func TestSchedule_NearbyDesignationHasNoNote(t *testing.T) {
	bars := withCloses(repeat(40, 100)...)
	sched := Schedule(bars, bars[0].Date.AddDate(0, 0, -3))
	assert.Equal(t, bars[0].Day(), *sched.DesignationDate)
	assert.Empty(t, sched.Message)
}
