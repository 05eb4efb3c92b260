// Package release scans forward from a warning designation for the first
// trading day on which the designation can be lifted.
package release

import (
	"fmt"
	"math"
	"sort"
	"time"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
)

const (
	// FirstDeterminationOffset is the number of trading days after the
	// designation before release is first judged.
	FirstDeterminationOffset = 10

	// MaxDesignationGap is how far the nearest bar may sit from the
	// requested designation date before the schedule says so.
	MaxDesignationGap = 7 * 24 * time.Hour

	minHistory       = 15
	surge5dMultiple  = 1.6
	surge15dMultiple = 2.0
	highWindow       = 15
)

// CheckDay evaluates the release conditions on bar idx. A day clears when
// its close is below 160% of the close 5 bars earlier, below 200% of the
// close 15 bars earlier, and not the highest close of the 15 bars ending
// there.
func CheckDay(bars model.Series, idx int) model.ReleaseDetermination {
	b := bars[idx]
	det := model.ReleaseDetermination{
		Date:  b.Day(),
		Close: b.Close,
	}
	if idx < minHistory {
		det.InsufficientHistory = true
		det.ReleaseCeiling = math.NaN()
		det.Thresh5d = math.NaN()
		det.Thresh15d = math.NaN()
		det.Prev14Max = math.NaN()
		return det
	}

	closes := bars.Closes()
	det.Thresh5d = closes[idx-5] * surge5dMultiple
	det.Thresh15d = closes[idx-15] * surge15dMultiple
	// A close at or above the prior 14-bar high is the highest of the
	// 15-bar window; the two formulations are the same test.
	det.Prev14Max, _ = calculator.TrailingMax(closes[:idx], highWindow-1)

	det.Fails = model.ReleaseFails{
		Surge5d:  b.Close >= det.Thresh5d,
		Surge15d: b.Close >= det.Thresh15d,
		Highest:  calculator.IsHighestClose(closes[:idx+1], highWindow),
	}
	det.ReleaseCeiling = math.Min(det.Thresh5d, math.Min(det.Thresh15d, det.Prev14Max))
	return det
}

// NearestIndex returns the index of the bar whose date is closest to day.
// Equidistant neighbours resolve to the earlier bar.
func NearestIndex(bars model.Series, day time.Time) int {
	day = model.CalendarDay(day)
	i := sort.Search(len(bars), func(i int) bool { return !bars[i].Day().Before(day) })
	switch {
	case i == 0:
		return 0
	case i == len(bars):
		return len(bars) - 1
	}
	before := day.Sub(bars[i-1].Day())
	after := bars[i].Day().Sub(day)
	if after < before {
		return i
	}
	return i - 1
}

// Schedule scans forward from the first determination day (designation +
// 10 trading days) and stops at the first day that clears. The full history
// of scanned days is returned either way.
func Schedule(bars model.Series, designation time.Time) model.ReleaseSchedule {
	if len(bars) == 0 {
		return model.ReleaseSchedule{Error: "no price data"}
	}

	idx := NearestIndex(bars, designation)
	resolved := bars[idx].Day()
	note := coverageNote(designation, resolved)
	start := idx + FirstDeterminationOffset
	if start >= len(bars) {
		msg := "first determination day (T+10) not reached yet"
		if note != "" {
			msg = note + "; " + msg
		}
		return model.ReleaseSchedule{
			Status:          model.ReleaseAwaiting,
			DesignationDate: &resolved,
			History:         []model.ReleaseDetermination{},
			Message:         msg,
		}
	}

	sched := model.ReleaseSchedule{
		Status:          model.ReleasePending,
		DesignationDate: &resolved,
		Message:         note,
	}
	for i := start; i < len(bars); i++ {
		det := CheckDay(bars, i)
		sched.History = append(sched.History, det)
		if det.Clears() {
			released := det.Date
			sched.Status = model.ReleaseReleased
			sched.ReleasedDate = &released
			break
		}
	}
	last := sched.History[len(sched.History)-1]
	sched.NextThresholds = &last
	return sched
}

// coverageNote explains a designation date that the fetched bars do not
// reach, or returns "" when the nearest bar is close enough.
func coverageNote(requested, resolved time.Time) string {
	requested = model.CalendarDay(requested)
	gap := resolved.Sub(requested)
	if gap < 0 {
		gap = -gap
	}
	if gap <= MaxDesignationGap {
		return ""
	}
	return fmt.Sprintf("designation date %s is outside the price data; using nearest trading day %s",
		requested.Format(model.DateLayout), resolved.Format(model.DateLayout))
}
