// Package display renders reports and release schedules for people: shared
// value formatting plus the terminal views used by the CLI.
package display

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"StockSentinel/internal/designation"
	"StockSentinel/internal/model"
)

// Won formats a KRW price with thousands separators, or "n/a".
func Won(v float64) string {
	if !model.Defined(v) {
		return "n/a"
	}
	return "₩" + humanize.Comma(int64(math.Round(v)))
}

// RuleValue formats a rule value or threshold according to the rule's kind.
func RuleValue(name string, v float64) string {
	if !model.Defined(v) {
		return "n/a"
	}
	switch designation.ValueKind(name) {
	case "price":
		return Won(v)
	case "multiple":
		return fmt.Sprintf("%.2fx", v)
	}
	return fmt.Sprintf("%+.1f%%", v*100)
}

// LastDeterminations returns up to n trailing entries of history.
func LastDeterminations(history []model.ReleaseDetermination, n int) []model.ReleaseDetermination {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// Verdict summarises one release determination.
func Verdict(det model.ReleaseDetermination) string {
	switch {
	case det.InsufficientHistory:
		return "insufficient history"
	case det.Clears():
		return "clears"
	}
	return "blocked by " + strings.Join(det.Fails.Names(), ", ")
}
