package designation

import (
	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
)

// Warning designation notice thresholds.
const (
	warningRise3d  = 1.00
	warningRise5d  = 0.60
	warningRise15d = 1.00

	// A stock that was caution-designated on at least repeatDays of the
	// last 15 bars and rose repeatRise15d over 15 days is also flagged.
	repeatDays    = 5
	repeatRise15d = 0.75

	highWindow = 15
)

// Warning evaluates the investment warning notice rules on the latest bar.
// Every rule is gated on the latest close being the highest close of the
// trailing 15 bars.
func Warning(d model.DerivedSeries) model.CategoryResult {
	if len(d) < MinBars {
		return model.Insufficient(model.CategoryWarning)
	}
	latest := d.Latest()

	atMax := calculator.IsHighestClose(d.Bars().Closes(), highWindow)
	cautionDays := CautionDays(d, highWindow)

	surge3d := atMax && latest.Change3d >= warningRise3d
	surge5d := atMax && latest.Change5d >= warningRise5d
	surge15d := atMax && latest.Change15d >= warningRise15d
	repeat := atMax && cautionDays >= repeatDays && latest.Change15d >= repeatRise15d

	suffix := ""
	if atMax {
		suffix = " (highest close of the last 15 days)"
	}

	res := model.CategoryResult{Category: model.CategoryWarning}
	res.Add("ultra_short_term_surge_3d", model.RuleOutcome{
		Value:       latest.Change3d,
		Threshold:   warningRise3d,
		Triggered:   surge3d,
		TargetPrice: targetPrice(d, 3, warningRise3d),
		AtMax:       &atMax,
		Description: "close up 100% or more from 3 days earlier" + suffix,
	})
	res.Add("short_term_surge_5d", model.RuleOutcome{
		Value:       latest.Change5d,
		Threshold:   warningRise5d,
		Triggered:   surge5d,
		TargetPrice: targetPrice(d, 5, warningRise5d),
		AtMax:       &atMax,
		Description: "close up 60% or more from 5 days earlier" + suffix,
	})
	res.Add("medium_term_surge_15d", model.RuleOutcome{
		Value:       latest.Change15d,
		Threshold:   warningRise15d,
		Triggered:   surge15d,
		TargetPrice: targetPrice(d, 15, warningRise15d),
		AtMax:       &atMax,
		Description: "close up 100% or more from 15 days earlier" + suffix,
	})
	res.Add("caution_repeat_surge", model.RuleOutcome{
		Value:       latest.Change15d,
		Threshold:   repeatRise15d,
		Triggered:   repeat,
		TargetPrice: targetPrice(d, 15, repeatRise15d),
		AtMax:       &atMax,
		Description: "caution triggered on 5 or more of the last 15 days and close up 75% or more from 15 days earlier" + suffix,
		Counters:    map[string]float64{"caution_days": float64(cautionDays), "required_days": repeatDays},
	})
	res.Triggered = surge3d || surge5d || surge15d || repeat
	return res
}

// CautionDays counts how many of the last window bars would have triggered
// the caution category, evaluating each bar on the series truncated to end
// there. Derived rows never look ahead, so truncating the derived series is
// the same as re-deriving the prefix.
func CautionDays(d model.DerivedSeries, window int) int {
	start := len(d) - window
	if start < 0 {
		start = 0
	}
	count := 0
	for end := start + 1; end <= len(d); end++ {
		if Caution(d[:end]).Triggered {
			count++
		}
	}
	return count
}
