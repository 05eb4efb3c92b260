package designation

import (
	"math"

	"StockSentinel/internal/model"
)

// MinBars is the history required by the caution and warning evaluators.
const MinBars = 15

// Caution thresholds. The official rules compare against market-index returns
// and account concentration, neither of which is available from OHLCV, so
// fixed price and volume levels stand in for them.
const (
	cautionConcentrationRise = 0.15
	cautionCloseChange       = 0.05
	cautionRise15d           = 0.75
	cautionMinVolume         = 30000
)

// Caution evaluates the investment caution rules on the latest bar. Any
// single rule triggers the category. It is pure, so the warning evaluator can
// call it over historical prefixes.
func Caution(d model.DerivedSeries) model.CategoryResult {
	if len(d) < MinBars {
		return model.Insufficient(model.CategoryCaution)
	}
	latest := d.Latest()

	avgVolume3d := trailingMeanVolume(d, 3)
	volume := float64(latest.Volume)

	concentration := latest.Change3d >= cautionConcentrationRise && avgVolume3d >= cautionMinVolume
	abruptClose := math.Abs(latest.Change1d) >= cautionCloseChange && volume >= cautionMinVolume
	rise15d := latest.Change15d >= cautionRise15d

	volumeCounters := map[string]float64{"avg_volume_3d": avgVolume3d}

	res := model.CategoryResult{Category: model.CategoryCaution}
	res.Add("minority_account_concentration", model.RuleOutcome{
		Value:       latest.Change3d,
		Threshold:   cautionConcentrationRise,
		Triggered:   concentration,
		TargetPrice: targetPrice(d, 3, cautionConcentrationRise),
		Description: "close up 15% or more over 3 days with a 3-day average volume of at least 30,000 shares",
		Counters:    volumeCounters,
	})
	res.Add("abrupt_close_change", model.RuleOutcome{
		Value:       latest.Change1d,
		Threshold:   cautionCloseChange,
		Triggered:   abruptClose,
		TargetPrice: targetPrice(d, 1, cautionCloseChange),
		Description: "close moved 5% or more from the previous close on at least 30,000 shares",
		Counters:    map[string]float64{"volume": volume},
	})
	res.Add("rise_15d", model.RuleOutcome{
		Value:       latest.Change15d,
		Threshold:   cautionRise15d,
		Triggered:   rise15d,
		TargetPrice: targetPrice(d, 15, cautionRise15d),
		Description: "close up 75% or more over 15 days",
	})
	res.Add("specific_account_involvement", model.RuleOutcome{
		Value:       latest.Change3d,
		Threshold:   cautionConcentrationRise,
		Triggered:   concentration,
		TargetPrice: targetPrice(d, 3, cautionConcentrationRise),
		Description: "same price and volume proxy as minority account concentration; account data is unavailable",
		Counters:    volumeCounters,
	})
	res.Triggered = concentration || abruptClose || rise15d
	return res
}

func trailingMeanVolume(d model.DerivedSeries, n int) float64 {
	if len(d) < n {
		return math.NaN()
	}
	sum := 0.0
	for _, r := range d[len(d)-n:] {
		sum += float64(r.Volume)
	}
	return sum / float64(n)
}
