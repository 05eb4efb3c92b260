package designation

import "StockSentinel/internal/model"

const (
	// OverheatingMinBars is the history needed for 40-bar averages plus the latest bar.
	OverheatingMinBars = 41

	overheatPriceMultiple      = 1.3
	overheatTurnoverRatio      = 5.0
	overheatVolatilityMultiple = 1.5
)

// Overheating evaluates the short-term overheating rules on the latest bar.
// All three conditions must hold at once.
func Overheating(d model.DerivedSeries) model.CategoryResult {
	if len(d) < OverheatingMinBars {
		return model.Insufficient(model.CategoryOverheating)
	}
	latest := d.Latest()

	priceThreshold := latest.MA40 * overheatPriceMultiple
	volatilityThreshold := latest.VolatilityMA40 * overheatVolatilityMultiple

	price := latest.Close >= priceThreshold
	turnover := latest.VolRatio >= overheatTurnoverRatio
	volatility := latest.Volatility >= volatilityThreshold

	res := model.CategoryResult{Category: model.CategoryOverheating}
	res.Add("price", model.RuleOutcome{
		Value:       latest.Close,
		Threshold:   priceThreshold,
		Triggered:   price,
		TargetPrice: price64(priceThreshold),
		Description: "close at or above 130% of the 40-day average close",
	})
	res.Add("turnover", model.RuleOutcome{
		Value:       latest.VolRatio,
		Threshold:   overheatTurnoverRatio,
		Triggered:   turnover,
		Description: "volume at or above 500% of the 40-day average volume",
	})
	res.Add("volatility", model.RuleOutcome{
		Value:       latest.Volatility,
		Threshold:   volatilityThreshold,
		Triggered:   volatility,
		Description: "intraday range at or above 150% of its 40-day average",
	})
	res.Triggered = price && turnover && volatility
	return res
}
