package calculator

import (
	"math"

	"StockSentinel/internal/model"
)

// Window is the trailing length of every moving average.
const Window = 40

// Derive computes the indicator columns for every bar of the series. Each row
// only depends on bars at or before it. An empty series yields an empty
// result.
func Derive(series model.Series) model.DerivedSeries {
	if len(series) == 0 {
		return model.DerivedSeries{}
	}

	closes := series.Closes()
	volumes := series.Volumes()

	change1 := PctChange(closes, 1)
	change3 := PctChange(closes, 3)
	change5 := PctChange(closes, 5)
	change15 := PctChange(closes, 15)

	ma40 := RollingMean(closes, Window)
	volMA40 := RollingMean(volumes, Window)

	volatility := make([]float64, len(series))
	for i, b := range series {
		volatility[i] = (b.High - b.Low) / b.Close
	}
	volatilityMA40 := RollingMean(volatility, Window)

	out := make(model.DerivedSeries, len(series))
	for i, b := range series {
		ratio := math.NaN()
		if model.Defined(volMA40[i]) && volMA40[i] != 0 {
			ratio = volumes[i] / volMA40[i]
		}
		out[i] = model.DerivedRow{
			PriceBar:       b,
			Change1d:       change1[i],
			Change3d:       change3[i],
			Change5d:       change5[i],
			Change15d:      change15[i],
			MA40:           ma40[i],
			VolMA40:        volMA40[i],
			VolRatio:       ratio,
			Volatility:     volatility[i],
			VolatilityMA40: volatilityMA40[i],
		}
	}
	return out
}
