package calculator

import (
	"errors"
	"math"
)

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// RollingMean returns, for every index t, the mean of values[t-window+1..t].
// Positions with fewer than window values, or with an undefined value inside
// the window, are NaN.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for t := range values {
		if t+1 < window || window <= 0 {
			out[t] = math.NaN()
			continue
		}
		ma, err := CalculateSMA(values[:t+1], window)
		if err != nil {
			out[t] = math.NaN()
			continue
		}
		out[t] = ma
	}
	return out
}

// PctChange returns values[t]/values[t-periods] - 1, NaN for the first
// periods positions.
func PctChange(values []float64, periods int) []float64 {
	out := make([]float64, len(values))
	for t := range values {
		if t < periods || periods <= 0 || values[t-periods] == 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = values[t]/values[t-periods] - 1
	}
	return out
}
