package calculator

import (
	"errors"
	"math"
)

// TrailingMax returns the maximum of the last window values, inclusive of the
// final one. A shorter slice uses whatever is available.
func TrailingMax(values []float64, window int) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values provided")
	}
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	start := len(values) - window
	if start < 0 {
		start = 0
	}
	high := math.Inf(-1)
	for i := start; i < len(values); i++ {
		if values[i] > high {
			high = values[i]
		}
	}
	return high, nil
}

// IsHighestClose reports whether the last value is the highest of the
// trailing window including itself. Ties with an earlier high count as the
// highest.
func IsHighestClose(closes []float64, window int) bool {
	high, err := TrailingMax(closes, window)
	if err != nil {
		return false
	}
	return closes[len(closes)-1] >= high
}
