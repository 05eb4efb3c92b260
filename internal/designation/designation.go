// Package designation evaluates the overheating, caution and warning
// designation rules against a derived price series.
package designation

import "StockSentinel/internal/model"

// Results groups the three category outcomes for one evaluation date.
type Results struct {
	Overheating model.CategoryResult
	Caution     model.CategoryResult
	Warning     model.CategoryResult
}

// Evaluate runs every category on the latest row of d.
func Evaluate(d model.DerivedSeries) Results {
	return Results{
		Overheating: Overheating(d),
		Caution:     Caution(d),
		Warning:     Warning(d),
	}
}

// targetPrice is the close at which a rise of threshold over n bars would
// first be met, or nil when the series does not reach back n bars.
func targetPrice(d model.DerivedSeries, n int, threshold float64) *float64 {
	base := d.CloseAgo(n)
	if !model.Defined(base) {
		return nil
	}
	return price64(base * (1 + threshold))
}

func price64(v float64) *float64 {
	if !model.Defined(v) {
		return nil
	}
	return &v
}
