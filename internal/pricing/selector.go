package pricing

import "github.com/shopspring/decimal"

// Savings ratios closer than this count as a tie.
var tieTolerance = decimal.New(1, -9)

// SelectBestValue picks the recommendation with the greatest savings ratio.
// Ties go to the later entry, i.e. the wider bundle in canonical order.
// Candidates with a zero original price are never selected.
func SelectBestValue(recs []BundleRecommendation) (BundleRecommendation, bool) {
	idx := bestValueIndex(recs)
	if idx < 0 {
		return BundleRecommendation{}, false
	}
	return recs[idx], true
}

func bestValueIndex(recs []BundleRecommendation) int {
	best := -1
	var bestRatio decimal.Decimal

	for i, rec := range recs {
		ratio, ok := savingsRatio(rec)
		if !ok {
			continue
		}
		switch {
		case best < 0:
			best, bestRatio = i, ratio
		case ratio.GreaterThan(bestRatio.Sub(tieTolerance)):
			best = i
			if ratio.GreaterThan(bestRatio) {
				bestRatio = ratio
			}
		}
	}

	return best
}

func savingsRatio(rec BundleRecommendation) (decimal.Decimal, bool) {
	if !rec.OriginalPrice.IsPositive() {
		return decimal.Zero, false
	}
	return rec.OriginalPrice.Sub(rec.Price).Div(rec.OriginalPrice), true
}
