package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatPrice renders money as the currency symbol followed by exactly two decimals.
func (e *Engine) FormatPrice(m decimal.Decimal) string {
	if m.IsNegative() {
		return "-" + e.currencySymbol + m.Neg().StringFixed(2)
	}
	return e.currencySymbol + m.StringFixed(2)
}

// FormatSavings renders "Save $X.XX (N% off)". N is the savings share of
// original rounded half-up to a whole percent and kept within [0, 100].
func (e *Engine) FormatSavings(original, sale decimal.Decimal) string {
	saved := original.Sub(sale)
	return fmt.Sprintf("Save %s (%d%% off)", e.FormatPrice(saved), savingsPercent(original, sale))
}

func savingsPercent(original, sale decimal.Decimal) int64 {
	if !original.IsPositive() {
		return 0
	}

	pct := original.Sub(sale).Mul(hundred).Div(original).Round(0).IntPart()
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}
