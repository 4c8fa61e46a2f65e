package pricing

import (
	"fmt"

	"comicvault/storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// Policy holds the deployment's discount rules. Rates are fractions in [0, 1].
type Policy struct {
	LevelRates     map[domain.NodeType]decimal.Decimal
	Subscription   *SubscriptionPolicy
	CurrencySymbol string
}

// SubscriptionPolicy is a flat recurring discount on a single item's price.
type SubscriptionPolicy struct {
	DiscountRate decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		LevelRates: map[domain.NodeType]decimal.Decimal{
			domain.NodeTypeArc:    decimal.RequireFromString("0.10"),
			domain.NodeTypeSaga:   decimal.RequireFromString("0.20"),
			domain.NodeTypeVolume: decimal.RequireFromString("0.30"),
			domain.NodeTypeBook:   decimal.RequireFromString("0.40"),
		},
		CurrencySymbol: "$",
	}
}

func (p Policy) validate() error {
	for _, level := range domain.BundleLevels {
		rate, ok := p.LevelRates[level]
		if !ok {
			return fmt.Errorf("%w: no discount rate for %s bundles", ErrInvalidInput, level)
		}
		if err := validateRate(rate); err != nil {
			return fmt.Errorf("%s discount rate: %w", level, err)
		}
	}
	for level := range p.LevelRates {
		if !level.IsBundleLevel() {
			return fmt.Errorf("%w: %q is not a bundle level", ErrInvalidInput, level)
		}
	}
	if p.Subscription != nil {
		if err := validateRate(p.Subscription.DiscountRate); err != nil {
			return fmt.Errorf("subscription discount rate: %w", err)
		}
	}
	return nil
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: rate %s outside [0, 1]", ErrInvalidInput, rate)
	}
	return nil
}
