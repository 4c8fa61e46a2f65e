package config

import (
	"fmt"

	"comicvault/storefront/internal/domain"
	"comicvault/storefront/internal/pricing"

	"github.com/shopspring/decimal"
)

// PricingPolicy converts the pricing section into the engine's policy.
func (c *Config) PricingPolicy() (pricing.Policy, error) {
	rates := map[domain.NodeType]string{
		domain.NodeTypeArc:    c.Pricing.LevelRates.Arc,
		domain.NodeTypeSaga:   c.Pricing.LevelRates.Saga,
		domain.NodeTypeVolume: c.Pricing.LevelRates.Volume,
		domain.NodeTypeBook:   c.Pricing.LevelRates.Book,
	}

	p := pricing.Policy{
		LevelRates:     make(map[domain.NodeType]decimal.Decimal, len(rates)),
		CurrencySymbol: c.Pricing.CurrencySymbol,
	}
	for level, raw := range rates {
		rate, err := parseRate(raw)
		if err != nil {
			return pricing.Policy{}, fmt.Errorf("invalid %s rate: %w", level, err)
		}
		p.LevelRates[level] = rate
	}

	if c.Pricing.Subscription.Enabled {
		rate, err := parseRate(c.Pricing.Subscription.DiscountRate)
		if err != nil {
			return pricing.Policy{}, fmt.Errorf("invalid subscription rate: %w", err)
		}
		p.Subscription = &pricing.SubscriptionPolicy{DiscountRate: rate}
	}
	return p, nil
}
