// Package pricing computes bundle prices, upsell recommendations and the
// purchase options shown for a catalog node. Everything here is a pure
// function of its arguments and safe for concurrent use.
package pricing

import (
	"fmt"
	"strings"

	"comicvault/storefront/internal/domain"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

type Engine struct {
	rates          map[domain.NodeType]decimal.Decimal
	subscription   *SubscriptionPolicy
	currencySymbol string
}

func NewEngine(policy Policy) (*Engine, error) {
	if err := policy.validate(); err != nil {
		return nil, err
	}

	rates := make(map[domain.NodeType]decimal.Decimal, len(policy.LevelRates))
	for level, rate := range policy.LevelRates {
		rates[level] = rate
	}

	symbol := policy.CurrencySymbol
	if symbol == "" {
		symbol = "$"
	}

	var sub *SubscriptionPolicy
	if policy.Subscription != nil {
		sub = &SubscriptionPolicy{DiscountRate: policy.Subscription.DiscountRate}
	}

	return &Engine{
		rates:          rates,
		subscription:   sub,
		currencySymbol: symbol,
	}, nil
}

// Subscription returns the configured subscription policy, or nil when subscriptions are disabled.
func (e *Engine) Subscription() *SubscriptionPolicy {
	if e.subscription == nil {
		return nil
	}
	sub := *e.subscription
	return &sub
}

// Rate returns the discount rate of a bundle level.
func (e *Engine) Rate(level domain.NodeType) (decimal.Decimal, error) {
	rate, ok := e.rates[level]
	if !ok || !level.IsBundleLevel() {
		return decimal.Zero, fmt.Errorf("%w: %q is not a bundle level", ErrInvalidInput, level)
	}
	return rate, nil
}

// ComputeBundlePrice sums prices and applies the level's discount, rounding
// half-up to the cent once, after summation.
func (e *Engine) ComputeBundlePrice(prices []decimal.Decimal, level domain.NodeType) (decimal.Decimal, error) {
	rate, err := e.Rate(level)
	if err != nil {
		return decimal.Zero, err
	}
	if len(prices) == 0 {
		return decimal.Zero, fmt.Errorf("%w: %s bundle has no items", ErrInvalidInput, level)
	}

	total := decimal.Zero
	for i, price := range prices {
		if err := validatePrice(fmt.Sprintf("item %d", i), price); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(price)
	}

	return applyDiscount(total, rate), nil
}

func applyDiscount(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(one.Sub(rate)).Round(2)
}

// ComputeBundleInfo builds the list-view snapshot for a bundle node from its
// materialized children.
func (e *Engine) ComputeBundleInfo(n *domain.CatalogNode) (*domain.BundleInfo, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil node", ErrInvalidInput)
	}

	prices := childPrices(n)
	bundlePrice, err := e.ComputeBundlePrice(prices, n.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to price bundle %q: %w", n.ID, err)
	}

	individual := sum(prices)
	return &domain.BundleInfo{
		IndividualPrice: individual,
		BundlePrice:     bundlePrice,
		DiscountPercent: savingsPercent(individual, bundlePrice),
	}, nil
}

func childPrices(n *domain.CatalogNode) []decimal.Decimal {
	prices := make([]decimal.Decimal, 0, len(n.Children))
	for _, c := range n.Children {
		prices = append(prices, c.Price)
	}
	return prices
}

func sum(prices []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(p)
	}
	return total
}

var bundleLabels = map[domain.NodeType]string{
	domain.NodeTypeArc:    "Arc",
	domain.NodeTypeSaga:   "Saga",
	domain.NodeTypeVolume: "Volume",
	domain.NodeTypeBook:   "Complete Book",
}

func bundleTitle(n *domain.CatalogNode) string {
	return fmt.Sprintf("%s Bundle: %s", bundleLabels[n.Type], n.Title)
}

func bundleDescription(n *domain.CatalogNode) string {
	childType, _ := n.Type.Child()
	return fmt.Sprintf("All %d %s in this %s", len(n.Children), strings.ToLower(childType.GetTypeName()), n.Type)
}
