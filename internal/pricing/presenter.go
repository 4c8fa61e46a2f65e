package pricing

import (
	"fmt"

	"comicvault/storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type OptionKind string

const (
	OptionKindIndividual   OptionKind = "individual"
	OptionKindBundle       OptionKind = "bundle"
	OptionKindSubscription OptionKind = "subscription"
)

// PurchaseOption is one of the mutually exclusive choices offered for an item.
type PurchaseOption struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	SavingsLabel  string           `json:"savings_label,omitempty"`
	Kind          OptionKind       `json:"kind"`
	Items         []string         `json:"items"`
	Recommended   bool             `json:"recommended"`
}

// BuildPurchaseOptions lists the individual option, one bundle option per
// recommendation (order kept) and, when sub is non-nil, a subscription option.
// The best-value bundle is marked recommended; without one the subscription
// is; otherwise nothing is.
func (e *Engine) BuildPurchaseOptions(item *domain.CatalogNode, recs []BundleRecommendation, sub *SubscriptionPolicy) ([]PurchaseOption, error) {
	if item == nil {
		return nil, fmt.Errorf("%w: nil item", ErrInvalidInput)
	}
	if err := validatePrice(item.ID, item.Price); err != nil {
		return nil, err
	}
	if sub != nil {
		if err := validateRate(sub.DiscountRate); err != nil {
			return nil, fmt.Errorf("subscription discount rate: %w", err)
		}
	}

	options := make([]PurchaseOption, 0, len(recs)+2)
	options = append(options, PurchaseOption{
		ID:          item.ID,
		Title:       item.Title,
		Description: fmt.Sprintf("Buy this %s on its own", item.Type),
		Price:       item.Price,
		Kind:        OptionKindIndividual,
		Items:       []string{item.ID},
	})

	for _, rec := range recs {
		original := rec.OriginalPrice
		options = append(options, PurchaseOption{
			ID:            fmt.Sprintf("bundle-%s-%s", rec.Type, rec.NodeID),
			Title:         rec.Title,
			Description:   rec.Description,
			Price:         rec.Price,
			OriginalPrice: &original,
			SavingsLabel:  rec.SavingsLabel,
			Kind:          OptionKindBundle,
			Items:         append([]string(nil), rec.Items...),
		})
	}

	if sub != nil {
		price := applyDiscount(item.Price, sub.DiscountRate)
		original := item.Price
		opt := PurchaseOption{
			ID:            "subscription-" + item.ID,
			Title:         "Subscribe & Save",
			Description:   fmt.Sprintf("Get this %s with a %s subscription discount", item.Type, formatPercent(sub.DiscountRate)),
			Price:         price,
			OriginalPrice: &original,
			Kind:          OptionKindSubscription,
			Items:         []string{item.ID},
		}
		if price.LessThan(original) {
			opt.SavingsLabel = e.FormatSavings(original, price)
		}
		options = append(options, opt)
	}

	if idx := bestValueIndex(recs); idx >= 0 {
		options[1+idx].Recommended = true
	} else if sub != nil {
		options[len(options)-1].Recommended = true
	}

	return options, nil
}

func formatPercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).Round(0).String() + "%"
}
