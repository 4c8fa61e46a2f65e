package pricing

import (
	"fmt"

	"comicvault/storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// BundleRecommendation is one upsell option built for a node. It is created
// per request and never stored.
type BundleRecommendation struct {
	NodeID        string          `json:"node_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	SavingsLabel  string          `json:"savings_label"`
	Type          domain.NodeType `json:"type"`
	Items         []string        `json:"items"`
}

// BuildRecommendations returns one recommendation per enclosing bundle of node,
// narrowest (arc) first. ancestors may be given in any order; an ancestor whose
// children were not loaded is skipped.
func (e *Engine) BuildRecommendations(node *domain.CatalogNode, ancestors []*domain.CatalogNode) ([]BundleRecommendation, error) {
	if err := validateChain(node, ancestors); err != nil {
		return nil, err
	}

	byType := make(map[domain.NodeType]*domain.CatalogNode, len(ancestors))
	for _, a := range ancestors {
		byType[a.Type] = a
	}

	recs := make([]BundleRecommendation, 0, len(domain.BundleLevels))
	for _, level := range domain.BundleLevels {
		if !level.IsCoarserThan(node.Type) {
			continue
		}

		ancestor, ok := byType[level]
		if !ok || len(ancestor.Children) == 0 {
			continue
		}
		if level == domain.NodeTypeArc && len(ancestor.Children) < 2 {
			continue
		}

		rec, err := e.recommend(ancestor)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

func (e *Engine) recommend(ancestor *domain.CatalogNode) (BundleRecommendation, error) {
	prices := childPrices(ancestor)
	price, err := e.ComputeBundlePrice(prices, ancestor.Type)
	if err != nil {
		return BundleRecommendation{}, fmt.Errorf("failed to price %s %q: %w", ancestor.Type, ancestor.ID, err)
	}
	original := sum(prices)

	return BundleRecommendation{
		NodeID:        ancestor.ID,
		Title:         bundleTitle(ancestor),
		Description:   bundleDescription(ancestor),
		Price:         price,
		OriginalPrice: original,
		SavingsLabel:  e.FormatSavings(original, price),
		Type:          ancestor.Type,
		Items:         ancestor.ChildIDs(),
	}, nil
}

func validateChain(node *domain.CatalogNode, ancestors []*domain.CatalogNode) error {
	if node == nil {
		return fmt.Errorf("%w: nil node", ErrInvalidInput)
	}
	if !node.Type.Valid() {
		return fmt.Errorf("%w: node %q has unknown type %q", ErrInvalidInput, node.ID, node.Type)
	}
	if err := validatePrice(node.ID, node.Price); err != nil {
		return err
	}

	seen := make(map[domain.NodeType]string, len(ancestors))
	for _, a := range ancestors {
		if a == nil {
			return fmt.Errorf("%w: nil ancestor of %q", ErrInvalidInput, node.ID)
		}
		if !a.Type.IsCoarserThan(node.Type) {
			return fmt.Errorf("%w: %s %q cannot enclose %s %q", ErrInvalidInput, a.Type, a.ID, node.Type, node.ID)
		}
		if prev, dup := seen[a.Type]; dup {
			return fmt.Errorf("%w: ancestors %q and %q are both %s", ErrInvalidInput, prev, a.ID, a.Type)
		}
		seen[a.Type] = a.ID

		childType, _ := a.Type.Child()
		for _, c := range a.Children {
			if c == nil || c.Type != childType {
				return fmt.Errorf("%w: %s %q has a child that is not a %s", ErrInvalidInput, a.Type, a.ID, childType)
			}
		}
	}

	return nil
}
