package domain

import "github.com/shopspring/decimal"

// CatalogNode is one entry of the Book → Volume → Saga → Arc → Issue hierarchy.
//
// Children == nil means the child list was not loaded; an empty non-nil slice
// means the node is known to have no children.
type CatalogNode struct {
	ID          string          `json:"id"`
	ParentID    string          `json:"parent_id,omitempty"`
	Type        NodeType        `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Position    int             `json:"position"`
	Children    []*CatalogNode  `json:"children,omitempty"`
	BundleInfo  *BundleInfo     `json:"bundle_info,omitempty"`
}

// BundleInfo is a precomputed pricing snapshot for list views. It may be
// stale and is never used as input to a new price computation.
type BundleInfo struct {
	IndividualPrice decimal.Decimal `json:"individual_price"`
	BundlePrice     decimal.Decimal `json:"bundle_price"`
	DiscountPercent int64           `json:"discount_percent"`
}

func (n *CatalogNode) IsBundle() bool {
	return len(n.Children) > 0
}

// ChildIDs returns the ids of the materialized children in document order.
func (n *CatalogNode) ChildIDs() []string {
	ids := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		ids = append(ids, c.ID)
	}
	return ids
}
