package pricing

import (
	"errors"
	"fmt"

	"comicvault/storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput marks precondition violations: empty bundles, negative or
// sub-cent prices, unknown levels and ancestor chains that break the hierarchy.
var ErrInvalidInput = errors.New("invalid pricing input")

// IntegrityWarning reports a cached BundleInfo whose bundle price exceeds the
// individual price. It never stops a computation.
type IntegrityWarning struct {
	NodeID          string
	IndividualPrice decimal.Decimal
	BundlePrice     decimal.Decimal
}

func (w IntegrityWarning) String() string {
	return fmt.Sprintf("node %s caches bundle price %s above individual price %s",
		w.NodeID, w.BundlePrice, w.IndividualPrice)
}

// CheckBundleInfo inspects the cached snapshot on n, if any.
func CheckBundleInfo(n *domain.CatalogNode) *IntegrityWarning {
	if n == nil || n.BundleInfo == nil {
		return nil
	}
	if n.BundleInfo.BundlePrice.GreaterThan(n.BundleInfo.IndividualPrice) {
		return &IntegrityWarning{
			NodeID:          n.ID,
			IndividualPrice: n.BundleInfo.IndividualPrice,
			BundlePrice:     n.BundleInfo.BundlePrice,
		}
	}
	return nil
}

func validatePrice(id string, price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: negative price %s on %q", ErrInvalidInput, price, id)
	}
	if !price.Equal(price.Round(2)) {
		return fmt.Errorf("%w: price %s on %q has sub-cent precision", ErrInvalidInput, price, id)
	}
	return nil
}
