package catalog

import (
	"comicvault/storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// PopularityScore ranks nodes for the "popularity" sort, highest first.
//
// TODO: replace with real sales counts once order history is exposed to the
// catalog; until then the list price stands in, so pricier nodes rank first.
func PopularityScore(n *domain.CatalogNode) decimal.Decimal {
	return n.Price
}
