package catalog

import (
	"errors"
	"fmt"

	"comicvault/storefront/internal/domain"
)

var ErrNodeNotFound = errors.New("catalog node not found")

// FindPath locates id in a loaded forest and returns the node together with
// its ancestors, immediate parent first.
func FindPath(roots []*domain.CatalogNode, id string) (*domain.CatalogNode, []*domain.CatalogNode, error) {
	var path []*domain.CatalogNode
	var found *domain.CatalogNode

	var visit func(nodes []*domain.CatalogNode) bool
	visit = func(nodes []*domain.CatalogNode) bool {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			if n.ID == id {
				found = n
				return true
			}
			path = append(path, n)
			if visit(n.Children) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}

	if !visit(roots) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	ancestors := make([]*domain.CatalogNode, 0, len(path))
	for i := len(path) - 1; i >= 0; i-- {
		ancestors = append(ancestors, path[i])
	}
	return found, ancestors, nil
}
