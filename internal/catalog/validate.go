package catalog

import (
	"errors"
	"fmt"

	"comicvault/storefront/internal/domain"
)

var ErrInvalidTree = errors.New("invalid catalog tree")

// Validate checks the structural invariants of a forest: roots are books,
// every child is exactly one level finer than its parent, issues are leaves,
// prices are non-negative and ids are unique across the whole forest.
func Validate(roots []*domain.CatalogNode) error {
	seen := make(map[string]struct{})

	var check func(n *domain.CatalogNode, want domain.NodeType) error
	check = func(n *domain.CatalogNode, want domain.NodeType) error {
		if n == nil {
			return fmt.Errorf("%w: nil node", ErrInvalidTree)
		}
		if n.Type != want {
			return fmt.Errorf("%w: %q is a %s, expected %s", ErrInvalidTree, n.ID, n.Type, want)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidTree, n.ID)
		}
		seen[n.ID] = struct{}{}

		if n.Price.IsNegative() {
			return fmt.Errorf("%w: %q has negative price %s", ErrInvalidTree, n.ID, n.Price)
		}

		childType, ok := n.Type.Child()
		if !ok {
			if len(n.Children) > 0 {
				return fmt.Errorf("%w: issue %q has children", ErrInvalidTree, n.ID)
			}
			return nil
		}
		for _, c := range n.Children {
			if err := check(c, childType); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range roots {
		if err := check(r, domain.NodeTypeBook); err != nil {
			return err
		}
	}
	return nil
}
