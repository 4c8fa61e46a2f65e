package catalog

import (
	"fmt"
	"slices"
	"strings"

	"comicvault/storefront/internal/domain"

	"github.com/maruel/natural"
)

type LevelFilter string

// LevelFilterAll keeps the root nodes instead of flattening to one type.
const LevelFilterAll LevelFilter = "all"

func ParseLevelFilter(s string) (LevelFilter, error) {
	if s == "" || s == string(LevelFilterAll) {
		return LevelFilterAll, nil
	}
	t, err := domain.ParseNodeType(s)
	if err != nil {
		return "", fmt.Errorf("invalid level filter: %w", err)
	}
	return LevelFilter(t), nil
}

type SortKey string

const (
	SortByPrice      SortKey = "price"
	SortByTitle      SortKey = "title"
	SortByPopularity SortKey = "popularity"
	SortByRelease    SortKey = "release"
)

var SortKeys = []SortKey{SortByPrice, SortByTitle, SortByPopularity, SortByRelease}

func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortByRelease, nil
	}
	k := SortKey(s)
	if !slices.Contains(SortKeys, k) {
		return "", fmt.Errorf("unknown sort key %q", s)
	}
	return k, nil
}

// Walk visits every node depth-first in pre-order. Returning false stops the walk.
func Walk(roots []*domain.CatalogNode, fn func(n *domain.CatalogNode) bool) {
	var visit func(nodes []*domain.CatalogNode) bool
	visit = func(nodes []*domain.CatalogNode) bool {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			if !fn(n) || !visit(n.Children) {
				return false
			}
		}
		return true
	}
	visit(roots)
}

// FlattenByType collects every node of type t in document (pre-order) order.
func FlattenByType(roots []*domain.CatalogNode, t domain.NodeType) []*domain.CatalogNode {
	out := make([]*domain.CatalogNode, 0)
	Walk(roots, func(n *domain.CatalogNode) bool {
		if n.Type == t {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FilterAndSort returns a new slice; the tree itself is left untouched.
// Sorting is stable so equal keys keep document order.
func FilterAndSort(roots []*domain.CatalogNode, filter LevelFilter, key SortKey) ([]*domain.CatalogNode, error) {
	var nodes []*domain.CatalogNode
	if filter == LevelFilterAll || filter == "" {
		nodes = make([]*domain.CatalogNode, 0, len(roots))
		for _, r := range roots {
			if r != nil {
				nodes = append(nodes, r)
			}
		}
	} else {
		t := domain.NodeType(filter)
		if !t.Valid() {
			return nil, fmt.Errorf("unknown level filter %q", filter)
		}
		nodes = FlattenByType(roots, t)
	}

	cmp, err := comparator(key)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(nodes, cmp)
	return nodes, nil
}

func comparator(key SortKey) (func(a, b *domain.CatalogNode) int, error) {
	switch key {
	case SortByPrice:
		return func(a, b *domain.CatalogNode) int { return a.Price.Cmp(b.Price) }, nil
	case SortByTitle:
		return func(a, b *domain.CatalogNode) int { return strings.Compare(a.Title, b.Title) }, nil
	case SortByPopularity:
		return func(a, b *domain.CatalogNode) int { return PopularityScore(b).Cmp(PopularityScore(a)) }, nil
	case SortByRelease, "":
		return func(a, b *domain.CatalogNode) int { return releaseCompare(a.ID, b.ID) }, nil
	default:
		return nil, fmt.Errorf("unknown sort key %q", key)
	}
}

// releaseCompare orders ids by their embedded numbers, so "issue-2" sorts
// before "issue-10".
func releaseCompare(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}
