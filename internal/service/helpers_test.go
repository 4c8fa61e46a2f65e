package service

import (
	"testing"

	"comicvault/storefront/internal/domain"
	"comicvault/storefront/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestEngine(t *testing.T) *pricing.Engine {
	t.Helper()
	e, err := pricing.NewEngine(pricing.DefaultPolicy())
	require.NoError(t, err)
	return e
}

func node(id string, nodeType domain.NodeType, price string, children ...*domain.CatalogNode) *domain.CatalogNode {
	n := &domain.CatalogNode{
		ID:    id,
		Type:  nodeType,
		Title: id,
		Price: d(price),
	}
	if len(children) > 0 {
		n.Children = children
		for _, c := range children {
			c.ParentID = id
		}
	}
	return n
}

// shelf is one fully loaded book: two volumes, the first holding a saga with
// two arcs; arc-1 has three issues at 4.99.
type shelf struct {
	book, volume1, volume2, saga, arc1, arc2 *domain.CatalogNode
	issue1                                   *domain.CatalogNode
}

func newShelf() shelf {
	s := shelf{issue1: node("issue-1", domain.NodeTypeIssue, "4.99")}
	s.arc1 = node("arc-1", domain.NodeTypeArc, "13.47",
		s.issue1,
		node("issue-2", domain.NodeTypeIssue, "4.99"),
		node("issue-3", domain.NodeTypeIssue, "4.99"),
	)
	s.arc2 = node("arc-2", domain.NodeTypeArc, "9.99",
		node("issue-4", domain.NodeTypeIssue, "5.49"),
		node("issue-5", domain.NodeTypeIssue, "5.49"),
	)
	s.saga = node("saga-1", domain.NodeTypeSaga, "19.99", s.arc1, s.arc2)
	s.volume1 = node("volume-1", domain.NodeTypeVolume, "49.99", s.saga)
	s.volume2 = node("volume-2", domain.NodeTypeVolume, "49.99",
		node("saga-2", domain.NodeTypeSaga, "29.99",
			node("arc-3", domain.NodeTypeArc, "29.99",
				node("issue-6", domain.NodeTypeIssue, "29.99"),
			),
		),
	)
	s.book = node("book-1", domain.NodeTypeBook, "79.99", s.volume1, s.volume2)
	return s
}

// ancestorsOfIssue1 returns the chain the repository would load for issue-1.
func (s shelf) ancestorsOfIssue1() []*domain.CatalogNode {
	return []*domain.CatalogNode{s.arc1, s.saga, s.volume1, s.book}
}

// standalone returns a copy of n without its children, as GetNode loads it.
func standalone(n *domain.CatalogNode) *domain.CatalogNode {
	c := *n
	c.Children = nil
	return &c
}
