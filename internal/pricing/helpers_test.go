package pricing

import (
	"testing"

	"comicvault/storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func prices(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, d(v))
	}
	return out
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultPolicy())
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

// sampleBook builds one book with two volumes; the first volume holds a saga
// with two arcs, the first arc has three issues at 4.99.
type sampleBook struct {
	book, volume1, volume2, saga, arc1, arc2 *domain.CatalogNode
	issue1, issue2, issue3                   *domain.CatalogNode
}

func newSampleBook() sampleBook {
	s := sampleBook{
		issue1: node("issue-1", domain.NodeTypeIssue, "4.99"),
		issue2: node("issue-2", domain.NodeTypeIssue, "4.99"),
		issue3: node("issue-3", domain.NodeTypeIssue, "4.99"),
	}
	s.arc1 = node("arc-1", domain.NodeTypeArc, "13.47", s.issue1, s.issue2, s.issue3)
	s.arc2 = node("arc-2", domain.NodeTypeArc, "9.99", node("issue-4", domain.NodeTypeIssue, "5.49"), node("issue-5", domain.NodeTypeIssue, "5.49"))
	s.saga = node("saga-1", domain.NodeTypeSaga, "19.99", s.arc1, s.arc2)
	s.volume1 = node("volume-1", domain.NodeTypeVolume, "49.99", s.saga)
	s.volume2 = node("volume-2", domain.NodeTypeVolume, "49.99", node("saga-2", domain.NodeTypeSaga, "29.99"))
	s.book = node("book-1", domain.NodeTypeBook, "79.99", s.volume1, s.volume2)
	return s
}

func (s sampleBook) issueChain() []*domain.CatalogNode {
	return []*domain.CatalogNode{s.arc1, s.saga, s.volume1, s.book}
}
