package repository

import (
	"testing"

	"comicvault/storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func TestNodeRowToNode(t *testing.T) {
	t.Run("full row", func(t *testing.T) {
		row := nodeRow{
			ID:                    "arc-1",
			ParentID:              strPtr("saga-1"),
			Type:                  "arc",
			Title:                 "Arc One",
			Description:           strPtr("Three issues"),
			Price:                 "13.47",
			Position:              2,
			BundleIndividualPrice: strPtr("14.97"),
			BundlePrice:           strPtr("13.47"),
			BundleDiscountPercent: int64Ptr(10),
		}

		node, err := row.toNode()
		require.NoError(t, err)

		assert.Equal(t, "arc-1", node.ID)
		assert.Equal(t, "saga-1", node.ParentID)
		assert.Equal(t, domain.NodeTypeArc, node.Type)
		assert.Equal(t, "Three issues", node.Description)
		assert.True(t, node.Price.Equal(decimal.RequireFromString("13.47")))
		assert.Equal(t, 2, node.Position)
		assert.Nil(t, node.Children)
		require.NotNil(t, node.BundleInfo)
		assert.True(t, node.BundleInfo.IndividualPrice.Equal(decimal.RequireFromString("14.97")))
		assert.Equal(t, int64(10), node.BundleInfo.DiscountPercent)
	})

	t.Run("book without parent or snapshot", func(t *testing.T) {
		node, err := nodeRow{ID: "book-1", Type: "book", Title: "Book", Price: "79.99"}.toNode()
		require.NoError(t, err)
		assert.Empty(t, node.ParentID)
		assert.Nil(t, node.BundleInfo)
	})

	t.Run("partial snapshot is ignored", func(t *testing.T) {
		node, err := nodeRow{ID: "saga-1", Type: "saga", Price: "19.99", BundlePrice: strPtr("18.77")}.toNode()
		require.NoError(t, err)
		assert.Nil(t, node.BundleInfo)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := nodeRow{ID: "x", Type: "chapter", Price: "1.00"}.toNode()
		assert.Error(t, err)
	})

	t.Run("unreadable price", func(t *testing.T) {
		_, err := nodeRow{ID: "x", Type: "issue", Price: "abc"}.toNode()
		assert.Error(t, err)
	})
}

func TestAttachChildren(t *testing.T) {
	arc := &domain.CatalogNode{ID: "arc-1", Type: domain.NodeTypeArc}
	empty := &domain.CatalogNode{ID: "arc-2", Type: domain.NodeTypeArc}
	children := []*domain.CatalogNode{
		{ID: "issue-1", ParentID: "arc-1", Type: domain.NodeTypeIssue},
		{ID: "issue-2", ParentID: "arc-1", Type: domain.NodeTypeIssue},
		{ID: "stray", ParentID: "arc-9", Type: domain.NodeTypeIssue},
	}

	attachChildren([]*domain.CatalogNode{arc, empty}, children)

	assert.Equal(t, []string{"issue-1", "issue-2"}, arc.ChildIDs())
	require.NotNil(t, empty.Children)
	assert.Empty(t, empty.Children)
}

func TestAssembleForest(t *testing.T) {
	nodes := []*domain.CatalogNode{
		{ID: "book-1", Type: domain.NodeTypeBook},
		{ID: "vol-1", ParentID: "book-1", Type: domain.NodeTypeVolume},
		{ID: "vol-2", ParentID: "book-1", Type: domain.NodeTypeVolume},
		{ID: "saga-1", ParentID: "vol-1", Type: domain.NodeTypeSaga},
		{ID: "orphan", ParentID: "missing", Type: domain.NodeTypeSaga},
		{ID: "book-2", Type: domain.NodeTypeBook},
	}

	roots := assembleForest(nodes)

	require.Len(t, roots, 2)
	assert.Equal(t, "book-1", roots[0].ID)
	assert.Equal(t, "book-2", roots[1].ID)
	assert.Equal(t, []string{"vol-1", "vol-2"}, roots[0].ChildIDs())
	assert.Equal(t, []string{"saga-1"}, roots[0].Children[0].ChildIDs())
	require.NotNil(t, roots[1].Children)
	assert.Empty(t, roots[1].Children)
}

func TestNullableString(t *testing.T) {
	assert.Nil(t, nullableString(""))
	require.NotNil(t, nullableString("book-1"))
	assert.Equal(t, "book-1", *nullableString("book-1"))
}
