package pricing

import (
	"testing"

	"comicvault/storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recommendedKinds(options []PurchaseOption) []OptionKind {
	var kinds []OptionKind
	for _, o := range options {
		if o.Recommended {
			kinds = append(kinds, o.Kind)
		}
	}
	return kinds
}

func TestBuildPurchaseOptions_BundleOutranksSubscription(t *testing.T) {
	e := newTestEngine(t)
	s := newSampleBook()

	recs, err := e.BuildRecommendations(s.issue1, []*domain.CatalogNode{s.arc1})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	options, err := e.BuildPurchaseOptions(s.issue1, recs, &SubscriptionPolicy{DiscountRate: d("0.10")})
	require.NoError(t, err)
	require.Len(t, options, 3)

	assert.Equal(t, OptionKindIndividual, options[0].Kind)
	assert.Equal(t, "4.99", options[0].Price.StringFixed(2))
	assert.Nil(t, options[0].OriginalPrice)
	assert.Empty(t, options[0].SavingsLabel)
	assert.Equal(t, []string{"issue-1"}, options[0].Items)

	assert.Equal(t, OptionKindBundle, options[1].Kind)
	assert.Equal(t, "bundle-arc-arc-1", options[1].ID)
	assert.True(t, options[1].Recommended)

	sub := options[2]
	assert.Equal(t, OptionKindSubscription, sub.Kind)
	assert.Equal(t, "4.49", sub.Price.StringFixed(2)) // 4.491
	require.NotNil(t, sub.OriginalPrice)
	assert.Equal(t, "4.99", sub.OriginalPrice.StringFixed(2))
	assert.Equal(t, "Save $0.50 (10% off)", sub.SavingsLabel)
	assert.False(t, sub.Recommended)

	assert.Equal(t, []OptionKind{OptionKindBundle}, recommendedKinds(options))
}

func TestBuildPurchaseOptions_RecommendedFallbacks(t *testing.T) {
	e := newTestEngine(t)
	item := node("issue-1", domain.NodeTypeIssue, "4.99")
	sub := &SubscriptionPolicy{DiscountRate: d("0.15")}

	t.Run("subscription when no bundles", func(t *testing.T) {
		options, err := e.BuildPurchaseOptions(item, nil, sub)
		require.NoError(t, err)
		require.Len(t, options, 2)
		assert.Equal(t, []OptionKind{OptionKindSubscription}, recommendedKinds(options))
	})

	t.Run("subscription when bundles are not selectable", func(t *testing.T) {
		options, err := e.BuildPurchaseOptions(item, []BundleRecommendation{rec(domain.NodeTypeArc, "0", "0")}, sub)
		require.NoError(t, err)
		assert.Equal(t, []OptionKind{OptionKindSubscription}, recommendedKinds(options))
	})

	t.Run("nothing recommended", func(t *testing.T) {
		options, err := e.BuildPurchaseOptions(item, nil, nil)
		require.NoError(t, err)
		require.Len(t, options, 1)
		assert.Empty(t, recommendedKinds(options))
	})

	t.Run("best bundle among several", func(t *testing.T) {
		recs := []BundleRecommendation{
			rec(domain.NodeTypeArc, "14.97", "13.47"),
			rec(domain.NodeTypeBook, "99.98", "59.99"),
		}
		options, err := e.BuildPurchaseOptions(item, recs, sub)
		require.NoError(t, err)
		require.Len(t, options, 4)
		assert.True(t, options[2].Recommended)
		assert.Equal(t, []OptionKind{OptionKindBundle}, recommendedKinds(options))
	})
}

func TestBuildPurchaseOptions_InvalidInput(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.BuildPurchaseOptions(nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.BuildPurchaseOptions(node("issue-1", domain.NodeTypeIssue, "-4.99"), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.BuildPurchaseOptions(node("issue-1", domain.NodeTypeIssue, "4.99"), nil, &SubscriptionPolicy{DiscountRate: d("2")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildPurchaseOptions_FreeSubscriptionHasNoLabel(t *testing.T) {
	e := newTestEngine(t)
	options, err := e.BuildPurchaseOptions(node("issue-free", domain.NodeTypeIssue, "0"), nil, &SubscriptionPolicy{DiscountRate: d("0.1")})
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Empty(t, options[1].SavingsLabel)
	assert.True(t, options[1].Recommended)
}
