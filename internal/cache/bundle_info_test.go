package cache

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBundleInfo(t *testing.T) {
	info, err := decodeBundleInfo([]byte(`{"individual_price":"23.46","bundle_price":"18.77","discount_percent":20}`))
	require.NoError(t, err)
	assert.True(t, info.IndividualPrice.Equal(decimal.RequireFromString("23.46")))
	assert.True(t, info.BundlePrice.Equal(decimal.RequireFromString("18.77")))
	assert.Equal(t, int64(20), info.DiscountPercent)

	_, err = decodeBundleInfo([]byte(`[`))
	assert.Error(t, err)
}
