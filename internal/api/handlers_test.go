package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"comicvault/storefront/internal/catalog"
	"comicvault/storefront/internal/domain"
	"comicvault/storefront/internal/mocks"
	"comicvault/storefront/internal/pricing"
	"comicvault/storefront/internal/repository"
	"comicvault/storefront/internal/service"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestServer(t *testing.T) (*httptest.Server, *mocks.MockStorefront) {
	t.Helper()

	engine, err := pricing.NewEngine(pricing.DefaultPolicy())
	require.NoError(t, err)

	sf := &mocks.MockStorefront{}
	srv := httptest.NewServer(NewHandler(sf, engine).Routes())
	t.Cleanup(srv.Close)
	return srv, sf
}

func get(t *testing.T, url string, out interface{}) int {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/healthz", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBrowse(t *testing.T) {
	srv, sf := newTestServer(t)

	arc := &domain.CatalogNode{
		ID:       "arc-1",
		ParentID: "saga-1",
		Type:     domain.NodeTypeArc,
		Title:    "Arc One",
		Price:    d("13.5"),
		Children: []*domain.CatalogNode{{ID: "issue-1"}, {ID: "issue-2"}},
		BundleInfo: &domain.BundleInfo{
			IndividualPrice: d("14.97"),
			BundlePrice:     d("13.47"),
			DiscountPercent: 10,
		},
	}
	sf.On("Browse", mock.Anything, catalog.LevelFilter(domain.NodeTypeArc), catalog.SortByPrice).
		Return([]*domain.CatalogNode{arc}, nil).Once()

	var body catalogResponse
	status := get(t, srv.URL+"/catalog?level=arc&sort=price", &body)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "arc", body.Level)
	assert.Equal(t, "price", body.Sort)
	require.Len(t, body.Items, 1)

	item := body.Items[0]
	assert.Equal(t, "arc-1", item.ID)
	assert.Equal(t, "13.50", item.Price)
	assert.Equal(t, "$13.50", item.DisplayPrice)
	assert.Equal(t, 2, item.ChildCount)
	require.NotNil(t, item.BundleInfo)
	assert.True(t, item.BundleInfo.BundlePrice.Equal(d("13.47")))
	sf.AssertExpectations(t)
}

func TestBrowseDefaults(t *testing.T) {
	srv, sf := newTestServer(t)
	sf.On("Browse", mock.Anything, catalog.LevelFilterAll, catalog.SortByRelease).Return([]*domain.CatalogNode{}, nil).Once()

	var body catalogResponse
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/catalog", &body))
	assert.Equal(t, "all", body.Level)
	assert.Equal(t, "release", body.Sort)
	assert.Empty(t, body.Items)
}

func TestBrowseRejectsUnknownParameters(t *testing.T) {
	srv, sf := newTestServer(t)

	tests := []struct {
		query string
		code  string
	}{
		{query: "level=chapter", code: "INVALID_LEVEL"},
		{query: "sort=rating", code: "INVALID_SORT"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var body errorBody
			assert.Equal(t, http.StatusBadRequest, get(t, srv.URL+"/catalog?"+tt.query, &body))
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}

	sf.AssertNotCalled(t, "Browse", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseOptions(t *testing.T) {
	srv, sf := newTestServer(t)

	original := d("14.97")
	sf.On("PurchaseOptions", mock.Anything, "issue-1").Return([]pricing.PurchaseOption{
		{ID: "issue-1", Title: "Issue #1", Price: d("4.99"), Kind: pricing.OptionKindIndividual, Items: []string{"issue-1"}},
		{
			ID:            "bundle-arc-arc-1",
			Title:         "Arc Bundle: Arc One",
			Price:         d("13.47"),
			OriginalPrice: &original,
			SavingsLabel:  "Save $1.50 (10% off)",
			Kind:          pricing.OptionKindBundle,
			Items:         []string{"issue-1", "issue-2", "issue-3"},
			Recommended:   true,
		},
	}, nil).Once()

	var body struct {
		ItemID  string `json:"item_id"`
		Options []struct {
			ID                   string   `json:"id"`
			Price                string   `json:"price"`
			DisplayPrice         string   `json:"display_price"`
			DisplayOriginalPrice string   `json:"display_original_price"`
			SavingsLabel         string   `json:"savings_label"`
			Kind                 string   `json:"kind"`
			Items                []string `json:"items"`
			Recommended          bool     `json:"recommended"`
		} `json:"options"`
	}
	require.Equal(t, http.StatusOK, get(t, srv.URL+"/catalog/issue-1/purchase-options", &body))

	assert.Equal(t, "issue-1", body.ItemID)
	require.Len(t, body.Options, 2)
	assert.Equal(t, "$4.99", body.Options[0].DisplayPrice)
	assert.Empty(t, body.Options[0].DisplayOriginalPrice)
	assert.False(t, body.Options[0].Recommended)

	bundle := body.Options[1]
	assert.Equal(t, "bundle-arc-arc-1", bundle.ID)
	assert.Equal(t, "13.47", bundle.Price)
	assert.Equal(t, "$13.47", bundle.DisplayPrice)
	assert.Equal(t, "$14.97", bundle.DisplayOriginalPrice)
	assert.Equal(t, "Save $1.50 (10% off)", bundle.SavingsLabel)
	assert.Equal(t, "bundle", bundle.Kind)
	assert.Len(t, bundle.Items, 3)
	assert.True(t, bundle.Recommended)
}

func TestPurchaseOptionsErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "not found",
			err:     fmt.Errorf("failed to load x: %w", repository.ErrNotFound),
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "item not found",
		},
		{
			name:    "unpriceable",
			err:     fmt.Errorf("%w: x", service.ErrUnpriceable),
			status:  http.StatusUnprocessableEntity,
			code:    "UNPRICEABLE",
			message: "unable to price this item",
		},
		{
			name:    "internal",
			err:     errors.New("pool closed"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL",
			message: "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, sf := newTestServer(t)
			sf.On("PurchaseOptions", mock.Anything, "x").Return(nil, tt.err).Once()

			var body errorBody
			assert.Equal(t, tt.status, get(t, srv.URL+"/catalog/x/purchase-options", &body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}

func TestRecommendations(t *testing.T) {
	srv, sf := newTestServer(t)

	sf.On("Recommendations", mock.Anything, "issue-1").Return([]pricing.BundleRecommendation{
		{NodeID: "arc-1", Type: domain.NodeTypeArc, Price: d("13.47"), OriginalPrice: d("14.97")},
	}, nil).Once()

	var body recommendationsResponse
	require.Equal(t, http.StatusOK, get(t, srv.URL+"/catalog/issue-1/recommendations", &body))

	require.Len(t, body.Recommendations, 1)
	assert.Equal(t, "arc-1", body.Recommendations[0].NodeID)
	assert.True(t, body.Recommendations[0].Price.Equal(d("13.47")))
}
