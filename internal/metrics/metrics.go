// Package metrics exposes Prometheus collectors for the storefront.
//
// Pricing:
//   - storefront_pricing_requests_total{outcome}: purchase-option requests (ok, not_found, unpriceable, error)
//   - storefront_bundle_info_integrity_warnings_total: cached snapshots with bundle > individual price
//   - storefront_recommendations_omitted_total{level}: levels skipped for missing ancestor context
//
// Import:
//   - storefront_snapshot_tasks_total{result}: bundle-info recomputations (saved, skipped, invalid, failed)
//   - storefront_upstream_requests_total{status}: upstream catalog requests by HTTP status class
//   - storefront_imported_nodes_total{type}: nodes upserted from the upstream catalog
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PricingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_pricing_requests_total",
			Help: "Purchase option requests by outcome",
		},
		[]string{"outcome"},
	)

	IntegrityWarnings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_bundle_info_integrity_warnings_total",
			Help: "Cached bundle snapshots whose bundle price exceeds the individual price",
		},
	)

	RecommendationsOmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_recommendations_omitted_total",
			Help: "Bundle levels skipped because ancestor children were not loaded",
		},
		[]string{"level"},
	)

	SnapshotTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_snapshot_tasks_total",
			Help: "Bundle info recomputations by result",
		},
		[]string{"result"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_upstream_requests_total",
			Help: "Upstream catalog requests by status class",
		},
		[]string{"status"},
	)

	ImportedNodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_imported_nodes_total",
			Help: "Catalog nodes upserted from the upstream backend",
		},
		[]string{"type"},
	)
)

// StatusClass buckets an HTTP status code as "2xx", "4xx", ... or "error" for transport failures.
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "error"
	}
	return fmt.Sprintf("%dxx", code/100)
}
