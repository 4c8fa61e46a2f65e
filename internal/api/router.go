// Package api serves the storefront catalog and pricing over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"comicvault/storefront/internal/catalog"
	"comicvault/storefront/internal/domain"
	"comicvault/storefront/internal/pricing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Storefront interface {
	PurchaseOptions(ctx context.Context, id string) ([]pricing.PurchaseOption, error)
	Recommendations(ctx context.Context, id string) ([]pricing.BundleRecommendation, error)
	Browse(ctx context.Context, filter catalog.LevelFilter, key catalog.SortKey) ([]*domain.CatalogNode, error)
}

type PriceFormatter interface {
	FormatPrice(m decimal.Decimal) string
}

type Handler struct {
	storefront Storefront
	formatter  PriceFormatter
}

func NewHandler(storefront Storefront, formatter PriceFormatter) *Handler {
	return &Handler{
		storefront: storefront,
		formatter:  formatter,
	}
}

// Routes builds the chi router for the storefront endpoints.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", h.Browse)
		r.Get("/{id}/purchase-options", h.PurchaseOptions)
		r.Get("/{id}/recommendations", h.Recommendations)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		log.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": chimiddleware.GetReqID(r.Context()),
		}).Debug("HTTP request")
	})
}
