package service

import (
	"context"
	"errors"
	"fmt"

	"comicvault/storefront/internal/cache"
	"comicvault/storefront/internal/catalog"
	"comicvault/storefront/internal/domain"
	"comicvault/storefront/internal/metrics"
	"comicvault/storefront/internal/pricing"
	"comicvault/storefront/internal/repository"

	log "github.com/sirupsen/logrus"
)

// ErrUnpriceable is returned when the stored data for an item cannot be
// priced. Its message is safe to show to shoppers.
var ErrUnpriceable = errors.New("unable to price this item")

// Storefront answers shopper-facing catalog and pricing questions.
type Storefront struct {
	repository repository.CatalogRepository
	cache      cache.BundleInfoCache
	engine     *pricing.Engine
}

func NewStorefront(repository repository.CatalogRepository, cache cache.BundleInfoCache, engine *pricing.Engine) *Storefront {
	return &Storefront{
		repository: repository,
		cache:      cache,
		engine:     engine,
	}
}

// PurchaseOptions prices every way of buying the node with the given id.
func (s *Storefront) PurchaseOptions(ctx context.Context, id string) ([]pricing.PurchaseOption, error) {
	node, ancestors, err := s.loadContext(ctx, id)
	if err != nil {
		s.countOutcome(err)
		return nil, err
	}

	recs, err := s.recommend(node, ancestors)
	if err != nil {
		s.countOutcome(err)
		return nil, err
	}

	options, err := s.engine.BuildPurchaseOptions(node, recs, s.engine.Subscription())
	if err != nil {
		err = s.unpriceable(id, err)
		s.countOutcome(err)
		return nil, err
	}

	metrics.PricingRequests.WithLabelValues("ok").Inc()
	return options, nil
}

// Recommendations returns the bundle upsells for the node with the given id.
func (s *Storefront) Recommendations(ctx context.Context, id string) ([]pricing.BundleRecommendation, error) {
	node, ancestors, err := s.loadContext(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.recommend(node, ancestors)
}

// Browse lists the catalog at one level, attaching the cached bundle info
// hints to bundle nodes.
func (s *Storefront) Browse(ctx context.Context, filter catalog.LevelFilter, key catalog.SortKey) ([]*domain.CatalogNode, error) {
	forest, err := s.repository.GetForest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	s.attachHints(ctx, forest)

	nodes, err := catalog.FilterAndSort(forest, filter, key)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}

	return nodes, nil
}

// attachHints overlays cached bundle info on the stored snapshots. The cache
// is best effort; on failure the stored snapshots are served.
func (s *Storefront) attachHints(ctx context.Context, forest []*domain.CatalogNode) {
	bundles := make(map[string]*domain.CatalogNode)
	ids := make([]string, 0)
	catalog.Walk(forest, func(n *domain.CatalogNode) bool {
		if n.IsBundle() {
			bundles[n.ID] = n
			ids = append(ids, n.ID)
		}
		return true
	})

	hints, err := s.cache.GetMany(ctx, ids)
	if err != nil {
		log.Warnf("⚠️ Bundle info cache unavailable, serving stored snapshots: %v", err)
		hints = nil
	}

	for id, info := range hints {
		if n, ok := bundles[id]; ok {
			n.BundleInfo = info
		}
	}

	for _, n := range bundles {
		s.checkIntegrity(n)
	}
}

func (s *Storefront) loadContext(ctx context.Context, id string) (*domain.CatalogNode, []*domain.CatalogNode, error) {
	node, err := s.repository.GetNode(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", id, err)
	}

	ancestors, err := s.repository.GetAncestorChain(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load ancestors of %s: %w", id, err)
	}

	return node, ancestors, nil
}

func (s *Storefront) recommend(node *domain.CatalogNode, ancestors []*domain.CatalogNode) ([]pricing.BundleRecommendation, error) {
	for _, a := range ancestors {
		s.checkIntegrity(a)
		if a.Type.IsBundleLevel() && len(a.Children) == 0 {
			log.Warnf("⚠️ No %s bundle for %s: children of %s are not available", a.Type, node.ID, a.ID)
			metrics.RecommendationsOmitted.WithLabelValues(a.Type.String()).Inc()
		}
	}

	recs, err := s.engine.BuildRecommendations(node, ancestors)
	if err != nil {
		return nil, s.unpriceable(node.ID, err)
	}

	return recs, nil
}

// checkIntegrity reports a cached snapshot that promises a bundle dearer than
// its parts. Prices are always recomputed, so it never blocks a request.
func (s *Storefront) checkIntegrity(n *domain.CatalogNode) {
	if w := pricing.CheckBundleInfo(n); w != nil {
		log.Warnf("⚠️ Data integrity: %s", w)
		metrics.IntegrityWarnings.Inc()
	}
}

func (s *Storefront) unpriceable(id string, err error) error {
	if errors.Is(err, pricing.ErrInvalidInput) {
		log.Errorf("❌ Cannot price %s: %v", id, err)
		return fmt.Errorf("%w: %s", ErrUnpriceable, id)
	}
	return err
}

func (s *Storefront) countOutcome(err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		metrics.PricingRequests.WithLabelValues("not_found").Inc()
	case errors.Is(err, ErrUnpriceable):
		metrics.PricingRequests.WithLabelValues("unpriceable").Inc()
	default:
		metrics.PricingRequests.WithLabelValues("error").Inc()
	}
}
