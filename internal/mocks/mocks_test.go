package mocks

import (
	"comicvault/storefront/internal/cache"
	"comicvault/storefront/internal/client"
	"comicvault/storefront/internal/queue"
	"comicvault/storefront/internal/repository"
	"comicvault/storefront/internal/state"
)

var (
	_ repository.CatalogRepository = (*MockCatalogRepository)(nil)
	_ cache.BundleInfoCache        = (*MockBundleInfoCache)(nil)
	_ queue.Queue                  = (*MockQueue)(nil)
	_ state.StateManager           = (*MockStateManager)(nil)
	_ client.UpstreamClient        = (*MockUpstreamClient)(nil)
)
