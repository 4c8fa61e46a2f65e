package container

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"comicvault/storefront/internal/api"
	"comicvault/storefront/internal/cache"
	"comicvault/storefront/internal/client"
	"comicvault/storefront/internal/config"
	"comicvault/storefront/internal/pricing"
	"comicvault/storefront/internal/queue"
	"comicvault/storefront/internal/repository"
	"comicvault/storefront/internal/service"
	"comicvault/storefront/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Client       client.UpstreamClient
	Repository   repository.CatalogRepository
	Queue        queue.Queue
	StateManager state.StateManager
	Cache        cache.BundleInfoCache
	Engine       *pricing.Engine

	Importer   *service.Importer
	Storefront *service.Storefront

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	policy, err := cfg.PricingPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing policy: %w", err)
	}

	engine, err := pricing.NewEngine(policy)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pricing engine: %w", err)
	}
	container.Engine = engine

	db, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	container.db = db

	if err := repository.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("✅ Connected to PostgreSQL successfully")

	catalogRepo := repository.NewCatalogRepository(db)
	container.Repository = catalogRepo

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})
	container.redis = rdb

	// Test connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("✅ Connected to Redis successfully")

	redisQueue, err := queue.NewRedisQueue(ctx, rdb, cfg.Redis)
	if err != nil {
		container.Close()
		return nil, err
	}
	container.Queue = redisQueue

	stateManager := state.NewRedisStateManager(rdb)
	container.StateManager = stateManager

	bundleInfoCache := cache.NewRedisBundleInfoCache(rdb, time.Duration(cfg.Redis.BundleInfoTTL)*time.Second)
	container.Cache = bundleInfoCache

	// Client needs the queue to hand off failed pages
	upstreamClient := client.NewUpstreamClient(cfg.Upstream, redisQueue)
	container.Client = upstreamClient

	container.Importer = service.NewImporter(
		catalogRepo,
		upstreamClient,
		redisQueue,
		stateManager,
		bundleInfoCache,
		engine,
		cfg.Redis.SaveEveryPages,
		cfg.Redis.ConsumerGroup,
		cfg.Redis.MinIdleTime,
	)
	container.Storefront = service.NewStorefront(catalogRepo, bundleInfoCache, engine)

	return container, nil
}

// Run imports the catalog while the workers drain the queues.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Importer.ImportAll(ctx)
	})

	g.Go(func() error {
		return c.Importer.RunWorkers(ctx, c.Config.Upstream.MaxWorkers)
	})

	return g.Wait()
}

// Serve runs the HTTP API until ctx is cancelled.
func (c *Container) Serve(ctx context.Context) error {
	handler := api.NewHandler(c.Storefront, c.Engine)
	srv := &http.Server{
		Addr:              net.JoinHostPort(c.Config.Server.Host, strconv.Itoa(c.Config.Server.Port)),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("🚀 Storefront API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve HTTP: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		log.Info("🛑 Shutting down HTTP server...")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("Failed to close Redis client: %v", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
