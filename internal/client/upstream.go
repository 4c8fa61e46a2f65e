package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"comicvault/storefront/internal/config"
	"comicvault/storefront/internal/domain"
	"comicvault/storefront/internal/domain/task"
	"comicvault/storefront/internal/metrics"
	"comicvault/storefront/internal/queue"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

var ErrCircuitOpen = errors.New("upstream circuit breaker is open")

type UpstreamClient interface {
	GetCatalogPage(ctx context.Context, nodeType domain.NodeType, pageNumber int) (*domain.CatalogPage, error)
	GetAllCatalogPagesCh(ctx context.Context, nodeType domain.NodeType, startPage int) (*domain.CatalogResults, chan *domain.CatalogPage, error)
}

type upstreamClient struct {
	rl         ratelimit.Limiter
	config     config.UpstreamConfig
	baseURL    string
	httpClient *resty.Client
	parser     *catalogParser
	queue      queue.Queue

	// Circuit breaker for upstream throttling (HTTP 429)
	circuitBreakerMutex sync.RWMutex
	throttledUntil      time.Time
	circuitBreakerDelay time.Duration
}

func NewUpstreamClient(cfg config.UpstreamConfig, queue queue.Queue) UpstreamClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("Prefer", "count=exact")

	if cfg.APIKey != "" {
		client.SetHeader("apikey", cfg.APIKey)
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 200
	}

	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = 5 * time.Minute
	}

	return &upstreamClient{
		rl:                  rl,
		config:              cfg,
		baseURL:             strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:          client,
		parser:              newCatalogParser(pageSize),
		queue:               queue,
		circuitBreakerDelay: cooldown,
	}
}

func (c *upstreamClient) GetCatalogPage(ctx context.Context, nodeType domain.NodeType, pageNumber int) (*domain.CatalogPage, error) {
	if pageNumber < 1 {
		return nil, fmt.Errorf("invalid page number %d", pageNumber)
	}

	offset := (pageNumber - 1) * c.parser.pageSize
	url := fmt.Sprintf("%s/rest/v1/catalog_nodes", c.baseURL)
	params := map[string]string{
		"type":   "eq." + nodeType.String(),
		"order":  "position.asc,id.asc",
		"offset": strconv.Itoa(offset),
		"limit":  strconv.Itoa(c.parser.pageSize),
	}

	body, contentRange, err := c.fetchJSON(ctx, url, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s page %d: %w", nodeType, pageNumber, err)
	}

	page, err := c.parser.ParseCatalogPage(body, contentRange, nodeType, pageNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s page %d: %w", nodeType, pageNumber, err)
	}

	log.Debugf("Successfully fetched and parsed %s page %d with %d nodes", nodeType, page.PageNumber, len(page.Nodes))
	return page, nil
}

// GetAllCatalogPagesCh fetches startPage synchronously to learn the page count,
// then streams the remaining pages from a bounded pool of workers. Pages that
// fail are handed to the retry stream when a queue is configured.
func (c *upstreamClient) GetAllCatalogPagesCh(ctx context.Context, nodeType domain.NodeType, startPage int) (*domain.CatalogResults, chan *domain.CatalogPage, error) {
	results := &domain.CatalogResults{
		NodeType: nodeType,
		Pages:    make([]*domain.CatalogPage, 0),
	}

	firstPage, err := c.GetCatalogPage(ctx, nodeType, startPage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch first page: %w", err)
	}

	results.TotalItems = firstPage.TotalItems
	results.TotalPages = firstPage.TotalPages

	pagesChan := make(chan *domain.CatalogPage, c.config.MaxWorkers+1)
	pagesChan <- firstPage

	if firstPage.TotalPages <= startPage {
		close(pagesChan)
		return results, pagesChan, nil
	}

	var fetched atomic.Int32
	fetched.Store(1)

	go func() {
		defer close(pagesChan)

		wg := &sync.WaitGroup{}
		workers := c.config.MaxWorkers
		if workers <= 0 {
			workers = 1
		}
		semaphore := make(chan struct{}, workers)

		for pageNum := startPage + 1; pageNum <= firstPage.TotalPages; pageNum++ {
			if ctx.Err() != nil {
				break
			}

			wg.Add(1)
			semaphore <- struct{}{}

			go func(pageNum int) {
				defer wg.Done()
				defer func() { <-semaphore }()

				page, err := c.GetCatalogPage(ctx, nodeType, pageNum)
				if err != nil {
					c.enqueueRetry(ctx, nodeType, pageNum, err)
					return
				}

				select {
				case pagesChan <- page:
				case <-ctx.Done():
					return
				}

				if n := fetched.Add(1); n%100 == 0 {
					log.Infof("Fetched %d pages out of %d for %s", n, firstPage.TotalPages, nodeType)
				}
			}(pageNum)
		}

		wg.Wait()
	}()

	return results, pagesChan, nil
}

func (c *upstreamClient) enqueueRetry(ctx context.Context, nodeType domain.NodeType, pageNum int, cause error) {
	if c.queue == nil {
		log.Errorf("Failed to fetch %s page %d: %v", nodeType, pageNum, cause)
		return
	}

	retryTask := &task.PageRetryTask{
		PageNumber: pageNum,
		NodeType:   nodeType,
		RetryCount: 0,
		Error:      cause.Error(),
	}
	if _, err := c.queue.AddTask(ctx, retryTask); err != nil {
		log.Errorf("❌ Failed to add %s page %d to retry queue: %v", nodeType, pageNum, err)
		return
	}
	log.Warnf("🔄 Added %s page %d to retry queue due to fetch failure: %v", nodeType, pageNum, cause)
}

func (c *upstreamClient) isCircuitBreakerOpen() bool {
	c.circuitBreakerMutex.RLock()
	now := time.Now()
	wasOpen := now.Before(c.throttledUntil)
	wasTriggered := !c.throttledUntil.IsZero()
	c.circuitBreakerMutex.RUnlock()

	if !wasOpen && wasTriggered {
		c.circuitBreakerMutex.Lock()
		if !c.throttledUntil.IsZero() && now.After(c.throttledUntil) {
			c.throttledUntil = time.Time{}
			log.Infof("✅ Circuit breaker automatically re-enabled - upstream requests are allowed again")
		}
		c.circuitBreakerMutex.Unlock()
	}

	return wasOpen
}

func (c *upstreamClient) triggerCircuitBreaker() {
	c.circuitBreakerMutex.Lock()
	defer c.circuitBreakerMutex.Unlock()

	c.throttledUntil = time.Now().Add(c.circuitBreakerDelay)
	log.Warnf("🚫 Circuit breaker activated! Upstream requests disabled until %v (%v)",
		c.throttledUntil.Format("15:04:05"), c.circuitBreakerDelay)
}

func (c *upstreamClient) getRemainingCircuitBreakerTime() time.Duration {
	c.circuitBreakerMutex.RLock()
	defer c.circuitBreakerMutex.RUnlock()

	remaining := time.Until(c.throttledUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (c *upstreamClient) fetchJSON(ctx context.Context, url string, params map[string]string) ([]byte, string, error) {
	if c.isCircuitBreakerOpen() {
		remaining := c.getRemainingCircuitBreakerTime()
		return nil, "", fmt.Errorf("%w: requests disabled for %v more", ErrCircuitOpen, remaining.Round(time.Second))
	}

	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(url)

	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(metrics.StatusClass(0)).Inc()
		if ctx.Err() != nil {
			return nil, "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, "", fmt.Errorf("failed to fetch URL: %w", err)
	}

	metrics.UpstreamRequests.WithLabelValues(metrics.StatusClass(resp.StatusCode())).Inc()

	if resp.StatusCode() == http.StatusTooManyRequests {
		log.Warnf("🚫 Upstream throttled request for %s", url)
		c.triggerCircuitBreaker()
		return nil, "", fmt.Errorf("%w: upstream returned 429", ErrCircuitOpen)
	}

	if resp.IsError() {
		return nil, "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return []byte(resp.String()), resp.Header().Get("Content-Range"), nil
}
