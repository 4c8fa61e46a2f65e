package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"comicvault/storefront/internal/config"
	"comicvault/storefront/internal/domain"
	"comicvault/storefront/internal/domain/task"
	"comicvault/storefront/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var issueRows = []string{
	`{"id": "issue-1", "parent_id": "arc-1", "type": "issue", "title": "Issue #1", "price": 4.99, "position": 1}`,
	`{"id": "issue-2", "parent_id": "arc-1", "type": "issue", "title": "Issue #2", "price": 4.99, "position": 2}`,
	`{"id": "issue-3", "parent_id": "arc-1", "type": "issue", "title": "Issue #3", "price": 4.99, "position": 3}`,
}

// newCatalogServer serves issueRows the way the managed backend pages them.
// Pages listed in failing answer with status instead.
func newCatalogServer(t *testing.T, hits *atomic.Int32, failing map[int]int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		if r.URL.Path != "/rest/v1/catalog_nodes" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "eq.issue", r.URL.Query().Get("type"))
		assert.Equal(t, "secret", r.Header.Get("apikey"))

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if status, ok := failing[offset/limit+1]; ok {
			w.WriteHeader(status)
			return
		}

		end := min(offset+limit, len(issueRows))
		body := "["
		for i := offset; i < end; i++ {
			if i > offset {
				body += ","
			}
			body += issueRows[i]
		}
		body += "]"

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Range", fmt.Sprintf("%d-%d/%d", offset, end-1, len(issueRows)))
		_, _ = w.Write([]byte(body))
	}))
}

func testUpstreamConfig(baseURL string) config.UpstreamConfig {
	return config.UpstreamConfig{
		BaseURL:    baseURL,
		APIKey:     "secret",
		Timeout:    5,
		MaxRetries: 0,
		MaxWorkers: 2,
		PageSize:   2,
		Cooldown:   time.Minute,
	}
}

func TestGetCatalogPage(t *testing.T) {
	var hits atomic.Int32
	srv := newCatalogServer(t, &hits, nil)
	defer srv.Close()

	c := NewUpstreamClient(testUpstreamConfig(srv.URL), nil)

	page, err := c.GetCatalogPage(context.Background(), domain.NodeTypeIssue, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, page.PageNumber)
	assert.Equal(t, 3, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Nodes, 1)
	assert.Equal(t, "issue-3", page.Nodes[0].ID)
}

func TestGetCatalogPageInvalidPage(t *testing.T) {
	c := NewUpstreamClient(testUpstreamConfig("http://127.0.0.1:1"), nil)

	_, err := c.GetCatalogPage(context.Background(), domain.NodeTypeIssue, 0)
	assert.Error(t, err)
}

func TestGetAllCatalogPagesCh(t *testing.T) {
	var hits atomic.Int32
	srv := newCatalogServer(t, &hits, nil)
	defer srv.Close()

	c := NewUpstreamClient(testUpstreamConfig(srv.URL), nil)

	results, pages, err := c.GetAllCatalogPagesCh(context.Background(), domain.NodeTypeIssue, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, results.TotalPages)
	assert.Equal(t, 3, results.TotalItems)

	ids := make([]string, 0)
	for page := range pages {
		for _, n := range page.Nodes {
			ids = append(ids, n.ID)
		}
	}

	assert.ElementsMatch(t, []string{"issue-1", "issue-2", "issue-3"}, ids)
	assert.Equal(t, int32(2), hits.Load())
}

func TestGetAllCatalogPagesChQueuesFailedPages(t *testing.T) {
	var hits atomic.Int32
	srv := newCatalogServer(t, &hits, map[int]int{2: http.StatusBadGateway})
	defer srv.Close()

	q := &mocks.MockQueue{}
	q.On("AddTask", mock.Anything, mock.MatchedBy(func(tk task.Task) bool {
		retry, ok := tk.(*task.PageRetryTask)
		return ok && retry.PageNumber == 2 && retry.NodeType == domain.NodeTypeIssue && retry.Error != ""
	})).Return("1-0", nil).Once()

	c := NewUpstreamClient(testUpstreamConfig(srv.URL), q)

	_, pages, err := c.GetAllCatalogPagesCh(context.Background(), domain.NodeTypeIssue, 1)
	require.NoError(t, err)

	count := 0
	for range pages {
		count++
	}

	assert.Equal(t, 1, count)
	q.AssertExpectations(t)
}

func TestThrottlingOpensCircuitBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := newCatalogServer(t, &hits, map[int]int{1: http.StatusTooManyRequests})
	defer srv.Close()

	c := NewUpstreamClient(testUpstreamConfig(srv.URL), nil)

	_, err := c.GetCatalogPage(context.Background(), domain.NodeTypeIssue, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)

	// The breaker answers without touching the backend
	_, err = c.GetCatalogPage(context.Background(), domain.NodeTypeIssue, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(1), hits.Load())
}

func TestCircuitBreakerCloses(t *testing.T) {
	c := NewUpstreamClient(testUpstreamConfig("http://127.0.0.1:1"), nil).(*upstreamClient)

	c.circuitBreakerMutex.Lock()
	c.throttledUntil = time.Now().Add(-time.Second)
	c.circuitBreakerMutex.Unlock()

	assert.False(t, c.isCircuitBreakerOpen())
	assert.True(t, c.throttledUntil.IsZero())
	assert.Equal(t, time.Duration(0), c.getRemainingCircuitBreakerTime())
}
