package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"comicvault/storefront/internal/cache"
	"comicvault/storefront/internal/client"
	"comicvault/storefront/internal/domain"
	"comicvault/storefront/internal/domain/task"
	"comicvault/storefront/internal/metrics"
	"comicvault/storefront/internal/pricing"
	"comicvault/storefront/internal/queue"
	"comicvault/storefront/internal/repository"
	"comicvault/storefront/internal/state"

	"golang.org/x/sync/errgroup"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Importer copies the upstream catalog into the repository and keeps the
// bundle info hints of every bundle node up to date.
type Importer struct {
	repository      repository.CatalogRepository
	client          client.UpstreamClient
	queue           queue.Queue
	stateManager    state.StateManager
	cache           cache.BundleInfoCache
	engine          *pricing.Engine
	minSaveInterval int
	groupName       string
	minIdleTime     time.Duration
}

func NewImporter(
	repository repository.CatalogRepository,
	client client.UpstreamClient,
	queue queue.Queue,
	stateManager state.StateManager,
	cache cache.BundleInfoCache,
	engine *pricing.Engine,
	minSaveInterval int,
	groupName string,
	minIdleTime int,
) *Importer {
	return &Importer{
		repository:      repository,
		client:          client,
		queue:           queue,
		stateManager:    stateManager,
		cache:           cache,
		engine:          engine,
		minSaveInterval: max(1, minSaveInterval),
		groupName:       groupName,
		minIdleTime:     time.Duration(max(1, minIdleTime)) * time.Second,
	}
}

// ImportAll fetches every page of every node type and enqueues it for the
// page workers. Progress is saved so an interrupted import resumes.
func (s *Importer) ImportAll(ctx context.Context) error {
	errGroup := new(errgroup.Group)

	for _, nodeType := range domain.NodeTypes {
		nodeType := nodeType
		errGroup.Go(func() error {
			lastProcessedPage, err := s.stateManager.GetLastProcessedPage(ctx, nodeType)
			if err != nil {
				log.Errorf("Failed to get last processed page: %v", err)
				return err
			}

			if lastProcessedPage == 0 {
				lastProcessedPage = 1
			}

			if lastProcessedPage != 1 {
				log.Infof("🔄 Continue from page %d for %s", lastProcessedPage, nodeType.GetTypeName())
			}

			log.Infof("🔄 Importing %s", nodeType.GetTypeName())

			results, dataCh, err := s.client.GetAllCatalogPagesCh(ctx, nodeType, lastProcessedPage)
			if err != nil {
				log.Errorf("❌ Failed to get catalog pages for %s: %v", nodeType, err)
				return err
			}

			countPages := 0
			for page := range dataCh {
				countPages++

				if countPages%s.minSaveInterval == 0 {
					s.saveProgress(ctx, nodeType, max(0, page.PageNumber-s.minSaveInterval))
				}

				_, err := s.queue.AddTask(ctx, &task.CatalogPageTask{
					PageNumber: page.PageNumber,
					NodeType:   page.NodeType,
					Nodes:      page.Nodes,
				})
				if err != nil {
					log.Errorf("❌ Failed to add task for %s: %v", nodeType, err)
					return err
				}
			}

			log.Infof("✅ Completed %s: %d pages queued, %d total items",
				nodeType.GetTypeName(), countPages, results.TotalItems)

			s.saveProgress(ctx, nodeType, results.TotalPages)

			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return err
	}

	log.Infof("✅ Completed all node types")

	return nil
}

func (s *Importer) saveProgress(ctx context.Context, nodeType domain.NodeType, page int) {
	if err := s.stateManager.SetLastProcessedPage(ctx, nodeType, page); err != nil {
		log.Warnf("⚠️ Failed to save import progress for %s: %v", nodeType, err)
	}
}

func (s *Importer) RunWorkers(ctx context.Context, numWorkers int) error {
	var wg sync.WaitGroup

	s.runWorkersForStream(ctx, &wg, numWorkers, queue.StreamName(task.TypeCatalogPage), "main")
	s.runWorkersForStream(ctx, &wg, max(1, numWorkers/2), queue.StreamName(task.TypePageRetry), "retry")
	s.runWorkersForStream(ctx, &wg, numWorkers, queue.StreamName(task.TypeSnapshot), "snapshot")

	wg.Wait()
	return nil
}

func (s *Importer) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	// Auto-claimer for this stream
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s-%d", workerType, time.Now().UnixNano())
				claimedMessages, err := s.queue.AutoClaim(ctx, s.groupName, consumer, streamName, s.minIdleTime)
				if err != nil {
					log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				if len(claimedMessages) > 0 {
					log.Infof("🔄 Auto-claimed %d messages from %s stream", len(claimedMessages), workerType)
					for _, msg := range claimedMessages {
						if err := s.processMessage(ctx, &msg); err != nil {
							log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("🚀 Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("🛑 %s worker %d stopping", workerType, workerID)
					return
				default:
					msg, err := s.queue.GetTask(ctx, s.groupName, consumer, streamName)
					if err != nil {
						if ctx.Err() == nil {
							log.Errorf("❌ Failed to get task from %s: %v", streamName, err)
						}
						continue
					}

					if msg != nil {
						if err := s.processMessage(ctx, msg); err != nil {
							log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

// processMessage runs one task and acks it. A task that returns an error stays
// pending so the auto-claimer picks it up again.
func (s *Importer) processMessage(ctx context.Context, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("invalid task type in message %s", msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	switch taskType {
	case task.TypeCatalogPage:
		pageTask, err := task.UnmarshalTask[*task.CatalogPageTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal catalog page task data: %w", err)
		}

		if err := s.processPage(ctx, pageTask); err != nil {
			// Refetch the page later instead of failing completely
			retryTask := &task.PageRetryTask{
				PageNumber: pageTask.PageNumber,
				NodeType:   pageTask.NodeType,
				RetryCount: 0,
				Error:      err.Error(),
			}

			if _, addErr := s.queue.AddTask(ctx, retryTask); addErr != nil {
				log.Errorf("❌ Failed to add retry task for %s page %d: %v", pageTask.NodeType, pageTask.PageNumber, addErr)
			} else {
				log.Warnf("🔄 Added %s page %d to retry queue due to error: %v", pageTask.NodeType, pageTask.PageNumber, err)
			}
		}

	case task.TypePageRetry:
		retryTask, err := task.UnmarshalTask[*task.PageRetryTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal retry task data: %w", err)
		}

		if err := s.retryPage(ctx, retryTask); err != nil {
			return fmt.Errorf("failed to retry page: %w", err)
		}

	case task.TypeSnapshot:
		snapshotTask, err := task.UnmarshalTask[*task.SnapshotTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal snapshot task data: %w", err)
		}

		if err := s.refreshBundleInfo(ctx, snapshotTask); err != nil {
			metrics.SnapshotTasks.WithLabelValues("failed").Inc()
			return fmt.Errorf("failed to refresh bundle info: %w", err)
		}

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	streamName := queue.StreamName(taskType)
	if err := s.queue.AckTask(ctx, streamName, s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}

// processPage stores the nodes of one page and asks for fresh bundle info on
// every bundle the page touches: the page's own bundle nodes and their parents.
func (s *Importer) processPage(ctx context.Context, pageTask *task.CatalogPageTask) error {
	if err := s.repository.UpsertNodes(ctx, pageTask.Nodes); err != nil {
		return fmt.Errorf("failed to save %s page %d: %w", pageTask.NodeType, pageTask.PageNumber, err)
	}
	metrics.ImportedNodes.WithLabelValues(pageTask.NodeType.String()).Add(float64(len(pageTask.Nodes)))

	for _, id := range snapshotTargets(pageTask.Nodes) {
		if _, err := s.queue.AddTask(ctx, &task.SnapshotTask{NodeID: id}); err != nil {
			log.Errorf("❌ Failed to add snapshot task for %s: %v", id, err)
		}
	}

	log.Debugf("Saved %d %s from page %d", len(pageTask.Nodes), pageTask.NodeType.GetTypeName(), pageTask.PageNumber)
	return nil
}

// snapshotTargets lists, in first-seen order and without repeats, the bundle
// nodes whose bundle info may have changed after nodes were saved.
func snapshotTargets(nodes []domain.CatalogNode) []string {
	seen := make(map[string]struct{}, len(nodes))
	ids := make([]string, 0, len(nodes))
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, n := range nodes {
		if n.Type.IsBundleLevel() {
			add(n.ID)
		}
		add(n.ParentID)
	}

	return ids
}

func (s *Importer) retryPage(ctx context.Context, retryTask *task.PageRetryTask) error {
	retryTask.RetryCount++

	log.Infof("🔄 Retrying %s page %d (attempt %d)",
		retryTask.NodeType, retryTask.PageNumber, retryTask.RetryCount)

	page, err := s.client.GetCatalogPage(ctx, retryTask.NodeType, retryTask.PageNumber)
	if err != nil {
		// Retry indefinitely; the circuit breaker paces us while throttled
		newRetryTask := &task.PageRetryTask{
			PageNumber: retryTask.PageNumber,
			NodeType:   retryTask.NodeType,
			RetryCount: retryTask.RetryCount,
			Error:      err.Error(),
		}

		if _, addErr := s.queue.AddTask(ctx, newRetryTask); addErr != nil {
			log.Errorf("❌ Failed to re-add retry task for %s page %d: %v", retryTask.NodeType, retryTask.PageNumber, addErr)
			return addErr
		}

		log.Warnf("🔄 %s page %d failed again, will retry (attempt %d): %v",
			retryTask.NodeType, retryTask.PageNumber, retryTask.RetryCount, err)
		return nil
	}

	pageTask := &task.CatalogPageTask{
		PageNumber: page.PageNumber,
		NodeType:   page.NodeType,
		Nodes:      page.Nodes,
	}

	if _, err := s.queue.AddTask(ctx, pageTask); err != nil {
		log.Errorf("❌ Failed to add recovered page task for %s page %d: %v", retryTask.NodeType, retryTask.PageNumber, err)
		return err
	}

	log.Infof("✅ Successfully recovered %s page %d after %d attempts",
		retryTask.NodeType, retryTask.PageNumber, retryTask.RetryCount)
	return nil
}

// refreshBundleInfo recomputes the snapshot of one bundle node from its
// current children and stores it in the repository and the hint cache.
func (s *Importer) refreshBundleInfo(ctx context.Context, snapshotTask *task.SnapshotTask) error {
	node, err := s.repository.GetNodeWithChildren(ctx, snapshotTask.NodeID)
	if errors.Is(err, repository.ErrNotFound) {
		// The parent page has not been imported yet; its own page will ask again
		log.Debugf("Skipping bundle info for %s: node not stored yet", snapshotTask.NodeID)
		metrics.SnapshotTasks.WithLabelValues("skipped").Inc()
		return nil
	}
	if err != nil {
		return err
	}

	if !node.Type.IsBundleLevel() || !node.IsBundle() {
		metrics.SnapshotTasks.WithLabelValues("skipped").Inc()
		return nil
	}

	if w := pricing.CheckBundleInfo(node); w != nil {
		log.Warnf("⚠️ Replacing inconsistent bundle info: %s", w)
		metrics.IntegrityWarnings.Inc()
	}

	info, err := s.engine.ComputeBundleInfo(node)
	if err != nil {
		// Bad stored prices do not heal on retry, so the task is done
		log.Warnf("⚠️ Cannot compute bundle info for %s %s: %v", node.Type, node.ID, err)
		metrics.SnapshotTasks.WithLabelValues("invalid").Inc()
		return nil
	}

	if err := s.repository.SaveBundleInfo(ctx, node.ID, info); err != nil {
		return err
	}

	if err := s.cache.Set(ctx, node.ID, info); err != nil {
		log.Warnf("⚠️ Failed to cache bundle info for %s: %v", node.ID, err)
	}

	metrics.SnapshotTasks.WithLabelValues("saved").Inc()
	log.Debugf("Bundle info for %s %s: %s → %s (%d%% off)",
		node.Type, node.ID, info.IndividualPrice, info.BundlePrice, info.DiscountPercent)
	return nil
}
