package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/scholartrack/scholartrack/app/cfg"
	"github.com/scholartrack/scholartrack/app/config"
	"github.com/scholartrack/scholartrack/app/database"
	"github.com/scholartrack/scholartrack/app/scraper"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	websiteConfigs map[string]*config.WebsiteConfig
	factory        *scraper.Factory
	pipeline       *scraper.Pipeline
	websiteRepo    database.WebsiteStore
	interval       time.Duration
	workerCount    int
	taskTimeout    time.Duration
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	taskQueue      chan TaskInterface
}

func NewScheduler(websiteConfigs map[string]*config.WebsiteConfig, factory *scraper.Factory,
	pipeline *scraper.Pipeline, websiteRepo database.WebsiteStore) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	c := cfg.Get()

	return &Scheduler{
		websiteConfigs: websiteConfigs,
		factory:        factory,
		pipeline:       pipeline,
		websiteRepo:    websiteRepo,
		interval:       time.Duration(c.SchedulerInterval) * time.Second,
		workerCount:    c.WorkerCount,
		taskTimeout:    time.Duration(c.ScrapeBudgetMinutes+10) * time.Minute,
		ctx:            ctx,
		cancel:         cancel,
		taskQueue:      make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueScrapes()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueueStartupTasks registers every configured website and kicks
// off an initial scrape for the enabled ones.
func (s *Scheduler) enqueueStartupTasks() {
	if len(s.websiteConfigs) == 0 {
		slog.Debug("No website configurations found")
		return
	}

	slog.Debug("Processing website configurations", "count", len(s.websiteConfigs))

	for _, wc := range s.websiteConfigs {
		syncTask := NewSyncWebsiteTask(wc, s.websiteRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncWebsiteTask", "website", wc.Website.ID, "error", err)
			continue
		}

		if !wc.Settings.Enabled {
			slog.Debug("Website disabled, skipping ScrapeWebsiteTask", "website", wc.Website.ID)
			continue
		}

		scrapeTask := NewScrapeWebsiteTask(wc, s.factory, s.pipeline)
		if err := s.EnqueueTask(scrapeTask); err != nil {
			slog.Warn("Failed to enqueue ScrapeWebsiteTask", "website", wc.Website.ID, "error", err)
		}
	}
}

// enqueueDueScrapes re-scrapes websites whose scrape interval has
// elapsed since their last run.
func (s *Scheduler) enqueueDueScrapes() {
	for _, wc := range s.websiteConfigs {
		if !wc.Settings.Enabled {
			continue
		}

		website, err := s.websiteRepo.GetWebsite(wc.Website.ID)
		if err != nil {
			slog.Warn("Failed to get website from database, skipping", "website", wc.Website.ID, "error", err)
			continue
		}
		if website == nil {
			slog.Warn("Website not found in database, skipping", "website", wc.Website.ID)
			continue
		}

		if website.LastScraped != nil {
			nextDue := website.LastScraped.Add(wc.Settings.GetScrapeInterval())
			if nextDue.After(time.Now().UTC()) {
				slog.Debug("Website not due for scraping yet", "website", wc.Website.ID, "next_due", nextDue)
				continue
			}
		}

		scrapeTask := NewScrapeWebsiteTask(wc, s.factory, s.pipeline)
		if err := s.EnqueueTask(scrapeTask); err != nil {
			slog.Warn("Failed to enqueue ScrapeWebsiteTask", "website", wc.Website.ID, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, s.taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "website", task.GetWebsiteID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
