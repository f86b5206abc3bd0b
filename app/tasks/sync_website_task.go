package tasks

import (
	"context"
	"fmt"

	"github.com/scholartrack/scholartrack/app/config"
	"github.com/scholartrack/scholartrack/app/database"
)

// SyncWebsiteTask registers a configured website in the database so
// scrape jobs and last-scraped times have a row to attach to.
type SyncWebsiteTask struct {
	Task
	websiteConfig *config.WebsiteConfig
	websiteRepo   database.WebsiteStore
}

func NewSyncWebsiteTask(websiteConfig *config.WebsiteConfig, websiteRepo database.WebsiteStore) *SyncWebsiteTask {
	return &SyncWebsiteTask{
		Task:          NewTask(TaskTypeSyncWebsite, websiteConfig.Website.ID),
		websiteConfig: websiteConfig,
		websiteRepo:   websiteRepo,
	}
}

func (t *SyncWebsiteTask) Execute(ctx context.Context) error {
	w := t.websiteConfig.Website
	if err := t.websiteRepo.UpsertWebsite(w.ID, w.Name, w.URL, w.Scraper); err != nil {
		return fmt.Errorf("failed to sync website %s: %w", w.ID, err)
	}
	return nil
}
