package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scholartrack/scholartrack/app/config"
	"github.com/scholartrack/scholartrack/app/scraper"
)

// ScrapeWebsiteTask runs one website's scraper through the
// persistence pipeline.
type ScrapeWebsiteTask struct {
	Task
	websiteConfig *config.WebsiteConfig
	factory       *scraper.Factory
	pipeline      *scraper.Pipeline
}

func NewScrapeWebsiteTask(websiteConfig *config.WebsiteConfig, factory *scraper.Factory, pipeline *scraper.Pipeline) *ScrapeWebsiteTask {
	return &ScrapeWebsiteTask{
		Task:          NewTask(TaskTypeScrapeWebsite, websiteConfig.Website.ID),
		websiteConfig: websiteConfig,
		factory:       factory,
		pipeline:      pipeline,
	}
}

func (t *ScrapeWebsiteTask) Execute(ctx context.Context) error {
	s, err := t.factory.Build(t.websiteConfig)
	if err != nil {
		return fmt.Errorf("failed to build scraper for %s: %w", t.WebsiteID, err)
	}

	result, err := t.pipeline.Run(ctx, t.WebsiteID, s)
	if err != nil {
		return fmt.Errorf("scrape run failed for %s: %w", t.WebsiteID, err)
	}

	slog.Info("Website scrape completed", "website", t.WebsiteID, "scraper", s.Name(),
		"found", result.Found, "processed", result.Processed,
		"inserted", result.Inserted, "updated", result.Updated,
		"skipped", result.Skipped, "errors", len(result.Errors),
		"duration", t.GetDuration().String())

	return nil
}
