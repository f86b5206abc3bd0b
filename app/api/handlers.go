package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scholartrack/scholartrack/app/config"
	"github.com/scholartrack/scholartrack/app/database"
	"github.com/scholartrack/scholartrack/app/scraper"
	"github.com/scholartrack/scholartrack/app/search"
	"github.com/scholartrack/scholartrack/app/sweep"
	"github.com/scholartrack/scholartrack/app/tasks"
)

func NewHandler(searchService *search.Service, scholarshipRepo database.ScholarshipStore,
	jobRepo database.JobStore, websiteRepo database.WebsiteStore,
	websiteConfigs map[string]*config.WebsiteConfig, factory *scraper.Factory,
	pipeline *scraper.Pipeline, sweeper *sweep.Sweeper,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		searchService:   searchService,
		scholarshipRepo: scholarshipRepo,
		jobRepo:         jobRepo,
		websiteRepo:     websiteRepo,
		websiteConfigs:  websiteConfigs,
		factory:         factory,
		pipeline:        pipeline,
		sweeper:         sweeper,
		scheduler:       scheduler,
	}
}

func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search request", "details": err.Error()})
		return
	}

	result, err := h.searchService.Search(search.Criteria{
		Keywords:               req.Keywords,
		SubjectAreas:           req.SubjectAreas,
		AcademicLevel:          req.AcademicLevel,
		Ethnicity:              req.Ethnicity,
		Gender:                 req.Gender,
		TargetType:             req.TargetType,
		GeographicRestrictions: req.GeographicRestrictions,
		MinAmount:              req.MinAmount,
		MaxAmount:              req.MaxAmount,
		DeadlineAfter:          req.DeadlineAfter,
		DeadlineBefore:         req.DeadlineBefore,
	}, search.Options{
		SortBy:         req.SortBy,
		SortOrder:      req.SortOrder,
		MaxResults:     req.MaxResults,
		IncludeExpired: req.IncludeExpired,
	})
	if err != nil {
		slog.Error("Search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scholarships": result.Scholarships,
		"total_found":  result.TotalFound,
		"search_time":  result.SearchTime.Milliseconds(),
		"filters": gin.H{
			"applied":   result.AppliedFilters,
			"available": result.AvailableFilters,
		},
	})
}

func (h *Handler) GetScholarship(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing scholarship id"})
		return
	}

	scholarship, err := h.scholarshipRepo.GetByID(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_scholarship", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if scholarship == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scholarship not found"})
		return
	}

	c.JSON(http.StatusOK, scholarship)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.scholarshipRepo.GetCount(); err == nil {
		health["scholarships"] = count
	}
	if count, err := h.websiteRepo.GetWebsiteCount(); err == nil {
		health["websites"] = count
	}
	health["loaded_configurations"] = len(h.websiteConfigs)

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{}

	if total, active, inactive, err := h.scholarshipRepo.GetStats(); err == nil {
		stats["scholarships"] = map[string]int{
			"total":    total,
			"active":   active,
			"inactive": inactive,
		}
	}

	if websites, err := h.websiteRepo.GetWebsites(); err == nil {
		list := make([]map[string]interface{}, 0, len(websites))
		for _, w := range websites {
			list = append(list, map[string]interface{}{
				"id":           w.ID,
				"name":         w.Name,
				"scraper":      w.Scraper,
				"last_scraped": w.LastScraped,
			})
		}
		stats["websites"] = list
	}

	limit := 10
	if raw := c.Query("jobs"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if jobs, err := h.jobRepo.GetRecentJobs(limit); err == nil {
		list := make([]map[string]interface{}, 0, len(jobs))
		for _, j := range jobs {
			list = append(list, map[string]interface{}{
				"id":           j.ID,
				"website_id":   j.WebsiteID,
				"scraper":      j.Scraper,
				"status":       j.Status,
				"found":        j.Found,
				"processed":    j.Processed,
				"inserted":     j.Inserted,
				"updated":      j.Updated,
				"skipped":      j.Skipped,
				"error":        j.Error,
				"started_at":   j.StartedAt,
				"completed_at": j.CompletedAt,
			})
		}
		stats["recent_jobs"] = list
	}

	c.JSON(http.StatusOK, stats)
}

// APITriggerScrape enqueues an immediate scrape for one website
func (h *Handler) APITriggerScrape(c *gin.Context) {
	id := c.Param("id")
	wc, ok := h.websiteConfigs[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown website id"})
		return
	}

	task := tasks.NewScrapeWebsiteTask(wc, h.factory, h.pipeline)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing scrape task", "website", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue scrape task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Scrape task enqueued",
		"website": gin.H{
			"id":      wc.Website.ID,
			"name":    wc.Website.Name,
			"scraper": wc.Website.Scraper,
		},
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}

// APITriggerSweep enqueues an immediate expiration sweep
func (h *Handler) APITriggerSweep(c *gin.Context) {
	task := tasks.NewSweepExpiredTask(h.sweeper)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing sweep task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue sweep task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sweep task enqueued",
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}

// APIListWebsites reports every configured website with its database
// registration state
func (h *Handler) APIListWebsites(c *gin.Context) {
	websites := make([]map[string]interface{}, 0, len(h.websiteConfigs))

	for _, wc := range h.websiteConfigs {
		info := map[string]interface{}{
			"id":              wc.Website.ID,
			"name":            wc.Website.Name,
			"url":             wc.Website.URL,
			"scraper":         wc.Website.Scraper,
			"enabled":         wc.Settings.Enabled,
			"scrape_interval": wc.Settings.GetScrapeInterval().String(),
			"max_results":     wc.Settings.MaxResults,
		}

		if w, err := h.websiteRepo.GetWebsite(wc.Website.ID); err == nil && w != nil {
			info["status"] = w.Status
			info["last_scraped"] = w.LastScraped
		}

		websites = append(websites, info)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"websites": websites,
		"total":    len(websites),
	})
}
