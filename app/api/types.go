package api

import (
	"github.com/scholartrack/scholartrack/app/config"
	"github.com/scholartrack/scholartrack/app/database"
	"github.com/scholartrack/scholartrack/app/scraper"
	"github.com/scholartrack/scholartrack/app/search"
	"github.com/scholartrack/scholartrack/app/sweep"
	"github.com/scholartrack/scholartrack/app/tasks"
)

type Handler struct {
	searchService   *search.Service
	scholarshipRepo database.ScholarshipStore
	jobRepo         database.JobStore
	websiteRepo     database.WebsiteStore
	websiteConfigs  map[string]*config.WebsiteConfig // keyed by website ID
	factory         *scraper.Factory
	pipeline        *scraper.Pipeline
	sweeper         *sweep.Sweeper
	scheduler       tasks.TaskSchedulerInterface
}

// SearchRequest is the body of POST /api/search
type SearchRequest struct {
	Keywords               []string `json:"keywords"`
	SubjectAreas           []string `json:"subject_areas"`
	AcademicLevel          string   `json:"academic_level"`
	Ethnicity              string   `json:"ethnicity"`
	Gender                 string   `json:"gender"`
	TargetType             string   `json:"target_type"`
	GeographicRestrictions string   `json:"geographic_restrictions"`
	MinAmount              float64  `json:"min_amount"`
	MaxAmount              float64  `json:"max_amount"`
	DeadlineAfter          string   `json:"deadline_after"`
	DeadlineBefore         string   `json:"deadline_before"`

	SortBy         string `json:"sort_by"`
	SortOrder      string `json:"sort_order"`
	MaxResults     int    `json:"max_results"`
	IncludeExpired bool   `json:"include_expired"`
}
