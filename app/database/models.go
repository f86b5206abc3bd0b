package database

import (
	"time"
)

// Scholarship represents a scholarship record in the database.
// The ID is derived from name, organization and deadline so repeated
// scrapes of the same listing collapse into one row.
type Scholarship struct {
	ID                      string
	Name                    string
	Organization            string
	Description             string
	Eligibility             string
	Deadline                string
	URL                     string
	ApplyURL                string
	AcademicLevel           string
	GeographicRestrictions  string
	TargetType              string
	Ethnicity               string
	Gender                  string
	MinAward                float64
	MaxAward                float64
	Renewable               bool
	Country                 string
	Source                  string
	EssayRequired           bool
	RecommendationsRequired bool
	IsActive                bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// ScrapeJob tracks a single scrape run from start to finish
type ScrapeJob struct {
	ID          string
	WebsiteID   string
	Scraper     string
	Status      string // pending, running, completed, failed
	Found       int
	Processed   int
	Inserted    int
	Updated     int
	Skipped     int
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// Website represents a registered scholarship source
type Website struct {
	ID          string
	Name        string
	URL         string
	Scraper     string
	Status      string
	LastScraped *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
