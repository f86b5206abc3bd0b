package database

type ScholarshipStore interface {
	Insert(s Scholarship) error
	CheckDuplicate(id string) (bool, error)
	GetByID(id string) (*Scholarship, error)
	GetPage(offset, limit int) ([]Scholarship, error)
	Delete(id string) error
	GetCount() (int, error)
	GetStats() (total, active, inactive int, err error)
	Search(filters SearchFilters) ([]Scholarship, error)
}

type JobStore interface {
	CreateJob(websiteID, scraper string) (string, error)
	MarkRunning(jobID string) error
	MarkCompleted(jobID string, found, processed, inserted, updated, skipped int) error
	MarkFailed(jobID string, errMsg string) error
	GetJob(jobID string) (*ScrapeJob, error)
	GetRecentJobs(limit int) ([]ScrapeJob, error)
}

type WebsiteStore interface {
	UpsertWebsite(id, name, url, scraper string) error
	UpdateLastScraped(id string) error
	GetWebsite(id string) (*Website, error)
	GetWebsites() ([]Website, error)
	GetWebsiteCount() (int, error)
}
