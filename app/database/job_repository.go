package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// JobRepository handles database operations for scrape jobs
type JobRepository struct {
	db *DB
}

// NewJobRepository creates a new scrape job repository
func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db}
}

// CreateJob registers a pending scrape job and returns its ID
func (r *JobRepository) CreateJob(websiteID, scraper string) (string, error) {
	id := uuid.NewString()

	_, err := r.db.Exec(`
		INSERT INTO scrape_jobs (id, website_id, scraper, status)
		VALUES ($1, $2, $3, 'pending')
	`, id, websiteID, scraper)

	if err != nil {
		return "", fmt.Errorf("failed to create scrape job: %w", err)
	}

	return id, nil
}

// MarkRunning transitions a job to running and records the start time
func (r *JobRepository) MarkRunning(jobID string) error {
	_, err := r.db.Exec(`
		UPDATE scrape_jobs
		SET status = 'running', started_at = NOW()
		WHERE id = $1
	`, jobID)

	if err != nil {
		return fmt.Errorf("failed to mark job running: %w", err)
	}

	return nil
}

// MarkCompleted transitions a job to completed with its counters
func (r *JobRepository) MarkCompleted(jobID string, found, processed, inserted, updated, skipped int) error {
	_, err := r.db.Exec(`
		UPDATE scrape_jobs
		SET status = 'completed', found = $2, processed = $3, inserted = $4,
		    updated = $5, skipped = $6, completed_at = NOW()
		WHERE id = $1
	`, jobID, found, processed, inserted, updated, skipped)

	if err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}

	return nil
}

// MarkFailed transitions a job to failed with an error message
func (r *JobRepository) MarkFailed(jobID string, errMsg string) error {
	_, err := r.db.Exec(`
		UPDATE scrape_jobs
		SET status = 'failed', error = $2, completed_at = NOW()
		WHERE id = $1
	`, jobID, errMsg)

	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}

	return nil
}

// GetJob returns a single scrape job or nil when not found
func (r *JobRepository) GetJob(jobID string) (*ScrapeJob, error) {
	row := r.db.QueryRow(`
		SELECT id, website_id, scraper, status, found, processed, inserted, updated, skipped,
		       COALESCE(error, ''), started_at, completed_at, created_at
		FROM scrape_jobs
		WHERE id = $1
	`, jobID)

	var job ScrapeJob
	err := row.Scan(&job.ID, &job.WebsiteID, &job.Scraper, &job.Status,
		&job.Found, &job.Processed, &job.Inserted, &job.Updated, &job.Skipped,
		&job.Error, &job.StartedAt, &job.CompletedAt, &job.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scrape job: %w", err)
	}

	return &job, nil
}

// GetRecentJobs returns the most recent scrape jobs
func (r *JobRepository) GetRecentJobs(limit int) ([]ScrapeJob, error) {
	rows, err := r.db.Query(`
		SELECT id, website_id, scraper, status, found, processed, inserted, updated, skipped,
		       COALESCE(error, ''), started_at, completed_at, created_at
		FROM scrape_jobs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent jobs: %w", err)
	}
	defer rows.Close()

	var jobs []ScrapeJob
	for rows.Next() {
		var job ScrapeJob
		err := rows.Scan(&job.ID, &job.WebsiteID, &job.Scraper, &job.Status,
			&job.Found, &job.Processed, &job.Inserted, &job.Updated, &job.Skipped,
			&job.Error, &job.StartedAt, &job.CompletedAt, &job.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}

	return jobs, nil
}
