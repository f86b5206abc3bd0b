package database

import (
	"database/sql"
	"fmt"
)

// WebsiteRepository handles database operations for registered
// scholarship sources
type WebsiteRepository struct {
	db *DB
}

// NewWebsiteRepository creates a new website repository
func NewWebsiteRepository(db *DB) *WebsiteRepository {
	return &WebsiteRepository{db: db}
}

// UpsertWebsite registers a website from its configuration file
func (r *WebsiteRepository) UpsertWebsite(id, name, url, scraper string) error {
	_, err := r.db.Exec(`
		INSERT INTO websites (id, name, url, scraper, status)
		VALUES ($1, $2, $3, $4, 'active')
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			url = EXCLUDED.url,
			scraper = EXCLUDED.scraper,
			updated_at = NOW()
	`, id, name, url, scraper)

	if err != nil {
		return fmt.Errorf("failed to upsert website: %w", err)
	}

	return nil
}

// UpdateLastScraped records a completed scrape for a website
func (r *WebsiteRepository) UpdateLastScraped(id string) error {
	_, err := r.db.Exec(`
		UPDATE websites
		SET last_scraped = NOW(), updated_at = NOW()
		WHERE id = $1
	`, id)

	if err != nil {
		return fmt.Errorf("failed to update last scraped: %w", err)
	}

	return nil
}

// GetWebsite returns a single website or nil when not found
func (r *WebsiteRepository) GetWebsite(id string) (*Website, error) {
	row := r.db.QueryRow(`
		SELECT id, name, COALESCE(url, ''), scraper, status, last_scraped, created_at, updated_at
		FROM websites
		WHERE id = $1
	`, id)

	var w Website
	err := row.Scan(&w.ID, &w.Name, &w.URL, &w.Scraper, &w.Status, &w.LastScraped, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get website: %w", err)
	}

	return &w, nil
}

// GetWebsites returns all registered websites
func (r *WebsiteRepository) GetWebsites() ([]Website, error) {
	rows, err := r.db.Query(`
		SELECT id, name, COALESCE(url, ''), scraper, status, last_scraped, created_at, updated_at
		FROM websites
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get websites: %w", err)
	}
	defer rows.Close()

	var websites []Website
	for rows.Next() {
		var w Website
		err := rows.Scan(&w.ID, &w.Name, &w.URL, &w.Scraper, &w.Status, &w.LastScraped, &w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan website row: %w", err)
		}
		websites = append(websites, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating website rows: %w", err)
	}

	return websites, nil
}

// GetWebsiteCount returns the number of registered websites
func (r *WebsiteRepository) GetWebsiteCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM websites`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get website count: %w", err)
	}
	return count, nil
}
