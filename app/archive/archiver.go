// Package archive stores raw scraped pages alongside a metadata
// sidecar so extraction bugs can be replayed against original HTML.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Metadata describes an archived page
type Metadata struct {
	ScraperName string    `json:"scraper_name"`
	PageID      string    `json:"page_id"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	ArchivedAt  time.Time `json:"archived_at"`
}

// Archiver persists raw page content for later inspection
type Archiver interface {
	Store(scraperName, pageID, url, content string) (string, error)
}

// FSArchiver writes pages under a base directory using
// <scraper>/<yyyy>/<mm>/<dd>/<timestamp>-<pageID>.html keys with a
// JSON metadata sidecar.
type FSArchiver struct {
	baseDir string
}

func NewFSArchiver(baseDir string) *FSArchiver {
	return &FSArchiver{baseDir: baseDir}
}

func (a *FSArchiver) Store(scraperName, pageID, url, content string) (string, error) {
	now := time.Now().UTC()

	key := buildKey(scraperName, pageID, now)
	path := filepath.Join(a.baseDir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}

	meta := Metadata{
		ScraperName: scraperName,
		PageID:      pageID,
		URL:         url,
		ContentType: "text/html",
		Size:        len(content),
		ArchivedAt:  now,
	}

	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal archive metadata: %w", err)
	}

	metaPath := strings.TrimSuffix(path, ".html") + "-metadata.json"
	if err := os.WriteFile(metaPath, metaData, 0o644); err != nil {
		return "", fmt.Errorf("failed to write archive metadata: %w", err)
	}

	return key, nil
}

func buildKey(scraperName, pageID string, now time.Time) string {
	ts := sanitize(now.Format(time.RFC3339))
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s-%s.html",
		sanitize(scraperName), now.Year(), int(now.Month()), now.Day(), ts, sanitize(pageID))
}

// sanitize keeps keys filesystem and URL safe
func sanitize(s string) string {
	replacer := strings.NewReplacer(":", "-", "/", "-", " ", "-", "\\", "-")
	return replacer.Replace(s)
}

// NopArchiver discards pages. Used when archiving is disabled.
type NopArchiver struct{}

func NewNopArchiver() *NopArchiver {
	return &NopArchiver{}
}

func (a *NopArchiver) Store(scraperName, pageID, url, content string) (string, error) {
	return "", nil
}
