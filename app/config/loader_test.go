package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
website:
  id: "careeronestop"
  name: "CareerOneStop"
  url: "https://www.careeronestop.org/toolkit/training/find-scholarships.aspx"
  scraper: "careeronestop"

settings:
  enabled: true
  scrape_interval: 43200
  max_results: 25
  timeout: 15
  page_offset: 2
  archive_pages: true
`

	err := os.WriteFile(filepath.Join(tempDir, "careeronestop.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(tempDir)
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(configs) != 1 {
		t.Errorf("Expected 1 config, got %d", len(configs))
	}

	var config *WebsiteConfig
	for _, cfg := range configs {
		config = cfg
		break
	}

	if config.Website.ID != "careeronestop" {
		t.Errorf("Expected ID 'careeronestop', got '%s'", config.Website.ID)
	}
	if config.Website.Scraper != "careeronestop" {
		t.Errorf("Expected scraper 'careeronestop', got '%s'", config.Website.Scraper)
	}
	if config.Settings.GetScrapeInterval() != 43200*time.Second {
		t.Errorf("Expected scrape interval 43200s, got %v", config.Settings.GetScrapeInterval())
	}
	if config.Settings.MaxResults != 25 {
		t.Errorf("Expected max results 25, got %d", config.Settings.MaxResults)
	}
	if config.Settings.PageOffset != 2 {
		t.Errorf("Expected page offset 2, got %d", config.Settings.PageOffset)
	}
	if !config.Settings.ArchivePages {
		t.Error("Expected archive_pages to be enabled")
	}
}

func TestLoadConfigWithDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
website:
  id: "aisearch"
  name: "AI Search"
  scraper: "aisearch"

settings:
  enabled: true
`

	err := os.WriteFile(filepath.Join(tempDir, "aisearch.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(tempDir)
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	var config *WebsiteConfig
	for _, cfg := range configs {
		config = cfg
		break
	}

	if config.Settings.GetScrapeInterval() != 86400*time.Second {
		t.Errorf("Expected default scrape interval 86400s, got %v", config.Settings.GetScrapeInterval())
	}
	if config.Settings.MaxResults != 50 {
		t.Errorf("Expected default max results 50, got %d", config.Settings.MaxResults)
	}
	if config.Settings.GetTimeout() != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", config.Settings.GetTimeout())
	}
}

func TestCrawlExtractDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
website:
  id: "foundation-site"
  name: "Foundation Site"
  scraper: "crawlextract"

settings:
  enabled: true

crawl:
  start_url: "https://foundation.example.org/scholarships"
  allowed_domains:
    - "foundation.example.org"
`

	err := os.WriteFile(filepath.Join(tempDir, "foundation.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(tempDir)
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	var config *WebsiteConfig
	for _, cfg := range configs {
		config = cfg
		break
	}

	if config.Crawl.MaxPages != 50 {
		t.Errorf("Expected default max pages 50, got %d", config.Crawl.MaxPages)
	}
	if len(config.Crawl.AllowedDomains) != 1 {
		t.Errorf("Expected 1 allowed domain, got %d", len(config.Crawl.AllowedDomains))
	}
}

func TestInvalidConfig(t *testing.T) {
	tempDir := t.TempDir()

	// Missing website id and scraper type
	content := `
website:
  name: "Test Website"

settings:
  enabled: true
`

	err := os.WriteFile(filepath.Join(tempDir, "invalid.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(tempDir)
	_, err = loader.LoadAll()
	if err == nil {
		t.Error("Expected error for invalid configuration")
	}
}

func TestUnknownScraperType(t *testing.T) {
	tempDir := t.TempDir()

	content := `
website:
  id: "test"
  name: "Test Website"
  scraper: "unknown"

settings:
  enabled: true
`

	err := os.WriteFile(filepath.Join(tempDir, "unknown.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(tempDir)
	_, err = loader.LoadAll()
	if err == nil {
		t.Error("Expected error for unknown scraper type")
	}
}

func TestCrawlExtractRequiresStartURL(t *testing.T) {
	tempDir := t.TempDir()

	content := `
website:
  id: "broken-crawl"
  name: "Broken Crawl"
  scraper: "crawlextract"

settings:
  enabled: true
`

	err := os.WriteFile(filepath.Join(tempDir, "broken.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(tempDir)
	_, err = loader.LoadAll()
	if err == nil {
		t.Error("Expected error for crawlextract config without start_url")
	}
}

func TestEmptyDirectory(t *testing.T) {
	tempDir := t.TempDir()

	loader := NewLoader(tempDir)
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(configs) != 0 {
		t.Errorf("Expected 0 configs from empty directory, got %d", len(configs))
	}
}
