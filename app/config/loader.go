package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ScraperTypes lists the scraper implementations a website config may
// reference.
var ScraperTypes = map[string]bool{
	"careeronestop":       true,
	"collegescholarships": true,
	"aisearch":            true,
	"crawlextract":        true,
	"rssfeed":             true,
}

// Loader handles loading and validation of website configurations
type Loader struct {
	websitesDir string
}

// NewLoader creates a new configuration loader
func NewLoader(websitesDir string) *Loader {
	return &Loader{websitesDir: websitesDir}
}

// LoadAll loads all YAML configuration files from the websites directory
func (l *Loader) LoadAll() (map[string]*WebsiteConfig, error) {
	configs := make(map[string]*WebsiteConfig)

	// Check if websites directory exists
	if _, err := os.Stat(l.websitesDir); os.IsNotExist(err) {
		return configs, nil // Return empty map if directory doesn't exist
	}

	files, err := filepath.Glob(filepath.Join(l.websitesDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	// Also check for .yml extension
	ymlFiles, err := filepath.Glob(filepath.Join(l.websitesDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		config, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(config); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", file, err)
		}

		configs[file] = config
		log.Printf("Loaded configuration from %s", file)
	}

	return configs, nil
}

// loadFile loads a single YAML configuration file
func (l *Loader) loadFile(path string) (*WebsiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config WebsiteConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Set defaults
	l.setDefaults(&config)

	return &config, nil
}

// setDefaults applies default values to configuration
func (l *Loader) setDefaults(config *WebsiteConfig) {
	if config.Settings.ScrapeInterval == 0 {
		config.Settings.ScrapeInterval = 86400 // seconds
	}
	if config.Settings.MaxResults == 0 {
		config.Settings.MaxResults = 50
	}
	if config.Settings.Timeout == 0 {
		config.Settings.Timeout = 30 // seconds
	}
	if config.Website.Scraper == "crawlextract" && config.Crawl.MaxPages == 0 {
		config.Crawl.MaxPages = 50
	}
}

// validate validates the configuration
func (l *Loader) validate(config *WebsiteConfig) error {
	// Validate website information
	if config.Website.ID == "" {
		return fmt.Errorf("website id is required")
	}
	if config.Website.Name == "" {
		return fmt.Errorf("website name is required")
	}
	if config.Website.Scraper == "" {
		return fmt.Errorf("scraper type is required")
	}
	if !ScraperTypes[config.Website.Scraper] {
		return fmt.Errorf("unknown scraper type: %s", config.Website.Scraper)
	}

	// Validate settings
	if config.Settings.ScrapeInterval < 0 {
		return fmt.Errorf("scrape interval must be non-negative")
	}
	if config.Settings.MaxResults < 0 {
		return fmt.Errorf("max results must be non-negative")
	}
	if config.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	// Crawl-extract needs a crawl scope
	if config.Website.Scraper == "crawlextract" {
		if config.Crawl.StartURL == "" {
			return fmt.Errorf("crawl start_url is required for crawlextract scraper")
		}
		if config.Crawl.MaxPages < 0 {
			return fmt.Errorf("crawl max_pages must be non-negative")
		}
	}

	// Feed scrapers need a URL; the listing scrapers fall back to
	// their configured default URLs.
	if config.Website.Scraper == "rssfeed" && config.Website.URL == "" {
		return fmt.Errorf("website url is required for %s scraper", config.Website.Scraper)
	}

	return nil
}
