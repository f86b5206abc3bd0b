package config

// WebsiteConfig represents a complete website scraping configuration
type WebsiteConfig struct {
	Website  WebsiteInfo     `yaml:"website"`
	Settings WebsiteSettings `yaml:"settings"`
	Crawl    CrawlSettings   `yaml:"crawl"`
}

// WebsiteInfo identifies a scholarship source and the scraper that
// handles it
type WebsiteInfo struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Scraper string `yaml:"scraper"`
}

// WebsiteSettings contains scraping settings for a single website
type WebsiteSettings struct {
	Enabled        bool `yaml:"enabled"`
	ScrapeInterval int  `yaml:"scrape_interval"` // seconds
	MaxResults     int  `yaml:"max_results"`
	Timeout        int  `yaml:"timeout"` // seconds
	PageOffset     int  `yaml:"page_offset"`
	ArchivePages   bool `yaml:"archive_pages"`
}

// CrawlSettings scope a crawl-extract run. Only used when the
// scraper type is "crawlextract".
type CrawlSettings struct {
	StartURL       string   `yaml:"start_url"`
	MaxPages       int      `yaml:"max_pages"`
	AllowedDomains []string `yaml:"allowed_domains"`
	BlockedDomains []string `yaml:"blocked_domains"`
	AllowedPaths   []string `yaml:"allowed_paths"`
	BlockedPaths   []string `yaml:"blocked_paths"`
}
