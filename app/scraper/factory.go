package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/scholartrack/scholartrack/app/archive"
	"github.com/scholartrack/scholartrack/app/cfg"
	"github.com/scholartrack/scholartrack/app/config"
	"github.com/scholartrack/scholartrack/app/crawl"
	"github.com/scholartrack/scholartrack/app/llm"
	"github.com/scholartrack/scholartrack/app/netutil"
)

// cmpOr is a backport of cmp.Or (added in Go 1.22) for Go 1.21 toolchains.
func cmpOr[T comparable](vals ...T) T {
	var zero T
	for _, val := range vals {
		if val != zero {
			return val
		}
	}
	return zero
}

// Factory builds scrapers from website configurations, sharing the
// fetcher, archiver, and service clients across all of them.
type Factory struct {
	fetcher   *Fetcher
	archiver  archive.Archiver
	llmClient llm.Client
	limiter   *netutil.RateLimiter
	crawler   *crawl.Client
	appCfg    *cfg.Cfg
}

func NewFactory(fetcher *Fetcher, archiver archive.Archiver, llmClient llm.Client, limiter *netutil.RateLimiter, crawler *crawl.Client, appCfg *cfg.Cfg) *Factory {
	return &Factory{
		fetcher:   fetcher,
		archiver:  archiver,
		llmClient: llmClient,
		limiter:   limiter,
		crawler:   crawler,
		appCfg:    appCfg,
	}
}

// Build creates the scraper a website configuration names. Website
// settings win over the process-wide defaults in cfg.
func (f *Factory) Build(wc *config.WebsiteConfig) (Scraper, error) {
	timeout := time.Duration(wc.Settings.Timeout) * time.Second
	maxResults := cmpOr(wc.Settings.MaxResults, f.appCfg.MaxSearchResults)
	archiver := f.archiver
	if !wc.Settings.ArchivePages {
		archiver = archive.NewNopArchiver()
	}

	switch wc.Website.Scraper {
	case "collegescholarships":
		return NewCollegeScholarshipsScraper(f.fetcher, archiver, CollegeScholarshipsOptions{
			URL:           cmpOr(wc.Website.URL, f.appCfg.CollegeScholarshipsURL),
			BaseOffset:    cmpOr(wc.Settings.PageOffset, f.appCfg.CollegeScholarshipsPageOffset),
			MaxResults:    maxResults,
			Timeout:       timeout,
			DetailTimeout: time.Duration(f.appCfg.FetchTimeout) * time.Second,
			RetryAttempts: f.appCfg.MaxRetryAttempts,
			FetchDetails:  true,
			Budget:        time.Duration(f.appCfg.ScrapeBudgetMinutes) * time.Minute,
		}), nil

	case "careeronestop":
		return NewCareerOneStopScraper(f.fetcher, archiver, CareerOneStopOptions{
			URL:           cmpOr(wc.Website.URL, f.appCfg.CareerOneStopURL),
			BaseOffset:    cmpOr(wc.Settings.PageOffset, f.appCfg.CareerOneStopPageOffset),
			MaxResults:    maxResults,
			Timeout:       timeout,
			DetailTimeout: time.Duration(f.appCfg.FetchTimeout) * time.Second,
			RetryAttempts: f.appCfg.MaxRetryAttempts,
		}), nil

	case "aisearch":
		if f.llmClient == nil {
			return nil, fmt.Errorf("aisearch scraper requires an LLM endpoint, set LLM_BASE_URL")
		}
		return NewAISearchScraper(f.llmClient, f.limiter, maxResults,
			f.appCfg.MaxRetryAttempts, time.Duration(f.appCfg.LLMSearchTimeout)*time.Second), nil

	case "crawlextract":
		if f.crawler == nil {
			return nil, fmt.Errorf("crawlextract scraper requires a crawl service, set CRAWL_SERVICE_URL")
		}
		if f.llmClient == nil {
			return nil, fmt.Errorf("crawlextract scraper requires an LLM endpoint, set LLM_BASE_URL")
		}
		return NewCrawlExtractScraper(f.crawler, f.llmClient, f.limiter, CrawlExtractOptions{
			Name:           wc.Website.Name,
			StartURL:       wc.Crawl.StartURL,
			MaxPages:       wc.Crawl.MaxPages,
			AllowedDomains: wc.Crawl.AllowedDomains,
			BlockedDomains: wc.Crawl.BlockedDomains,
			AllowedPaths:   wc.Crawl.AllowedPaths,
			BlockedPaths:   wc.Crawl.BlockedPaths,
			RetryAttempts:  f.appCfg.MaxRetryAttempts,
		}), nil

	case "rssfeed":
		return NewRSSFeedScraper(f.fetcher, wc.Website.Name, splitFeedURLs(wc.Website.URL),
			timeout, f.appCfg.MaxRetryAttempts, maxResults), nil

	default:
		return nil, fmt.Errorf("unknown scraper type: %s", wc.Website.Scraper)
	}
}

// splitFeedURLs allows one rssfeed config to watch several feeds,
// listed comma-separated in the url field.
func splitFeedURLs(urls string) []string {
	var result []string
	for _, u := range strings.Split(urls, ",") {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
