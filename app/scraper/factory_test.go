package scraper

import (
	"net/http"
	"testing"

	"github.com/scholartrack/scholartrack/app/archive"
	"github.com/scholartrack/scholartrack/app/cfg"
	"github.com/scholartrack/scholartrack/app/config"
	"github.com/scholartrack/scholartrack/app/crawl"
	"github.com/scholartrack/scholartrack/app/netutil"
)

func testFactory() *Factory {
	appCfg := &cfg.Cfg{
		MaxRetryAttempts:              3,
		FetchTimeout:                  15,
		ScrapeBudgetMinutes:           50,
		LLMSearchTimeout:              300,
		MaxSearchResults:              40,
		CareerOneStopURL:              "https://www.careeronestop.org/toolkit/training/find-scholarships.aspx",
		CareerOneStopPageOffset:       2,
		CollegeScholarshipsURL:        "http://www.collegescholarships.org/financial-aid/",
		CollegeScholarshipsPageOffset: 1,
	}
	return NewFactory(
		NewFetcher(http.DefaultClient, "test-agent"),
		archive.NewNopArchiver(),
		&fakeLLMClient{responses: []string{"[]"}},
		netutil.NewRateLimiter(1),
		crawl.NewClient("http://localhost:9999"),
		appCfg,
	)
}

func websiteConfig(scraperType string) *config.WebsiteConfig {
	return &config.WebsiteConfig{
		Website: config.WebsiteInfo{
			ID:      "test-site",
			Name:    "Test Site",
			URL:     "https://example.org/scholarships",
			Scraper: scraperType,
		},
		Settings: config.WebsiteSettings{
			Enabled:    true,
			MaxResults: 50,
			Timeout:    30,
		},
		Crawl: config.CrawlSettings{
			StartURL: "https://example.org",
			MaxPages: 10,
		},
	}
}

func TestFactoryBuildsEachType(t *testing.T) {
	factory := testFactory()

	tests := []struct {
		scraperType string
		wantName    string
	}{
		{"collegescholarships", "CollegeScholarships"},
		{"careeronestop", "CareerOneStop"},
		{"aisearch", "AISearch"},
		{"crawlextract", "Test Site"},
		{"rssfeed", "Test Site"},
	}

	for _, tt := range tests {
		t.Run(tt.scraperType, func(t *testing.T) {
			s, err := factory.Build(websiteConfig(tt.scraperType))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.wantName)
			}
		})
	}
}

func TestFactoryFallsBackToConfiguredDefaults(t *testing.T) {
	factory := testFactory()

	wc := websiteConfig("collegescholarships")
	wc.Website.URL = ""
	wc.Settings.MaxResults = 0
	wc.Settings.PageOffset = 0

	s, err := factory.Build(wc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	cs := s.(*CollegeScholarshipsScraper)
	if cs.url != "http://www.collegescholarships.org/financial-aid/" {
		t.Errorf("Expected default listing URL, got %q", cs.url)
	}
	if cs.baseOffset != 1 {
		t.Errorf("Expected default page offset 1, got %d", cs.baseOffset)
	}
	if cs.maxResults != 40 {
		t.Errorf("Expected default max results 40, got %d", cs.maxResults)
	}

	wc = websiteConfig("careeronestop")
	wc.Website.URL = ""
	wc.Settings.MaxResults = 0
	wc.Settings.PageOffset = 0

	s, err = factory.Build(wc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	cos := s.(*CareerOneStopScraper)
	if cos.url != "https://www.careeronestop.org/toolkit/training/find-scholarships.aspx" {
		t.Errorf("Expected default listing URL, got %q", cos.url)
	}
	if cos.baseOffset != 2 {
		t.Errorf("Expected default page offset 2, got %d", cos.baseOffset)
	}

	// Website settings keep precedence over defaults
	wc = websiteConfig("careeronestop")
	wc.Settings.PageOffset = 7
	s, err = factory.Build(wc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	cos = s.(*CareerOneStopScraper)
	if cos.url != "https://example.org/scholarships" {
		t.Errorf("Expected website URL to win over default, got %q", cos.url)
	}
	if cos.baseOffset != 7 || cos.maxResults != 50 {
		t.Errorf("Expected website settings to win, got offset=%d max=%d", cos.baseOffset, cos.maxResults)
	}
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	if _, err := testFactory().Build(websiteConfig("mystery")); err == nil {
		t.Error("expected error for unknown scraper type")
	}
}

func TestFactoryRequiresLLMForAISearch(t *testing.T) {
	factory := testFactory()
	factory.llmClient = nil

	if _, err := factory.Build(websiteConfig("aisearch")); err == nil {
		t.Error("expected error when LLM client is missing")
	}
}

func TestFactoryRequiresCrawlerForCrawlExtract(t *testing.T) {
	factory := testFactory()
	factory.crawler = nil

	if _, err := factory.Build(websiteConfig("crawlextract")); err == nil {
		t.Error("expected error when crawl client is missing")
	}
}

func TestSplitFeedURLs(t *testing.T) {
	got := splitFeedURLs("https://a.example/rss, https://b.example/rss ,")
	if len(got) != 2 || got[0] != "https://a.example/rss" || got[1] != "https://b.example/rss" {
		t.Errorf("splitFeedURLs = %v", got)
	}
}
