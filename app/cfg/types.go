package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Application configuration
	WebsitesDir       string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Scraping configuration
	MaxSearchResults     int
	RequestTimeout       int
	FetchTimeout         int
	MaxRetryAttempts     int
	DescriptionMaxLength int
	EligibilityMaxLength int
	ScrapeBudgetMinutes  int

	CareerOneStopURL              string
	CareerOneStopPageOffset       int
	CollegeScholarshipsURL        string
	CollegeScholarshipsPageOffset int

	// LLM search configuration
	LLMBaseURL        string
	LLMAPIKey         string
	LLMModel          string
	LLMCallsPerSecond float64
	LLMSearchTimeout  int

	// Crawl service configuration
	CrawlServiceURL string

	// Raw page archive
	ArchiveDir string

	// Duplicate pre-check cache (optional)
	RedisAddr string

	// Expired scholarship sweep
	SweepSchedule string
	SweepPageSize int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
