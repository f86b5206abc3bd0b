package cfg

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
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

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmpOr(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"scholartrack_user" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"scholartrack_password" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"scholartrack" description:"Database name"`

	// Application configuration
	WebsitesDir       string `long:"websites-dir" env:"WEBSITES_DIR" default:"./websites" description:"Directory containing website configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for scrape processing"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Scraping configuration
	MaxSearchResults     int `long:"max-search-results" env:"MAX_SEARCH_RESULTS" default:"50" description:"Maximum scholarships collected per scrape run"`
	RequestTimeout       int `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"30" description:"HTTP request timeout in seconds for listing pages"`
	FetchTimeout         int `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15" description:"HTTP request timeout in seconds for detail pages"`
	MaxRetryAttempts     int `long:"max-retry-attempts" env:"MAX_RETRY_ATTEMPTS" default:"3" description:"Retry attempts for transient fetch failures"`
	DescriptionMaxLength int `long:"description-max-length" env:"DESCRIPTION_MAX_LENGTH" default:"1000" description:"Maximum stored description length"`
	EligibilityMaxLength int `long:"eligibility-max-length" env:"ELIGIBILITY_MAX_LENGTH" default:"1000" description:"Maximum stored eligibility length"`
	ScrapeBudgetMinutes  int `long:"scrape-budget-minutes" env:"SCRAPE_BUDGET_MINUTES" default:"50" description:"Soft time budget for a single scrape run"`

	CareerOneStopURL              string `long:"careeronestop-url" env:"CAREERONESTOP_URL" default:"https://www.careeronestop.org/toolkit/training/find-scholarships.aspx" description:"CareerOneStop listing URL"`
	CareerOneStopPageOffset       int    `long:"careeronestop-page-offset" env:"CAREERONESTOP_PAGE_OFFSET" default:"0" description:"Base page offset for CareerOneStop"`
	CollegeScholarshipsURL        string `long:"collegescholarships-url" env:"COLLEGESCHOLARSHIPS_URL" default:"http://www.collegescholarships.org/financial-aid/" description:"CollegeScholarships listing URL"`
	CollegeScholarshipsPageOffset int    `long:"collegescholarships-page-offset" env:"COLLEGESCHOLARSHIPS_PAGE_OFFSET" default:"0" description:"Base page offset for CollegeScholarships"`

	// LLM search configuration
	LLMBaseURL        string  `long:"llm-base-url" env:"LLM_BASE_URL" default:"https://api.openai.com/v1" description:"Base URL of the OpenAI-compatible completion API"`
	LLMAPIKey         string  `long:"llm-api-key" env:"LLM_API_KEY" description:"API key for the completion API"`
	LLMModel          string  `long:"llm-model" env:"LLM_MODEL" default:"gpt-4o-mini" description:"Model used for search and extraction"`
	LLMCallsPerSecond float64 `long:"llm-calls-per-second" env:"LLM_CALLS_PER_SECOND" default:"1" description:"Rate limit for completion API calls"`
	LLMSearchTimeout  int     `long:"llm-search-timeout" env:"LLM_SEARCH_TIMEOUT" default:"300" description:"Overall AI search timeout in seconds"`

	// Crawl service configuration
	CrawlServiceURL string `long:"crawl-service-url" env:"CRAWL_SERVICE_URL" description:"Base URL of the crawl service (optional)"`

	// Raw page archive
	ArchiveDir string `long:"archive-dir" env:"ARCHIVE_DIR" description:"Directory for raw page archives (empty disables archiving)"`

	// Duplicate pre-check cache
	RedisAddr string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for the seen-scholarship cache (optional)"`

	// Expired scholarship sweep
	SweepSchedule string `long:"sweep-schedule" env:"SWEEP_SCHEDULE" default:"0 3 * * *" description:"Cron schedule for the expired scholarship sweep"`
	SweepPageSize int    `long:"sweep-page-size" env:"SWEEP_PAGE_SIZE" default:"1000" description:"Rows scanned per page during the sweep"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"ScholarTrack/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBHost:                        raw.DBHost,
		DBPort:                        raw.DBPort,
		DBUser:                        raw.DBUser,
		DBPassword:                    raw.DBPassword,
		DBName:                        raw.DBName,
		WebsitesDir:                   raw.WebsitesDir,
		Port:                          raw.Port,
		WorkerCount:                   raw.WorkerCount,
		SchedulerInterval:             raw.SchedulerInterval,
		APIAccessKey:                  raw.APIAccessKey,
		MaxSearchResults:              raw.MaxSearchResults,
		RequestTimeout:                raw.RequestTimeout,
		FetchTimeout:                  raw.FetchTimeout,
		MaxRetryAttempts:              raw.MaxRetryAttempts,
		DescriptionMaxLength:          raw.DescriptionMaxLength,
		EligibilityMaxLength:          raw.EligibilityMaxLength,
		ScrapeBudgetMinutes:           raw.ScrapeBudgetMinutes,
		CareerOneStopURL:              raw.CareerOneStopURL,
		CareerOneStopPageOffset:       raw.CareerOneStopPageOffset,
		CollegeScholarshipsURL:        raw.CollegeScholarshipsURL,
		CollegeScholarshipsPageOffset: raw.CollegeScholarshipsPageOffset,
		LLMBaseURL:                    raw.LLMBaseURL,
		LLMAPIKey:                     raw.LLMAPIKey,
		LLMModel:                      raw.LLMModel,
		LLMCallsPerSecond:             raw.LLMCallsPerSecond,
		LLMSearchTimeout:              raw.LLMSearchTimeout,
		CrawlServiceURL:               raw.CrawlServiceURL,
		ArchiveDir:                    raw.ArchiveDir,
		RedisAddr:                     raw.RedisAddr,
		SweepSchedule:                 raw.SweepSchedule,
		SweepPageSize:                 raw.SweepPageSize,
		UserAgent:                     raw.UserAgent,
		Timezone:                      raw.Timezone,
		Debug:                         raw.Debug,
		Version:                       GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
