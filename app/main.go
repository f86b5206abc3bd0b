package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/scholartrack/scholartrack/app/api"
	"github.com/scholartrack/scholartrack/app/archive"
	"github.com/scholartrack/scholartrack/app/cache"
	"github.com/scholartrack/scholartrack/app/cfg"
	"github.com/scholartrack/scholartrack/app/config"
	"github.com/scholartrack/scholartrack/app/crawl"
	"github.com/scholartrack/scholartrack/app/database"
	"github.com/scholartrack/scholartrack/app/llm"
	"github.com/scholartrack/scholartrack/app/netutil"
	"github.com/scholartrack/scholartrack/app/scraper"
	"github.com/scholartrack/scholartrack/app/search"
	"github.com/scholartrack/scholartrack/app/sweep"
	"github.com/scholartrack/scholartrack/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load configuration from environment variables and command-line flags
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	log.Printf("Starting ScholarTrack server (version %s)...", appCfg.Version)

	// Database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(
		appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	log.Println("Connected to database successfully")

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	log.Printf("Database schema at version %d (dirty: %t)", version, dirty)

	// Load website configurations
	log.Printf("Loading website configurations from %s...", appCfg.WebsitesDir)
	loader := config.NewLoader(appCfg.WebsitesDir)
	configs, err := loader.LoadAll()
	if err != nil {
		log.Fatal("Failed to load configurations:", err)
	}
	log.Printf("Loaded %d website configurations", len(configs))

	// Handlers and the scheduler look websites up by ID, the loader
	// keys by file path
	websiteConfigs := make(map[string]*config.WebsiteConfig, len(configs))
	for configFile, wc := range configs {
		if _, exists := websiteConfigs[wc.Website.ID]; exists {
			log.Printf("Warning: Duplicate website ID %q in %s, skipping", wc.Website.ID, configFile)
			continue
		}
		websiteConfigs[wc.Website.ID] = wc
	}

	// Initialize repositories
	scholarshipRepo := database.NewScholarshipRepository(db)
	jobRepo := database.NewJobRepository(db)
	websiteRepo := database.NewWebsiteRepository(db)

	// Optional duplicate pre-check cache
	var seenCache scraper.SeenCache
	if appCfg.RedisAddr != "" {
		sc, err := cache.NewSeenCache(appCfg.RedisAddr)
		if err != nil {
			log.Printf("Warning: Redis unavailable at %s, duplicate pre-check disabled: %v", appCfg.RedisAddr, err)
		} else {
			defer sc.Close()
			seenCache = sc
			log.Printf("Seen-scholarship cache connected at %s", appCfg.RedisAddr)
		}
	}

	// Raw page archive
	var archiver archive.Archiver = archive.NewNopArchiver()
	if appCfg.ArchiveDir != "" {
		archiver = archive.NewFSArchiver(appCfg.ArchiveDir)
		log.Printf("Archiving raw pages to %s", appCfg.ArchiveDir)
	}

	// LLM client for AI search and crawl extraction
	var llmClient llm.Client
	if appCfg.LLMAPIKey != "" {
		llmClient = llm.NewHTTPClient(appCfg.LLMBaseURL, appCfg.LLMAPIKey, appCfg.LLMModel)
		log.Printf("LLM client configured (model: %s)", appCfg.LLMModel)
	} else {
		log.Println("LLM_API_KEY not set, AI-backed scrapers disabled")
	}
	limiter := netutil.NewRateLimiter(appCfg.LLMCallsPerSecond)

	// Optional crawl service
	var crawler *crawl.Client
	if appCfg.CrawlServiceURL != "" {
		crawler = crawl.NewClient(appCfg.CrawlServiceURL)
		log.Printf("Crawl service configured at %s", appCfg.CrawlServiceURL)
	}

	// Initialize core components
	httpClient := &http.Client{Timeout: time.Duration(appCfg.RequestTimeout) * time.Second}
	fetcher := scraper.NewFetcher(httpClient, appCfg.UserAgent)
	factory := scraper.NewFactory(fetcher, archiver, llmClient, limiter, crawler, appCfg)
	pipeline := scraper.NewPipeline(scholarshipRepo, jobRepo, websiteRepo,
		scraper.ContentHashStrategy{}, seenCache,
		appCfg.DescriptionMaxLength, appCfg.EligibilityMaxLength)
	searchService := search.NewService(scholarshipRepo)
	sweeper := sweep.NewSweeper(scholarshipRepo, appCfg.SweepPageSize)

	// Initialize and start scheduler
	log.Printf("Starting background scheduler with %d workers...", appCfg.WorkerCount)
	taskScheduler := tasks.NewScheduler(websiteConfigs, factory, pipeline, websiteRepo)
	taskScheduler.Start()
	defer taskScheduler.Stop()

	// Nightly expired scholarship sweep
	sweepCron := cron.New()
	if _, err := sweepCron.AddFunc(appCfg.SweepSchedule, func() {
		if err := taskScheduler.EnqueueTask(tasks.NewSweepExpiredTask(sweeper)); err != nil {
			log.Printf("Warning: Failed to enqueue scheduled sweep: %v", err)
		}
	}); err != nil {
		log.Fatalf("Invalid sweep schedule %q: %v", appCfg.SweepSchedule, err)
	}
	sweepCron.Start()
	defer sweepCron.Stop()
	log.Printf("Expired scholarship sweep scheduled (%s)", appCfg.SweepSchedule)

	// Initialize HTTP server
	log.Println("Initializing HTTP server...")
	apiHandler := api.NewHandler(searchService, scholarshipRepo, jobRepo, websiteRepo,
		websiteConfigs, factory, pipeline, sweeper, taskScheduler)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appCfg.Port)
		log.Printf("API endpoints available:")
		log.Printf("  Search:        http://localhost:%s/api/search (POST)", appCfg.Port)
		log.Printf("  Scholarship:   http://localhost:%s/scholarships/<id>", appCfg.Port)
		log.Printf("  Health check:  http://localhost:%s/health", appCfg.Port)
		log.Printf("  Statistics:    http://localhost:%s/stats", appCfg.Port)

		if appCfg.APIAccessKey != "" {
			log.Printf("  List websites: http://localhost:%s/api/websites (requires API key)", appCfg.Port)
			log.Printf("  Scrape:        http://localhost:%s/api/scrape/<id> (POST, requires API key)", appCfg.Port)
			log.Printf("  Sweep:         http://localhost:%s/api/sweep (POST, requires API key)", appCfg.Port)
		} else {
			log.Printf("  API endpoints: DISABLED (API_ACCESS_KEY not set)")
		}

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("ScholarTrack server started successfully!")
	log.Println("Press Ctrl+C to shutdown gracefully...")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	// Graceful shutdown
	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	// Scheduler and cron are stopped via defer
	log.Println("ScholarTrack server shutdown complete")
}
