package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		Port:                 "8080",
		UserAgent:            "Test Agent",
		WorkerCount:          5,
		SchedulerInterval:    30,
		APIAccessKey:         "test-key",
		Version:              "test-version",
		WebsitesDir:          "./websites",
		DBHost:               "localhost",
		DBPort:               "5432",
		DBUser:               "test_user",
		DBPassword:           "test_password",
		DBName:               "test_db",
		Timezone:             "UTC",
		Debug:                true,
		MaxSearchResults:     50,
		DescriptionMaxLength: 1000,
		LLMCallsPerSecond:    1,
		SweepPageSize:        1000,
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("Expected worker count 5, got %d", cfg.WorkerCount)
	}
	if cfg.SchedulerInterval != 30 {
		t.Errorf("Expected scheduler interval 30, got %d", cfg.SchedulerInterval)
	}
	if cfg.APIAccessKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIAccessKey)
	}
	if cfg.WebsitesDir != "./websites" {
		t.Errorf("Expected websites dir './websites', got '%s'", cfg.WebsitesDir)
	}
	if cfg.MaxSearchResults != 50 {
		t.Errorf("Expected max search results 50, got %d", cfg.MaxSearchResults)
	}
	if cfg.DescriptionMaxLength != 1000 {
		t.Errorf("Expected description max length 1000, got %d", cfg.DescriptionMaxLength)
	}
	if cfg.SweepPageSize != 1000 {
		t.Errorf("Expected sweep page size 1000, got %d", cfg.SweepPageSize)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}
