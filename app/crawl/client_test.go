package crawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSubmit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/crawls" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.StartURL != "https://foundation.example.org" {
			t.Errorf("Unexpected start URL: %s", req.StartURL)
		}
		if req.MaxPages != 50 {
			t.Errorf("Expected max pages 50, got %d", req.MaxPages)
		}

		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(Status{JobID: "job-123", State: "pending"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	jobID, err := client.Submit(context.Background(), Request{
		StartURL: "https://foundation.example.org",
		MaxPages: 50,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if jobID != "job-123" {
		t.Errorf("Expected job ID 'job-123', got %q", jobID)
	}
}

func TestGetStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crawls/job-123" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Status{
			JobID:     "job-123",
			State:     "completed",
			PageCount: 2,
			Pages: []Page{
				{URL: "https://foundation.example.org/a", Content: "<html>a</html>"},
				{URL: "https://foundation.example.org/b", Content: "<html>b</html>"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	status, err := client.GetStatus(context.Background(), "job-123")
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if status.State != "completed" {
		t.Errorf("Expected state 'completed', got %q", status.State)
	}
	if len(status.Pages) != 2 {
		t.Errorf("Expected 2 pages, got %d", len(status.Pages))
	}
}

func TestWaitForCompletionFailedJob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Status{JobID: "job-123", State: "failed", Error: "robots.txt disallowed"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.WaitForCompletion(context.Background(), "job-123")
	if err == nil {
		t.Fatal("Expected error for failed crawl job")
	}
}

func TestWaitForCompletionImmediate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Status{JobID: "job-123", State: "completed", PageCount: 1})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	status, err := client.WaitForCompletion(context.Background(), "job-123")
	if err != nil {
		t.Fatalf("WaitForCompletion failed: %v", err)
	}
	if status.PageCount != 1 {
		t.Errorf("Expected 1 page, got %d", status.PageCount)
	}
}
