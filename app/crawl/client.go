// Package crawl talks to the external crawl service that walks
// foundation websites and returns fetched pages for extraction.
package crawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request scopes a crawl run
type Request struct {
	StartURL       string   `json:"start_url"`
	MaxPages       int      `json:"max_pages"`
	AllowedDomains []string `json:"allowed_domains,omitempty"`
	BlockedDomains []string `json:"blocked_domains,omitempty"`
	AllowedPaths   []string `json:"allowed_paths,omitempty"`
	BlockedPaths   []string `json:"blocked_paths,omitempty"`
}

// Page is a single fetched page from a completed crawl
type Page struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Status reports crawl progress
type Status struct {
	JobID     string `json:"job_id"`
	State     string `json:"state"` // pending, running, completed, failed
	PageCount int    `json:"page_count"`
	Error     string `json:"error,omitempty"`
	Pages     []Page `json:"pages,omitempty"`
}

const (
	pollInterval    = 10 * time.Second
	maxPollAttempts = 30
)

// Client submits crawls and polls for their results
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a crawl service client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Submit starts a crawl and returns its job ID
func (c *Client) Submit(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal crawl request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/crawls", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create crawl request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("crawl submit failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("crawl service returned HTTP %d: %s", resp.StatusCode, data)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return "", fmt.Errorf("failed to parse crawl submit response: %w", err)
	}
	if status.JobID == "" {
		return "", fmt.Errorf("crawl service returned no job ID")
	}

	return status.JobID, nil
}

// GetStatus fetches the current state of a crawl job
func (c *Client) GetStatus(ctx context.Context, jobID string) (*Status, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/crawls/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("crawl status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("crawl service returned HTTP %d: %s", resp.StatusCode, data)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to parse crawl status: %w", err)
	}

	return &status, nil
}

// WaitForCompletion polls a crawl job until it finishes. Gives up
// after 30 attempts spaced 10 seconds apart.
func (c *Client) WaitForCompletion(ctx context.Context, jobID string) (*Status, error) {
	for attempt := 0; attempt < maxPollAttempts; attempt++ {
		status, err := c.GetStatus(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch status.State {
		case "completed":
			return status, nil
		case "failed":
			return nil, fmt.Errorf("crawl job %s failed: %s", jobID, status.Error)
		}

		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("crawl job %s did not complete after %d attempts", jobID, maxPollAttempts)
}
