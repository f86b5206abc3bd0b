// Package netutil provides retry and rate limiting helpers shared by
// the scrapers and the LLM client.
package netutil

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

var throttlingMarkers = []string{"throttlingexception", "too many requests", "rate exceeded"}

var timeoutMarkers = []string{"timeout", "timed out", "request timeout"}

func IsThrottlingError(err error) bool {
	if err == nil {
		return false
	}
	return containsAnyMarker(err.Error(), throttlingMarkers)
}

func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	return containsAnyMarker(err.Error(), timeoutMarkers)
}

func containsAnyMarker(msg string, markers []string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// WithRetry runs op up to retries+1 times. Backoff between attempts
// grows with the number of attempts already spent and is longer for
// throttling and timeout errors than for other failures. The last
// error is returned unwrapped when all attempts fail.
func WithRetry[T any](ctx context.Context, retries int, op func() (T, error)) (T, error) {
	result, err := op()
	if err == nil {
		return result, nil
	}

	if retries <= 0 {
		return result, err
	}

	delay := retryDelay(err, retries)

	slog.Debug("Operation failed, retrying", "retries_left", retries, "delay", delay, "error", err)

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return result, ctx.Err()
	}

	return WithRetry(ctx, retries-1, op)
}

func retryDelay(err error, retriesLeft int) time.Duration {
	switch {
	case IsThrottlingError(err):
		return time.Duration(1<<(4-min(retriesLeft, 4))) * time.Second
	case IsTimeoutError(err):
		return time.Duration(1<<(5-min(retriesLeft, 5))) * time.Second
	default:
		return 2 * time.Second
	}
}
