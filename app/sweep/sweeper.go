// Package sweep removes scholarships whose deadlines have passed.
// The sweep runs on a schedule and pages through the whole table, so
// it stays cheap even as the table grows.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/scholartrack/scholartrack/app/database"
	"github.com/scholartrack/scholartrack/app/normalize"
)

const pageDelay = 100 * time.Millisecond

// Summary reports one completed sweep
type Summary struct {
	Scanned int
	Found   int
	Deleted int
	Failed  int
}

type Sweeper struct {
	store    database.ScholarshipStore
	pageSize int
}

func NewSweeper(store database.ScholarshipStore, pageSize int) *Sweeper {
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &Sweeper{store: store, pageSize: pageSize}
}

// Run scans every scholarship page by page and deletes expired rows.
// A failed delete is counted and the scan continues; only a failed
// page read aborts the sweep.
func (s *Sweeper) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		page, err := s.store.GetPage(offset, s.pageSize)
		if err != nil {
			return summary, fmt.Errorf("failed to read page at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}

		deletedThisPage := 0
		for _, sch := range page {
			summary.Scanned++

			if !normalize.IsDeadlineExpired(sch.Deadline) {
				continue
			}
			summary.Found++

			if err := s.store.Delete(sch.ID); err != nil {
				summary.Failed++
				slog.Warn("Failed to delete expired scholarship",
					"id", sch.ID, "name", sch.Name, "error", err)
				continue
			}
			summary.Deleted++
			deletedThisPage++
		}

		if len(page) < s.pageSize {
			break
		}
		// Deletions shift later rows backward, keep the offset behind them
		offset += s.pageSize - deletedThisPage

		select {
		case <-time.After(pageDelay):
		case <-ctx.Done():
			return summary, ctx.Err()
		}
	}

	slog.Info("Expiration sweep completed",
		"scanned", summary.Scanned, "found", summary.Found,
		"deleted", summary.Deleted, "failed", summary.Failed)

	return summary, nil
}
