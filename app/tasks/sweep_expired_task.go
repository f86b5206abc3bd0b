package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scholartrack/scholartrack/app/sweep"
)

// SweepExpiredTask removes scholarships with passed deadlines. The
// cron scheduler enqueues one of these on the configured schedule;
// the API can also trigger one on demand.
type SweepExpiredTask struct {
	Task
	sweeper *sweep.Sweeper
}

func NewSweepExpiredTask(sweeper *sweep.Sweeper) *SweepExpiredTask {
	return &SweepExpiredTask{
		Task:    NewTask(TaskTypeSweepExpired, ""),
		sweeper: sweeper,
	}
}

func (t *SweepExpiredTask) Execute(ctx context.Context) error {
	summary, err := t.sweeper.Run(ctx)
	if err != nil {
		return fmt.Errorf("expiration sweep failed: %w", err)
	}

	slog.Info("Expiration sweep task finished",
		"scanned", summary.Scanned, "found", summary.Found,
		"deleted", summary.Deleted, "failed", summary.Failed,
		"duration", t.GetDuration().String())

	return nil
}
