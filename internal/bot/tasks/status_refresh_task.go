package tasks

import (
	"context"
	"errors"

	"github.com/edgard/armastatus/internal/tracker"
)

// ErrRefreshFailed is returned when a tick could not create or edit the
// status message. The tick is retried on the next run.
var ErrRefreshFailed = errors.New("status refresh failed")

func newStatusRefreshTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "status_refresh")

	return func(ctx context.Context) error {
		outcome := deps.Tracker.Tick(ctx)
		log.DebugContext(ctx, "Status refresh finished", "outcome", outcome.String())

		if outcome == tracker.OutcomeFailed {
			return ErrRefreshFailed
		}
		return nil
	}
}
