package tasks

import (
	"context"
	"log/slog"

	"github.com/edgard/armastatus/internal/config"
	"github.com/edgard/armastatus/internal/state"
)

// ScheduledTaskFunc defines the standard signature for all scheduled tasks.
// The context provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the tasks available for deps, keyed by the name
// used in the scheduler.tasks config section.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	tasks := make(map[string]ScheduledTaskFunc)

	tasks[config.TaskStatusRefresh] = newStatusRefreshTask(deps)

	// Only the sqlite store has anything to maintain.
	if m, ok := deps.Store.(state.Maintainer); ok {
		tasks[config.TaskSQLMaintenance] = newSQLMaintenanceTask(deps.Logger, m)
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
