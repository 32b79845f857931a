// Package tasks implements the scheduled tasks of the status bot.
// It includes task definitions, dependencies, and registration.
package tasks

import (
	"context"
	"log/slog"

	"github.com/edgard/armastatus/internal/state"
	"github.com/edgard/armastatus/internal/tracker"
)

// Ticker advances the status message by one step.
type Ticker interface {
	Tick(ctx context.Context) tracker.Outcome
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Tracker Ticker
	Store   state.Store
}
