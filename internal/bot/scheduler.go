package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/oklog/ulid/v2"

	"github.com/edgard/armastatus/internal/bot/tasks"
	"github.com/edgard/armastatus/internal/config"
	"github.com/edgard/armastatus/internal/logger"
)

// Scheduler manages scheduled tasks using the gocron library.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       *config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc
	mu        sync.Mutex
	running   bool
}

// NewScheduler creates a new scheduler instance using gocron.
func NewScheduler(log *slog.Logger, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}

	s, err := gocron.NewScheduler(gocron.WithLogger(logger.NewGocronLogger(log)))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    log.With("component", "scheduler"),
		cfg:       cfg,
		taskMap:   taskMap,
	}, nil
}

// Start schedules every enabled task and starts ticking. Task runs receive a
// context derived from ctx, so cancelling ctx cancels in-flight runs.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler is already running")
	}

	if s.cfg == nil || len(s.cfg.Tasks) == 0 {
		s.logger.Warn("No scheduler tasks configured.")
		s.scheduler.Start()
		s.running = true
		return nil
	}

	scheduledCount := 0
	for taskName, taskConfig := range s.cfg.Tasks {
		if !taskConfig.Enabled {
			s.logger.Info("Skipping disabled task", "task_name", taskName)
			continue
		}

		taskFunc, exists := s.taskMap[taskName]
		if !exists {
			s.logger.Debug("Scheduled task configured but not available, skipping", "task_name", taskName)
			continue
		}

		definition, desc := jobDefinition(taskConfig)
		if definition == nil {
			s.logger.Warn("Scheduled task enabled but has no interval or schedule, skipping", "task_name", taskName)
			continue
		}

		opts := []gocron.JobOption{gocron.WithName(taskName)}
		if s.cfg.SingleFlight {
			// A run that is still in flight defers the next one.
			opts = append(opts, gocron.WithSingletonMode(gocron.LimitModeReschedule))
		}

		_, err := s.scheduler.NewJob(
			definition,
			gocron.NewTask(s.runTask, ctx, taskName, taskFunc),
			opts...,
		)
		if err != nil {
			s.logger.Error("Failed to schedule task", "task_name", taskName, "trigger", desc, "error", err)
			continue
		}

		s.logger.Info("Scheduled task", "task_name", taskName, "trigger", desc, "single_flight", s.cfg.SingleFlight)
		scheduledCount++
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler initialized and started", "tasks_scheduled", scheduledCount)

	return nil
}

// runTask wraps one run with a run_id and timing logs.
func (s *Scheduler) runTask(ctx context.Context, name string, taskFunc tasks.ScheduledTaskFunc) {
	if ctx.Err() != nil {
		return
	}
	ctx = logger.WithRunID(ctx, ulid.Make().String())

	s.logger.DebugContext(ctx, "Running scheduled task", "task_name", name)
	startTime := time.Now()
	if err := taskFunc(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Scheduled task failed", "task_name", name, "error", err)
	}
	s.logger.DebugContext(ctx, "Finished scheduled task", "task_name", name, "duration", time.Since(startTime))
}

// jobDefinition prefers the cron schedule over the interval. A six field
// schedule includes seconds.
func jobDefinition(tc config.TaskConfig) (gocron.JobDefinition, string) {
	if tc.Schedule != "" {
		withSeconds := len(strings.Fields(tc.Schedule)) == 6
		return gocron.CronJob(tc.Schedule, withSeconds), "cron " + tc.Schedule
	}
	if tc.Interval > 0 {
		return gocron.DurationJob(tc.Interval), "every " + tc.Interval.String()
	}
	return nil, ""
}

// Stop gracefully stops the scheduler, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Info("Scheduler is not running, nothing to stop.")
		return nil
	}

	s.logger.Debug("Stopping scheduler gracefully (waiting for jobs)...")
	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}

	s.running = false
	return err
}
