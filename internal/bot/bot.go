// Package bot implements lifecycle management and component orchestration
// for the status bot.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/armastatus/internal/chat"
)

// MessageEnsurer makes sure the tracked status message exists.
type MessageEnsurer interface {
	EnsureMessage(ctx context.Context) (string, error)
}

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	conn      chat.Connection
	tracker   MessageEnsurer
	scheduler *Scheduler
}

// NewBot creates a new instance of the bot with all required dependencies.
func NewBot(logger *slog.Logger, conn chat.Connection, tracker MessageEnsurer, scheduler *Scheduler) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		conn:      conn,
		tracker:   tracker,
		scheduler: scheduler,
	}
}

// Run connects to the chat platform, makes sure the status message exists,
// and runs the scheduler until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	if err := b.conn.Open(ctx); err != nil {
		return fmt.Errorf("failed to connect to chat platform: %w", err)
	}
	defer func() {
		if err := b.conn.Close(); err != nil {
			b.logger.Error("Error closing chat connection", "error", err)
		}
	}()

	if id, err := b.tracker.EnsureMessage(ctx); err != nil {
		// status_refresh retries creation on every tick.
		b.logger.Error("Failed to create status message, will retry on next tick", "error", err)
	} else {
		b.logger.Info("Status message ready", "message_id", id)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting scheduler...")
		if err := b.scheduler.Start(gCtx); err != nil {
			b.logger.Error("Failed to start scheduler", "error", err)
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}

		return nil
	})

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
