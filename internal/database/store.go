package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"
)

// MessageStore keeps the tracked message identifier in SQLite.
type MessageStore struct {
	db        *sqlx.DB
	key       string
	channelID string
	logger    *slog.Logger
}

// NewMessageStore creates a store for the row identified by key.
// channelID is recorded next to the message identifier for operators.
func NewMessageStore(db *sqlx.DB, key, channelID string, logger *slog.Logger) *MessageStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &MessageStore{
		db:        db,
		key:       key,
		channelID: channelID,
		logger:    logger.With("component", "message_store", "driver", "sqlite"),
	}
}

// Ping checks the database connection.
func (s *MessageStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load returns the stored message identifier, or none if nothing was stored yet.
func (s *MessageStore) Load(ctx context.Context) (mo.Option[string], error) {
	var msg TrackedMessage
	err := s.db.GetContext(ctx, &msg,
		`SELECT key, message_id, channel_id, created_at, updated_at FROM tracked_messages WHERE key = ?`, s.key)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No tracked message stored", "key", s.key)
		return mo.None[string](), nil
	case err != nil:
		return mo.None[string](), fmt.Errorf("failed to load tracked message %q: %w", s.key, err)
	}

	id := strings.TrimSpace(msg.MessageID)
	if id == "" {
		return mo.None[string](), nil
	}
	return mo.Some(id), nil
}

// Save records messageID, replacing any previous value for the key.
func (s *MessageStore) Save(ctx context.Context, messageID string) error {
	if messageID == "" {
		return errors.New("message id cannot be empty")
	}

	now := time.Now().UTC()
	msg := TrackedMessage{
		Key:       s.key,
		MessageID: messageID,
		ChannelID: s.channelID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
        INSERT INTO tracked_messages (key, message_id, channel_id, created_at, updated_at)
        VALUES (:key, :message_id, :channel_id, :created_at, :updated_at)
        ON CONFLICT(key) DO UPDATE SET
            message_id = excluded.message_id,
            channel_id = excluded.channel_id,
            updated_at = excluded.updated_at;
    `
	if _, err := s.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("failed to save tracked message %q: %w", s.key, err)
	}

	s.logger.DebugContext(ctx, "Saved tracked message", "key", s.key, "message_id", messageID)
	return nil
}

// RunSQLMaintenance runs VACUUM and ANALYZE on the database.
func (s *MessageStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM cannot run inside a transaction.
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
		}
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "ANALYZE;"); err != nil {
		return fmt.Errorf("failed to execute ANALYZE: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
