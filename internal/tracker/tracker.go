// Package tracker keeps one chat message in sync with the game server.
//
// A Tracker starts UNINITIALIZED (no message id known). The first successful
// EnsureMessage moves it to TRACKING, after which every Tick edits the same
// message. There is no transition back.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/mo"

	"github.com/edgard/armastatus/internal/chat"
	"github.com/edgard/armastatus/internal/domain/model"
	"github.com/edgard/armastatus/internal/embed"
	"github.com/edgard/armastatus/internal/state"
)

// Querier queries the game server. Failures are reported as mo.None.
type Querier interface {
	Query(ctx context.Context) mo.Option[model.Snapshot]
}

// Outcome is the result of one Tick or Refresh.
type Outcome int

const (
	OutcomeUpdated Outcome = iota
	// OutcomeCreated means the tick left UNINITIALIZED, either by sending a
	// new message or by finding a stored id.
	OutcomeCreated
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeCreated:
		return "created"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Options holds what the tracker needs to render the card.
type Options struct {
	Mappings []model.OrgMapping
	Display  embed.Options
	// Now defaults to time.Now.
	Now func() time.Time
}

// Tracker owns the tracked message id.
type Tracker struct {
	querier   Querier
	publisher chat.Publisher
	store     state.Store
	mappings  []model.OrgMapping
	display   embed.Options
	now       func() time.Time
	logger    *slog.Logger

	ensureMu  sync.Mutex
	mu        sync.RWMutex
	messageID mo.Option[string]
}

// New creates a tracker in the UNINITIALIZED state.
func New(querier Querier, publisher chat.Publisher, store state.Store, opts Options, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		querier:   querier,
		publisher: publisher,
		store:     store,
		mappings:  opts.Mappings,
		display:   opts.Display,
		now:       now,
		logger:    logger.With("component", "tracker"),
		messageID: mo.None[string](),
	}
}

// MessageID returns the tracked message id, if one is known.
func (t *Tracker) MessageID() mo.Option[string] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.messageID
}

func (t *Tracker) setMessageID(id string) {
	t.mu.Lock()
	t.messageID = mo.Some(id)
	t.mu.Unlock()
}

// EnsureMessage returns the tracked message id, creating the message if no
// id is known in memory or in the store. A known id is returned without
// querying the server or sending anything.
func (t *Tracker) EnsureMessage(ctx context.Context) (string, error) {
	t.ensureMu.Lock()
	defer t.ensureMu.Unlock()

	if id, ok := t.MessageID().Get(); ok {
		return id, nil
	}

	stored, err := t.store.Load(ctx)
	if err != nil {
		// A stored id that cannot be read leads to a second message.
		t.logger.ErrorContext(ctx, "Failed to load stored message id, treating as absent", "error", err)
		stored = mo.None[string]()
	}
	if id, ok := stored.Get(); ok {
		t.setMessageID(id)
		t.logger.InfoContext(ctx, "Tracking existing status message", "message_id", id)
		return id, nil
	}

	display := embed.Build(t.querier.Query(ctx), t.mappings, t.display, t.now())
	id, err := t.publisher.Send(ctx, display)
	if err != nil {
		return "", fmt.Errorf("failed to create status message: %w", err)
	}
	t.setMessageID(id)

	if err := t.store.Save(ctx, id); err != nil {
		t.logger.ErrorContext(ctx, "Failed to persist message id, it will be lost on restart",
			"message_id", id, "error", err)
	}

	t.logger.InfoContext(ctx, "Tracking new status message", "message_id", id)
	return id, nil
}

// Refresh queries the server and edits messageID with the result. An absent
// snapshot skips the edit and leaves the previous content in place.
func (t *Tracker) Refresh(ctx context.Context, messageID string) Outcome {
	snapshot := t.querier.Query(ctx)
	if snapshot.IsAbsent() {
		t.logger.WarnContext(ctx, "No server snapshot, skipping update", "message_id", messageID)
		return OutcomeSkipped
	}

	display := embed.Build(snapshot, t.mappings, t.display, t.now())
	if err := t.publisher.Edit(ctx, messageID, display); err != nil {
		t.logger.ErrorContext(ctx, "Failed to update status message", "message_id", messageID, "error", err)
		return OutcomeFailed
	}

	t.logger.DebugContext(ctx, "Status message updated",
		"message_id", messageID,
		"players", snapshot.MustGet().PlayerCount(),
		"online", display.Online)
	return OutcomeUpdated
}

// Tick runs one timer step: create the message while UNINITIALIZED,
// refresh it once TRACKING.
func (t *Tracker) Tick(ctx context.Context) Outcome {
	if id, ok := t.MessageID().Get(); ok {
		return t.Refresh(ctx, id)
	}

	if _, err := t.EnsureMessage(ctx); err != nil {
		t.logger.ErrorContext(ctx, "Failed to create status message", "error", err)
		return OutcomeFailed
	}
	return OutcomeCreated
}
