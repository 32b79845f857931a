// Package chat defines the boundary between the status tracker and the chat
// platforms it publishes to.
package chat

import (
	"context"

	"github.com/edgard/armastatus/internal/domain/model"
)

// Publisher creates and edits the tracked status message.
type Publisher interface {
	// Send posts a new message and returns its platform identifier.
	Send(ctx context.Context, display model.Display) (string, error)

	// Edit replaces the content of the message identified by messageID.
	Edit(ctx context.Context, messageID string, display model.Display) error
}

// Connection is implemented by publishers that hold a long-lived session.
type Connection interface {
	Open(ctx context.Context) error
	Close() error
}
