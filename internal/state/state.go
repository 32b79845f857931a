// Package state persists the identifier of the tracked status message.
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/mo"

	"github.com/edgard/armastatus/internal/database"
)

// Drivers accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown state driver")

// Store loads and saves the tracked message identifier.
// Load returns none, with a nil error, when nothing has been stored yet.
type Store interface {
	Load(ctx context.Context) (mo.Option[string], error)
	Save(ctx context.Context, messageID string) error
}

// Maintainer is implemented by stores that need periodic housekeeping.
type Maintainer interface {
	RunSQLMaintenance(ctx context.Context) error
}

// Options selects and configures the store backend.
type Options struct {
	Driver    string
	Path      string
	Key       string // row key for the sqlite driver
	ChannelID string
}

// Open creates the store selected by opts. The returned close function
// releases the backend and is never nil.
func Open(opts Options, logger *slog.Logger) (Store, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch opts.Driver {
	case DriverFile, "":
		return NewFileStore(opts.Path, logger), func() {}, nil

	case DriverSQLite:
		db, err := database.Open(opts.Path, logger)
		if err != nil {
			return nil, func() {}, fmt.Errorf("failed to open sqlite state: %w", err)
		}
		store := database.NewMessageStore(db, opts.Key, opts.ChannelID, logger)
		return store, func() { database.Close(db, logger) }, nil

	default:
		return nil, func() {}, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
