package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/mo"
)

// FileStore keeps the message identifier as plain text in a single file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		path:   path,
		logger: logger.With("component", "message_store", "driver", "file", "path", path),
	}
}

// Load reads the identifier. A missing or blank file means none.
func (s *FileStore) Load(ctx context.Context) (mo.Option[string], error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.DebugContext(ctx, "State file does not exist yet")
		return mo.None[string](), nil
	}
	if err != nil {
		return mo.None[string](), fmt.Errorf("failed to read state file: %w", err)
	}

	id := strings.TrimSpace(string(data))
	if id == "" {
		return mo.None[string](), nil
	}
	return mo.Some(id), nil
}

// Save overwrites the file with messageID.
func (s *FileStore) Save(_ context.Context, messageID string) error {
	if messageID == "" {
		return errors.New("message id cannot be empty")
	}
	if err := os.WriteFile(s.path, []byte(messageID), 0o644); err != nil { //nolint:gosec // not a secret
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
