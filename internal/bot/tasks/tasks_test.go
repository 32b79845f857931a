package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edgard/armastatus/internal/config"
	"github.com/edgard/armastatus/internal/tracker"
)

type mockTicker struct {
	mock.Mock
}

func (m *mockTicker) Tick(ctx context.Context) tracker.Outcome {
	return m.Called(ctx).Get(0).(tracker.Outcome)
}

type fileLikeStore struct{}

func (fileLikeStore) Load(context.Context) (mo.Option[string], error) { return mo.None[string](), nil }
func (fileLikeStore) Save(context.Context, string) error              { return nil }

type sqliteLikeStore struct {
	fileLikeStore
	maintErr error
	runs     int
}

func (s *sqliteLikeStore) RunSQLMaintenance(context.Context) error {
	s.runs++
	return s.maintErr
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	fileTasks := RegisterAllTasks(TaskDeps{Logger: quietLogger(), Tracker: &mockTicker{}, Store: fileLikeStore{}})
	assert.Contains(t, fileTasks, config.TaskStatusRefresh)
	assert.NotContains(t, fileTasks, config.TaskSQLMaintenance)

	sqlTasks := RegisterAllTasks(TaskDeps{Logger: quietLogger(), Tracker: &mockTicker{}, Store: &sqliteLikeStore{}})
	assert.Contains(t, sqlTasks, config.TaskStatusRefresh)
	assert.Contains(t, sqlTasks, config.TaskSQLMaintenance)
}

func TestStatusRefreshTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome tracker.Outcome
		wantErr bool
	}{
		{outcome: tracker.OutcomeUpdated},
		{outcome: tracker.OutcomeCreated},
		{outcome: tracker.OutcomeSkipped},
		{outcome: tracker.OutcomeFailed, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			t.Parallel()

			ticker := &mockTicker{}
			ticker.On("Tick", mock.Anything).Return(tt.outcome).Once()

			err := newStatusRefreshTask(TaskDeps{Logger: quietLogger(), Tracker: ticker})(context.Background())

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrRefreshFailed)
			} else {
				assert.NoError(t, err)
			}
			ticker.AssertExpectations(t)
		})
	}
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	ok := &sqliteLikeStore{}
	require.NoError(t, newSQLMaintenanceTask(quietLogger(), ok)(context.Background()))
	assert.Equal(t, 1, ok.runs)

	failing := &sqliteLikeStore{maintErr: errors.New("database is locked")}
	err := newSQLMaintenanceTask(quietLogger(), failing)(context.Background())
	assert.ErrorContains(t, err, "database is locked")
}
