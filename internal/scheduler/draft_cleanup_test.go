package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readingtracker/internal/config"
	"github.com/mrlokans/readingtracker/internal/tasks"
)

type fakePurger struct {
	retention time.Duration
	n         int64
	err       error
}

func (f *fakePurger) PurgeStaleDrafts(_ context.Context, retention time.Duration) (int64, error) {
	f.retention = retention
	return f.n, f.err
}

type fakeQueue struct {
	tasks []backlite.Task
	err   error
}

func (f *fakeQueue) Enqueue(_ context.Context, task backlite.Task) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.tasks = append(f.tasks, task)
	return "task-1", nil
}

func enabled() config.DraftCleanup {
	return config.DraftCleanup{Enabled: true, Schedule: "0 3 * * *", Retention: 72 * time.Hour}
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 3 * * *"))
	assert.NoError(t, ValidateSchedule("*/15 * * * *"))
	assert.Error(t, ValidateSchedule("every night"))
	assert.Error(t, ValidateSchedule("0 0 3 * * *"), "six fields are rejected")
}

func TestNextRunTime(t *testing.T) {
	from := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)

	next, err := NextRunTime("0 3 * * *", from)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 3, 0, 0, 0, time.Local), next)
}

func TestRunNow_PurgesInline(t *testing.T) {
	purger := &fakePurger{n: 4}
	s := NewDraftCleanupScheduler(enabled(), purger, nil)

	status := s.RunNow(context.Background())

	assert.Equal(t, int64(4), status.Deleted)
	assert.False(t, status.Queued)
	assert.Empty(t, status.Error)
	assert.Equal(t, 72*time.Hour, purger.retention)
	require.NotNil(t, s.LastRun())
	assert.Equal(t, int64(4), s.LastRun().Deleted)
}

func TestRunNow_PrefersQueue(t *testing.T) {
	purger := &fakePurger{}
	queue := &fakeQueue{}
	s := NewDraftCleanupScheduler(enabled(), purger, queue)

	status := s.RunNow(context.Background())

	assert.True(t, status.Queued)
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, tasks.PurgeStaleDraftsTask{Retention: 72 * time.Hour}, queue.tasks[0])
	assert.Zero(t, purger.retention, "inline purge not used when a queue exists")
}

func TestRunNow_RecordsFailure(t *testing.T) {
	s := NewDraftCleanupScheduler(enabled(), &fakePurger{err: errors.New("disk full")}, nil)

	status := s.RunNow(context.Background())

	assert.Equal(t, "disk full", status.Error)
}

func TestStartStop(t *testing.T) {
	s := NewDraftCleanupScheduler(enabled(), &fakePurger{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())
	next := s.NextRunTime()
	require.NotNil(t, next)
	assert.Equal(t, 3, next.Hour())

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRunTime())
}

func TestStart_DisabledOrInvalid(t *testing.T) {
	disabled := NewDraftCleanupScheduler(config.DraftCleanup{}, &fakePurger{}, nil)
	require.NoError(t, disabled.Start(context.Background()))
	assert.False(t, disabled.IsRunning())

	cfg := enabled()
	cfg.Schedule = "nightly"
	assert.Error(t, NewDraftCleanupScheduler(cfg, &fakePurger{}, nil).Start(context.Background()))

	cfg = enabled()
	cfg.Retention = 0
	assert.Error(t, NewDraftCleanupScheduler(cfg, &fakePurger{}, nil).Start(context.Background()))
}
