// Package scheduler runs the tracker's periodic maintenance on cron
// schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/readingtracker/internal/config"
	"github.com/mrlokans/readingtracker/internal/tasks"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// NextRunTime returns the next time schedule fires after from.
func NextRunTime(schedule string, from time.Time) (time.Time, error) {
	sched, err := parser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

// Enqueuer hands work to the task queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// RunStatus describes the most recent cleanup run.
type RunStatus struct {
	At      time.Time `json:"at"`
	Queued  bool      `json:"queued"`
	Deleted int64     `json:"deleted"`
	Error   string    `json:"error,omitempty"`
}

// DraftCleanupScheduler periodically removes review drafts older than the
// retention. With a queue the purge is enqueued as a task; without one it
// runs inline.
type DraftCleanupScheduler struct {
	cfg    config.DraftCleanup
	purger tasks.DraftPurger
	queue  Enqueuer

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
	last      *RunStatus
}

func NewDraftCleanupScheduler(cfg config.DraftCleanup, purger tasks.DraftPurger, queue Enqueuer) *DraftCleanupScheduler {
	return &DraftCleanupScheduler{
		cfg:    cfg,
		purger: purger,
		queue:  queue,
		cron:   cron.New(cron.WithParser(parser)),
	}
}

// Start schedules the cleanup if enabled. It stops when ctx ends.
func (s *DraftCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if !s.cfg.Enabled {
		log.Info().Msg("Draft cleanup scheduler disabled")
		return nil
	}
	if s.cfg.Retention <= 0 {
		return fmt.Errorf("draft retention must be positive, got %s", s.cfg.Retention)
	}
	if err := ValidateSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule draft cleanup: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	next, _ := NextRunTime(s.cfg.Schedule, time.Now())
	log.Info().
		Str("schedule", s.cfg.Schedule).
		Dur("retention", s.cfg.Retention).
		Time("next_run", next).
		Msg("Draft cleanup scheduler started")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop waits for a running cleanup to finish.
func (s *DraftCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false
	log.Info().Msg("Draft cleanup scheduler stopped")
}

// RunNow performs one cleanup immediately and returns its status.
func (s *DraftCleanupScheduler) RunNow(ctx context.Context) RunStatus {
	return s.run(ctx)
}

func (s *DraftCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *DraftCleanupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// LastRun returns the status of the latest run, or nil before the first.
func (s *DraftCleanupScheduler) LastRun() *RunStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	st := *s.last
	return &st
}

func (s *DraftCleanupScheduler) run(ctx context.Context) RunStatus {
	status := RunStatus{At: time.Now()}
	task := tasks.PurgeStaleDraftsTask{Retention: s.cfg.Retention}

	switch {
	case s.queue != nil:
		id, err := s.queue.Enqueue(ctx, task)
		if err != nil {
			status.Error = err.Error()
			log.Error().Err(err).Msg("Failed to enqueue draft cleanup")
			break
		}
		status.Queued = true
		log.Info().Str("task_id", id).Msg("Draft cleanup enqueued")
	case s.purger != nil:
		n, err := s.purger.PurgeStaleDrafts(ctx, s.cfg.Retention)
		if err != nil {
			status.Error = err.Error()
			log.Error().Err(err).Msg("Draft cleanup failed")
			break
		}
		status.Deleted = n
		log.Info().Int64("deleted", n).Msg("Draft cleanup finished")
	default:
		status.Error = "no draft purger configured"
		log.Warn().Msg("Draft cleanup skipped: no purger configured")
	}

	s.mu.Lock()
	s.last = &status
	s.mu.Unlock()
	return status
}
