package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

// DraftPurger removes review drafts nobody has touched for a while.
type DraftPurger interface {
	PurgeStaleDrafts(ctx context.Context, retention time.Duration) (int64, error)
}

// PurgeStaleDraftsTask deletes drafts last edited more than Retention ago.
type PurgeStaleDraftsTask struct {
	Retention time.Duration `json:"retention"`
}

// Config returns the queue defaults for stale draft purges. A Client
// replaces the retry, timeout and retention values with its own Config.
func (t PurgeStaleDraftsTask) Config() backlite.QueueConfig {
	d := DefaultConfig()
	return backlite.QueueConfig{
		Name:        "purge_stale_drafts",
		MaxAttempts: d.Attempts,
		Backoff:     d.Backoff,
		Timeout:     d.Timeout,
		Retention:   keepFailedPayloads(d.KeepFor),
	}
}

func PurgeStaleDraftsProcessor(purger DraftPurger) backlite.QueueProcessor[PurgeStaleDraftsTask] {
	return func(ctx context.Context, task PurgeStaleDraftsTask) error {
		if purger == nil {
			return fmt.Errorf("draft purger not configured")
		}
		if task.Retention <= 0 {
			return fmt.Errorf("purge stale drafts: retention must be positive, got %s", task.Retention)
		}

		deleted, err := purger.PurgeStaleDrafts(ctx, task.Retention)
		if err != nil {
			return fmt.Errorf("purge stale drafts: %w", err)
		}

		log.Info().Int64("deleted", deleted).Dur("retention", task.Retention).Msg("Purged stale review drafts")
		return nil
	}
}

func NewPurgeStaleDraftsQueue(purger DraftPurger) backlite.Queue {
	return backlite.NewQueue(PurgeStaleDraftsProcessor(purger))
}
