package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

type BookDraftDeleter interface {
	DeleteDraftsForBook(ctx context.Context, bookID uint) (int64, error)
}

// PurgeBookDraftsTask deletes every draft review of one book.
type PurgeBookDraftsTask struct {
	BookID uint `json:"book_id"`
}

func (t PurgeBookDraftsTask) Config() backlite.QueueConfig {
	d := DefaultConfig()
	return backlite.QueueConfig{
		Name:        "purge_book_drafts",
		MaxAttempts: d.Attempts,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention:   keepFailedPayloads(d.KeepFor),
	}
}

func PurgeBookDraftsProcessor(deleter BookDraftDeleter) backlite.QueueProcessor[PurgeBookDraftsTask] {
	return func(ctx context.Context, task PurgeBookDraftsTask) error {
		if deleter == nil {
			return fmt.Errorf("draft deleter not configured")
		}

		deleted, err := deleter.DeleteDraftsForBook(ctx, task.BookID)
		if err != nil {
			return fmt.Errorf("purge drafts of book %d: %w", task.BookID, err)
		}

		log.Info().Uint("book_id", task.BookID).Int64("deleted", deleted).Msg("Purged book review drafts")
		return nil
	}
}

func NewPurgeBookDraftsQueue(deleter BookDraftDeleter) backlite.Queue {
	return backlite.NewQueue(PurgeBookDraftsProcessor(deleter))
}
