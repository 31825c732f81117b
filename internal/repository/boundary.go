package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mrlokans/readingtracker/internal/database"
	apperrors "github.com/mrlokans/readingtracker/internal/errors"
	"github.com/mrlokans/readingtracker/internal/live"
)

// Config holds the settings shared by all repositories.
type Config struct {
	// OperationTimeout bounds every call. Zero means no bound.
	OperationTimeout time.Duration
}

// boundary carries what every entity repository shares: the change hub and
// the per-call timeout.
type boundary struct {
	hub     *live.Hub
	timeout time.Duration
}

func newBoundary(hub *live.Hub, cfg Config) boundary {
	if hub == nil {
		hub = live.NewHub()
	}
	return boundary{hub: hub, timeout: cfg.OperationTimeout}
}

// run executes fn under the operation timeout and converts whatever comes
// out of it, panics included, into a typed failure.
func (b boundary) run(ctx context.Context, op string, fn func(ctx context.Context) error) (err error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.Storage(fmt.Errorf("panic: %v", r), op)
			log.Error().Str("op", op).Interface("panic", r).Msg("Recovered storage panic")
		}
	}()
	return fn(ctx)
}

// translate turns a storage error into a typed failure. what names the
// record for not-found and duplicate messages.
func translate(err error, op, what string) error {
	if err == nil {
		return nil
	}
	var typed *apperrors.Error
	if errors.As(err, &typed) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFoundf("%s not found", what)
	case database.IsDuplicateKey(err):
		return apperrors.DuplicateKeyf("%s conflicts with an existing record", what).WithCause(err)
	case database.IsForeignKeyViolation(err):
		return apperrors.NotFoundf("book referenced by %s not found", what).WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn().Err(err).Str("op", op).Msg("Storage operation timed out")
		return apperrors.Storage(err, op+": timed out")
	default:
		log.Error().Err(err).Str("op", op).Msg("Storage operation failed")
		return apperrors.Storage(err, op)
	}
}

// isNotFound reports whether a raw storage error means the row is absent.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func requireBook(ctx context.Context, books BookChecker, bookID uint) error {
	ok, err := books.Exists(ctx, bookID)
	if err != nil {
		return translate(err, "check book", fmt.Sprintf("book %d", bookID))
	}
	if !ok {
		return apperrors.NotFoundf("book %d not found", bookID)
	}
	return nil
}

// checkRow reports a stored row that no longer passes validation as a
// storage failure rather than a caller mistake.
func checkRow(err error, what string) error {
	if err == nil {
		return nil
	}
	log.Warn().Err(err).Str("row", what).Msg("Stored row failed validation")
	return apperrors.Storage(err, what+" is invalid in storage")
}

// mapRows converts rows to domain objects, skipping rows that fail
// validation so one bad row does not hide the rest.
func mapRows[R, D any](rows []R, conv func(R) (D, error)) []D {
	out := make([]D, 0, len(rows))
	for _, row := range rows {
		d, err := conv(row)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}
