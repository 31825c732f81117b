package screen

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/readingtracker/internal/config"
	"github.com/mrlokans/readingtracker/internal/domain"
	"github.com/mrlokans/readingtracker/internal/live"
)

type BookStore interface {
	Watch(ctx context.Context, id uint) <-chan live.Result[*domain.Book]
	Update(ctx context.Context, book domain.Book) error
	Delete(ctx context.Context, book domain.Book) error
}

// BookDetail follows one book and applies edits to it.
//
// Status updates do not consult the transition table unless
// EnforceStatusTransitions is set; moves outside it are logged either way.
type BookDetail struct {
	scope   *scope
	books   BookStore
	bookID  uint
	enforce bool
	now     func() time.Time

	book        *live.Value[State[domain.Book]]
	updateState *live.Value[State[struct{}]]
	deleteState *live.Value[State[struct{}]]

	current *domain.Book
	latest  *domain.Book
	queued  bool
	writing bool
}

func NewBookDetail(books BookStore, bookID uint, cfg config.Tracker) *BookDetail {
	d := &BookDetail{
		scope:       newScope("book_detail"),
		books:       books,
		bookID:      bookID,
		enforce:     cfg.EnforceStatusTransitions,
		now:         time.Now,
		book:        live.NewValue(Loading[domain.Book]()),
		updateState: live.NewValue(Loading[struct{}]()),
		deleteState: live.NewValue(Loading[struct{}]()),
	}
	collect(d.scope, books.Watch(d.scope.ctx, bookID), d.onBook)
	return d
}

func (d *BookDetail) Book() Observable[State[domain.Book]]     { return d.book }
func (d *BookDetail) UpdateState() Observable[State[struct{}]] { return d.updateState }
func (d *BookDetail) DeleteState() Observable[State[struct{}]] { return d.deleteState }

func (d *BookDetail) onBook(res live.Result[*domain.Book]) {
	if res.Err != nil {
		d.current = nil
		d.book.Set(Failed[domain.Book](res.Err))
		return
	}
	d.current = res.Value
	d.book.Set(Succeeded(*res.Value))
}

// UpdateReadingStatus moves the book to status, stamping the start date
// when reading begins and the finish date when it ends.
func (d *BookDetail) UpdateReadingStatus(status domain.ReadingStatus) {
	d.edit(func(b domain.Book) (domain.Book, error) {
		if d.enforce {
			return b.Transition(status, d.now())
		}
		if !domain.CanTransition(b.Status, status) {
			log.Warn().
				Uint("book_id", b.ID).
				Str("from", string(b.Status)).
				Str("to", string(status)).
				Msg("Reading status moved outside the transition table")
		}
		return b.WithStatus(status, d.now()), nil
	})
}

func (d *BookDetail) UpdateRating(rating float64) {
	d.edit(func(b domain.Book) (domain.Book, error) {
		b.Rating = &rating
		return b, nil
	})
}

// UpdateStartDate sets the start date; an unread book becomes reading.
func (d *BookDetail) UpdateStartDate(at time.Time) {
	d.edit(func(b domain.Book) (domain.Book, error) {
		b.StartedAt = &at
		if b.Status == domain.StatusUnread {
			b.Status = domain.StatusReading
		}
		return b, nil
	})
}

// UpdateFinishDate sets the finish date and marks the book finished.
func (d *BookDetail) UpdateFinishDate(at time.Time) {
	d.edit(func(b domain.Book) (domain.Book, error) {
		b.FinishedAt = &at
		b.Status = domain.StatusFinished
		return b, nil
	})
}

// edit applies change to the newest version of the book, counting edits
// not written yet, so quick edits build on each other. One write is in
// flight at a time; edits made meanwhile are written together once it
// finishes. Nothing happens before the book has loaded.
func (d *BookDetail) edit(change func(domain.Book) (domain.Book, error)) {
	d.scope.launch(func(context.Context) {
		base := d.latest
		if base == nil {
			base = d.current
		}
		if base == nil {
			return
		}
		next, err := change(*base)
		if err != nil {
			d.updateState.Set(Failed[struct{}](err))
			return
		}
		d.latest = &next
		d.queued = true
		if !d.writing {
			d.flush()
		}
	})
}

// flush writes the latest edit. Runs on the scope.
func (d *BookDetail) flush() {
	next := *d.latest
	d.queued = false
	d.writing = true
	d.scope.write(func(ctx context.Context) error {
		return d.books.Update(ctx, next)
	}, func(err error) {
		d.writing = false
		if err != nil {
			// later edits were built on the rejected one
			d.latest, d.queued = nil, false
			d.updateState.Set(Failed[struct{}](err))
			return
		}
		d.current = &next
		if d.queued {
			d.flush()
			return
		}
		d.latest = nil
		d.book.Set(Succeeded(next))
		d.updateState.Set(Succeeded(struct{}{}))
	})
}

func (d *BookDetail) Delete() {
	d.scope.launch(func(context.Context) {
		if d.current == nil {
			return
		}
		book := *d.current
		d.scope.write(func(ctx context.Context) error {
			return d.books.Delete(ctx, book)
		}, func(err error) {
			if err != nil {
				d.deleteState.Set(Failed[struct{}](err))
				return
			}
			d.deleteState.Set(Succeeded(struct{}{}))
		})
	})
}

func (d *BookDetail) Close() {
	d.scope.close()
	d.book.Close()
	d.updateState.Close()
	d.deleteState.Close()
}
