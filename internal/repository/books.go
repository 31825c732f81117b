package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/readingtracker/internal/database/books"
	"github.com/mrlokans/readingtracker/internal/domain"
	"github.com/mrlokans/readingtracker/internal/entities"
	apperrors "github.com/mrlokans/readingtracker/internal/errors"
	"github.com/mrlokans/readingtracker/internal/live"
)

// BookQuery narrows a book listing. Zero values mean no filter.
type BookQuery struct {
	Status domain.ReadingStatus
	Search string
	Limit  int
}

// Books is the book repository. Writes publish on the books topic; a
// delete publishes on every topic since child rows go with the book.
type Books struct {
	boundary
	store BookStore
}

// NewBooks creates a new book repository over store.
func NewBooks(store BookStore, hub *live.Hub, cfg Config) *Books {
	return &Books{boundary: newBoundary(hub, cfg), store: store}
}

// Save inserts a new book and returns its id. A book whose ISBN is already
// taken by another row fails with DuplicateKey and nothing is inserted.
func (r *Books) Save(ctx context.Context, book domain.Book) (uint, error) {
	var id uint
	err := r.run(ctx, "save book", func(ctx context.Context) error {
		if book.Status == "" {
			book.Status = domain.StatusUnread
		}
		if err := book.Validate(); err != nil {
			return err
		}
		if err := r.checkISBN(ctx, book); err != nil {
			return err
		}
		row := bookRow(book)
		if row.CreatedAt.IsZero() {
			row.CreatedAt = time.Now()
		}
		if err := r.store.Create(ctx, row); err != nil {
			return translate(err, "insert book", bookName(book))
		}
		id = row.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Debug().Uint("book_id", id).Str("title", book.Title).Msg("Book saved")
	r.hub.Publish(live.TopicBooks)
	return id, nil
}

func (r *Books) checkISBN(ctx context.Context, book domain.Book) error {
	isbn := domain.NormalizeISBN(book.ISBN)
	if isbn == "" {
		return nil
	}
	existing, err := r.store.GetByISBN(ctx, isbn)
	switch {
	case isNotFound(err):
		return nil
	case err != nil:
		return translate(err, "look up isbn", "book with ISBN "+isbn)
	case existing.ID != book.ID:
		return apperrors.DuplicateKeyf("book with ISBN %s already exists", isbn).
			WithDetails(map[string]any{"isbn": isbn, "existing_id": existing.ID})
	}
	return nil
}

// Update replaces the stored book with the given one. Fields are validated
// again; the ISBN uniqueness lookup is skipped but the unique index still
// applies.
func (r *Books) Update(ctx context.Context, book domain.Book) error {
	err := r.run(ctx, "update book", func(ctx context.Context) error {
		if err := book.Validate(); err != nil {
			return err
		}
		row := bookRow(book)
		row.UpdatedAt = time.Now()
		return translate(r.store.Update(ctx, row), "update book", bookName(book))
	})
	if err != nil {
		return err
	}
	r.hub.Publish(live.TopicBooks)
	return nil
}

// Delete removes the book and, by cascade, its reviews, insights and
// motivations.
func (r *Books) Delete(ctx context.Context, book domain.Book) error {
	return r.DeleteByID(ctx, book.ID)
}

// DeleteByID removes a book with its reviews, insights and motivations.
func (r *Books) DeleteByID(ctx context.Context, id uint) error {
	err := r.run(ctx, "delete book", func(ctx context.Context) error {
		return translate(r.store.Delete(ctx, id), "delete book", fmt.Sprintf("book %d", id))
	})
	if err != nil {
		return err
	}
	log.Info().Uint("book_id", id).Msg("Book deleted")
	r.hub.Publish(live.AllTopics...)
	return nil
}

// ChangeStatus moves a stored book along the transition table, stamping
// start and finish dates.
func (r *Books) ChangeStatus(ctx context.Context, id uint, status domain.ReadingStatus) (*domain.Book, error) {
	if !status.Valid() {
		return nil, apperrors.Validationf("unknown reading status %q", status)
	}
	book, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := book.Transition(status, time.Now())
	if err != nil {
		return nil, err
	}
	if err := r.Update(ctx, next); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Get returns the book with id or a NotFound error.
func (r *Books) Get(ctx context.Context, id uint) (*domain.Book, error) {
	var out *domain.Book
	err := r.run(ctx, "get book", func(ctx context.Context) error {
		row, err := r.store.GetByID(ctx, id)
		if err != nil {
			return translate(err, "get book", fmt.Sprintf("book %d", id))
		}
		b, err := toBook(*row)
		if err != nil {
			return err
		}
		out = &b
		return nil
	})
	return out, err
}

// GetByISBN looks a book up by its normalized ISBN.
func (r *Books) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	isbn = domain.NormalizeISBN(isbn)
	var out *domain.Book
	err := r.run(ctx, "get book by isbn", func(ctx context.Context) error {
		row, err := r.store.GetByISBN(ctx, isbn)
		if err != nil {
			return translate(err, "get book by isbn", "book with ISBN "+isbn)
		}
		b, err := toBook(*row)
		if err != nil {
			return err
		}
		out = &b
		return nil
	})
	return out, err
}

// ISBNExists reports whether any book carries isbn. Empty input is never
// taken.
func (r *Books) ISBNExists(ctx context.Context, isbn string) (bool, error) {
	if domain.NormalizeISBN(isbn) == "" {
		return false, nil
	}
	_, err := r.GetByISBN(ctx, isbn)
	switch {
	case err == nil:
		return true, nil
	case apperrors.Is(err, apperrors.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// List returns books matching every non-zero field of q.
func (r *Books) List(ctx context.Context, q BookQuery) ([]domain.Book, error) {
	return r.list(ctx, books.Query{Status: string(q.Status), Search: q.Search, Limit: q.Limit})
}

// Search matches q against title and author.
func (r *Books) Search(ctx context.Context, q string) ([]domain.Book, error) {
	return r.list(ctx, books.Query{Search: q})
}

// ByStatus returns the books in one reading status.
func (r *Books) ByStatus(ctx context.Context, status domain.ReadingStatus) ([]domain.Book, error) {
	return r.list(ctx, books.Query{Status: string(status)})
}

// RecentlyFinished returns up to limit finished books, latest first.
func (r *Books) RecentlyFinished(ctx context.Context, limit int) ([]domain.Book, error) {
	return r.list(ctx, books.Query{Order: books.OrderRecentlyFinished, Limit: limit})
}

// TopRated returns up to limit rated books, best first.
func (r *Books) TopRated(ctx context.Context, limit int) ([]domain.Book, error) {
	return r.list(ctx, books.Query{Order: books.OrderTopRated, Limit: limit})
}

func (r *Books) list(ctx context.Context, q books.Query) ([]domain.Book, error) {
	var out []domain.Book
	err := r.run(ctx, "list books", func(ctx context.Context) error {
		rows, err := r.store.List(ctx, q)
		if err != nil {
			return translate(err, "list books", "books")
		}
		out = mapRows(rows, toBook)
		return nil
	})
	return out, err
}

// Statistics counts books in total and per status.
func (r *Books) Statistics(ctx context.Context) (domain.BookStatistics, error) {
	var stats domain.BookStatistics
	err := r.run(ctx, "book statistics", func(ctx context.Context) error {
		counts, err := r.store.CountByStatus(ctx)
		if err != nil {
			return translate(err, "book statistics", "books")
		}
		stats.Unread = counts[string(domain.StatusUnread)]
		stats.Reading = counts[string(domain.StatusReading)]
		stats.Finished = counts[string(domain.StatusFinished)]
		for _, n := range counts {
			stats.Total += n
		}
		return nil
	})
	return stats, err
}

// Watch streams the current state of one book. A deleted book is delivered
// as a NotFound result.
func (r *Books) Watch(ctx context.Context, id uint) <-chan live.Result[*domain.Book] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) (*domain.Book, error) {
		return r.Get(ctx, id)
	}, live.TopicBooks)
}

// WatchList streams List results for q.
func (r *Books) WatchList(ctx context.Context, q BookQuery) <-chan live.Result[[]domain.Book] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) ([]domain.Book, error) {
		return r.List(ctx, q)
	}, live.TopicBooks)
}

func (r *Books) WatchStatistics(ctx context.Context) <-chan live.Result[domain.BookStatistics] {
	return live.Watch(ctx, r.hub, r.Statistics, live.TopicBooks)
}

// Exists is the parent check used by the child repositories.
func (r *Books) Exists(ctx context.Context, id uint) (bool, error) {
	return r.store.Exists(ctx, id)
}

func bookName(b domain.Book) string {
	if b.ID != 0 {
		return fmt.Sprintf("book %d", b.ID)
	}
	return fmt.Sprintf("book %q", b.Title)
}

func bookRow(b domain.Book) *entities.Book {
	row := &entities.Book{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Publisher:   b.Publisher,
		PublishedAt: b.PublishedAt,
		Description: b.Description,
		CoverURL:    b.CoverURL,
		PageCount:   b.PageCount,
		Status:      string(b.Status),
		Rating:      b.Rating,
		StartedAt:   b.StartedAt,
		FinishedAt:  b.FinishedAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if isbn := domain.NormalizeISBN(b.ISBN); isbn != "" {
		row.ISBN = &isbn
	}
	return row
}

func toBook(row entities.Book) (domain.Book, error) {
	b := domain.Book{
		ID:          row.ID,
		Title:       row.Title,
		Author:      row.Author,
		Publisher:   row.Publisher,
		PublishedAt: row.PublishedAt,
		Description: row.Description,
		CoverURL:    row.CoverURL,
		PageCount:   row.PageCount,
		Status:      domain.ReadingStatus(row.Status),
		Rating:      row.Rating,
		StartedAt:   row.StartedAt,
		FinishedAt:  row.FinishedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.ISBN != nil {
		b.ISBN = *row.ISBN
	}
	return b, checkRow(b.Validate(), fmt.Sprintf("book %d", row.ID))
}
