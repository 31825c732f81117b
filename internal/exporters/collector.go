package exporters

import (
	"context"

	"github.com/mrlokans/readingtracker/internal/domain"
	"github.com/mrlokans/readingtracker/internal/repository"
)

type BookReader interface {
	Get(ctx context.Context, id uint) (*domain.Book, error)
	List(ctx context.Context, q repository.BookQuery) ([]domain.Book, error)
}

type ReviewReader interface {
	LatestForBook(ctx context.Context, bookID uint) (*domain.Review, error)
}

type InsightReader interface {
	ForBook(ctx context.Context, bookID uint, importance domain.Importance) ([]domain.Insight, error)
}

type MotivationReader interface {
	LatestForBook(ctx context.Context, bookID uint) (*domain.ReadingMotivation, error)
}

// Collector gathers a BookNote from the repositories.
type Collector struct {
	books       BookReader
	reviews     ReviewReader
	insights    InsightReader
	motivations MotivationReader
}

func NewCollector(books BookReader, reviews ReviewReader, insights InsightReader, motivations MotivationReader) *Collector {
	return &Collector{books: books, reviews: reviews, insights: insights, motivations: motivations}
}

// Note collects one book. It fails with the repository's NOT_FOUND error
// when the book is missing.
func (c *Collector) Note(ctx context.Context, bookID uint) (BookNote, error) {
	book, err := c.books.Get(ctx, bookID)
	if err != nil {
		return BookNote{}, err
	}
	return c.fill(ctx, *book)
}

// Notes collects every book matching q.
func (c *Collector) Notes(ctx context.Context, q repository.BookQuery) ([]BookNote, error) {
	books, err := c.books.List(ctx, q)
	if err != nil {
		return nil, err
	}
	notes := make([]BookNote, 0, len(books))
	for _, b := range books {
		note, err := c.fill(ctx, b)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func (c *Collector) fill(ctx context.Context, book domain.Book) (BookNote, error) {
	note := BookNote{Book: book}
	var err error
	if note.Review, err = c.reviews.LatestForBook(ctx, book.ID); err != nil {
		return BookNote{}, err
	}
	if note.Insights, err = c.insights.ForBook(ctx, book.ID, ""); err != nil {
		return BookNote{}, err
	}
	if note.Motivation, err = c.motivations.LatestForBook(ctx, book.ID); err != nil {
		return BookNote{}, err
	}
	return note, nil
}
