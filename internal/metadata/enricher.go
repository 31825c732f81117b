package metadata

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/readingtracker/internal/domain"
	apperrors "github.com/mrlokans/readingtracker/internal/errors"
)

// Provider looks up metadata by ISBN or by title.
type Provider interface {
	LookupISBN(ctx context.Context, isbn string) (*Metadata, error)
	SearchTitle(ctx context.Context, title, author string) (*Metadata, error)
}

// BookStore is the part of the book repository enrichment writes through.
type BookStore interface {
	Get(ctx context.Context, id uint) (*domain.Book, error)
	Update(ctx context.Context, book domain.Book) error
	ISBNExists(ctx context.Context, isbn string) (bool, error)
}

const (
	SearchByISBN  = "isbn"
	SearchByTitle = "title"
)

type Result struct {
	Book          *domain.Book `json:"book"`
	FieldsUpdated []string     `json:"fields_updated"`
	SearchMethod  string       `json:"search_method"`
}

// Enricher fills blank fields of tracked books. Values the reader entered
// are never overwritten.
type Enricher struct {
	provider Provider
	books    BookStore
}

func NewEnricher(provider Provider, books BookStore) *Enricher {
	return &Enricher{provider: provider, books: books}
}

// Enrich looks the book up by its ISBN, falling back to a title search when
// it has none or the ISBN is unknown, and saves whatever blanks it can fill.
func (e *Enricher) Enrich(ctx context.Context, bookID uint) (*Result, error) {
	book, err := e.books.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}

	var md *Metadata
	method := SearchByISBN
	if book.ISBN != "" {
		md, err = e.provider.LookupISBN(ctx, book.ISBN)
		if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}
	if md == nil {
		method = SearchByTitle
		if md, err = e.provider.SearchTitle(ctx, book.Title, book.Author); err != nil {
			return nil, err
		}
	}

	updated, fields := e.fill(ctx, *book, md)
	if len(fields) > 0 {
		if err := e.books.Update(ctx, updated); err != nil {
			return nil, err
		}
		if book, err = e.books.Get(ctx, bookID); err != nil {
			return nil, err
		}
	}

	log.Info().
		Uint("book_id", bookID).
		Str("search_method", method).
		Strs("fields", fields).
		Msg("Book metadata enriched")

	return &Result{Book: book, FieldsUpdated: fields, SearchMethod: method}, nil
}

func (e *Enricher) fill(ctx context.Context, book domain.Book, md *Metadata) (domain.Book, []string) {
	fields := []string{}
	setString := func(name string, dst *string, value string) {
		if *dst == "" && value != "" {
			*dst = value
			fields = append(fields, name)
		}
	}

	setString("author", &book.Author, md.Author)
	setString("publisher", &book.Publisher, md.Publisher)
	setString("description", &book.Description, md.Description)
	setString("cover_url", &book.CoverURL, md.CoverURL)

	if book.ISBN == "" && md.ISBN != "" {
		taken, err := e.books.ISBNExists(ctx, md.ISBN)
		switch {
		case err != nil:
			log.Warn().Err(err).Uint("book_id", book.ID).Msg("Skipping ISBN enrichment")
		case taken:
			log.Debug().Uint("book_id", book.ID).Str("isbn", md.ISBN).Msg("ISBN belongs to another book")
		default:
			book.ISBN = md.ISBN
			fields = append(fields, "isbn")
		}
	}
	if book.PageCount == nil && md.PageCount > 0 {
		pages := md.PageCount
		book.PageCount = &pages
		fields = append(fields, "page_count")
	}
	if book.PublishedAt == nil && md.PublishedYear > 0 {
		published := time.Date(md.PublishedYear, time.January, 1, 0, 0, 0, 0, time.UTC)
		book.PublishedAt = &published
		fields = append(fields, "published_at")
	}
	return book, fields
}
