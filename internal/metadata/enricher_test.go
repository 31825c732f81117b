package metadata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readingtracker/internal/domain"
	apperrors "github.com/mrlokans/readingtracker/internal/errors"
)

type fakeProvider struct {
	byISBN      map[string]*Metadata
	byTitle     *Metadata
	isbnCalls   int
	titleCalls  int
	lookupError error
}

func (p *fakeProvider) LookupISBN(_ context.Context, isbn string) (*Metadata, error) {
	p.isbnCalls++
	if p.lookupError != nil {
		return nil, p.lookupError
	}
	if md, ok := p.byISBN[isbn]; ok {
		return md, nil
	}
	return nil, apperrors.NotFound("no edition")
}

func (p *fakeProvider) SearchTitle(context.Context, string, string) (*Metadata, error) {
	p.titleCalls++
	if p.byTitle == nil {
		return nil, apperrors.NotFound("no results")
	}
	return p.byTitle, nil
}

type fakeBooks struct {
	books   map[uint]domain.Book
	updates int
}

func (s *fakeBooks) Get(_ context.Context, id uint) (*domain.Book, error) {
	b, ok := s.books[id]
	if !ok {
		return nil, apperrors.NotFoundf("book %d not found", id)
	}
	return &b, nil
}

func (s *fakeBooks) Update(_ context.Context, book domain.Book) error {
	s.updates++
	s.books[book.ID] = book
	return nil
}

func (s *fakeBooks) ISBNExists(_ context.Context, isbn string) (bool, error) {
	for _, b := range s.books {
		if b.ISBN == isbn {
			return true, nil
		}
	}
	return false, nil
}

func TestEnrich_ByISBNKeepsExistingValues(t *testing.T) {
	pages := 100
	books := &fakeBooks{books: map[uint]domain.Book{
		1: {ID: 1, Title: "Effective Java", Author: "J. Bloch", ISBN: "9780134685991", PageCount: &pages, Status: domain.StatusUnread},
	}}
	provider := &fakeProvider{byISBN: map[string]*Metadata{
		"9780134685991": {Author: "Joshua Bloch", Publisher: "Addison-Wesley", PageCount: 416, PublishedYear: 2017, CoverURL: "cover"},
	}}

	result, err := NewEnricher(provider, books).Enrich(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, SearchByISBN, result.SearchMethod)
	assert.Equal(t, []string{"publisher", "cover_url", "published_at"}, result.FieldsUpdated)
	assert.Equal(t, "J. Bloch", result.Book.Author)
	assert.Equal(t, 100, *result.Book.PageCount)
	assert.Equal(t, "Addison-Wesley", result.Book.Publisher)
	require.NotNil(t, result.Book.PublishedAt)
	assert.Equal(t, 2017, result.Book.PublishedAt.Year())
	assert.Zero(t, provider.titleCalls)
}

func TestEnrich_FallsBackToTitle(t *testing.T) {
	books := &fakeBooks{books: map[uint]domain.Book{
		1: {ID: 1, Title: "Dune", ISBN: "0596520689", Status: domain.StatusUnread},
		2: {ID: 2, Title: "Emma", Status: domain.StatusUnread},
	}}
	provider := &fakeProvider{byTitle: &Metadata{Author: "Frank Herbert", ISBN: "9780134685991"}}

	result, err := NewEnricher(provider, books).Enrich(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, SearchByTitle, result.SearchMethod)
	assert.Equal(t, []string{"author"}, result.FieldsUpdated, "a book's own ISBN is kept")
	assert.Equal(t, 1, provider.isbnCalls)

	result, err = NewEnricher(provider, books).Enrich(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"author", "isbn"}, result.FieldsUpdated)
	assert.Equal(t, "9780134685991", result.Book.ISBN)
}

func TestEnrich_SkipsTakenISBN(t *testing.T) {
	books := &fakeBooks{books: map[uint]domain.Book{
		1: {ID: 1, Title: "Dune", ISBN: "0596520689", Status: domain.StatusUnread},
		2: {ID: 2, Title: "Dune", Author: "Frank Herbert", Status: domain.StatusUnread},
	}}
	provider := &fakeProvider{byTitle: &Metadata{Author: "Frank Herbert", ISBN: "0596520689"}}

	result, err := NewEnricher(provider, books).Enrich(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, result.FieldsUpdated)
	assert.Zero(t, books.updates)
}

func TestEnrich_Errors(t *testing.T) {
	books := &fakeBooks{books: map[uint]domain.Book{
		1: {ID: 1, Title: "Dune", ISBN: "0596520689", Status: domain.StatusUnread},
	}}

	_, err := NewEnricher(&fakeProvider{}, books).Enrich(context.Background(), 9)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = NewEnricher(&fakeProvider{}, books).Enrich(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "neither lookup found anything")

	upstream := &fakeProvider{lookupError: assert.AnError}
	_, err = NewEnricher(upstream, books).Enrich(context.Background(), 1)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, upstream.titleCalls)
}
