package repository

import (
	"context"
	"time"

	"github.com/mrlokans/readingtracker/internal/database/books"
	"github.com/mrlokans/readingtracker/internal/entities"
)

// BookStore is the storage surface for book rows.
type BookStore interface {
	Create(ctx context.Context, book *entities.Book) error
	Update(ctx context.Context, book *entities.Book) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*entities.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*entities.Book, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, q books.Query) ([]entities.Book, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// BookChecker answers whether a parent book exists.
type BookChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// ReviewStore is the storage surface for review rows.
type ReviewStore interface {
	Create(ctx context.Context, review *entities.Review) error
	Update(ctx context.Context, review *entities.Review) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*entities.Review, error)
	LatestForBook(ctx context.Context, bookID uint) (*entities.Review, error)
	LatestPublishedForBook(ctx context.Context, bookID uint) (*entities.Review, error)
	DraftForBook(ctx context.Context, bookID uint) (*entities.Review, error)
	List(ctx context.Context) ([]entities.Review, error)
	Drafts(ctx context.Context) ([]entities.Review, error)
	DeleteDraftsForBook(ctx context.Context, bookID uint) (int64, error)
	DeleteDraftsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// InsightStore is the storage surface for insight rows.
type InsightStore interface {
	Create(ctx context.Context, insight *entities.Insight) error
	Update(ctx context.Context, insight *entities.Insight) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*entities.Insight, error)
	ListForBook(ctx context.Context, bookID uint, importance string) ([]entities.Insight, error)
	ListByTag(ctx context.Context, tag string) ([]entities.Insight, error)
	ListByImportance(ctx context.Context, importance string) ([]entities.Insight, error)
	List(ctx context.Context) ([]entities.Insight, error)
	DistinctTagStrings(ctx context.Context) ([]string, error)
}

// MotivationStore is the storage surface for reading motivation rows.
type MotivationStore interface {
	Create(ctx context.Context, m *entities.ReadingMotivation) error
	Update(ctx context.Context, m *entities.ReadingMotivation) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*entities.ReadingMotivation, error)
	LatestForBook(ctx context.Context, bookID uint) (*entities.ReadingMotivation, error)
	List(ctx context.Context) ([]entities.ReadingMotivation, error)
	ListByType(ctx context.Context, motivationType string) ([]entities.ReadingMotivation, error)
	DeleteForBook(ctx context.Context, bookID uint) (int64, error)
	TypeStatistics(ctx context.Context) ([]entities.MotivationTypeCount, error)
}
