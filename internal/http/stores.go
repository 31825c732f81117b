package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/readingtracker/internal/domain"
	"github.com/mrlokans/readingtracker/internal/repository"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Each controller depends only on the methods it calls; the repository
// types satisfy them (see internal/interfaces).

// BookStore is the book repository surface used by BooksController.
type BookStore interface {
	Save(ctx context.Context, book domain.Book) (uint, error)
	Update(ctx context.Context, book domain.Book) error
	DeleteByID(ctx context.Context, id uint) error
	ChangeStatus(ctx context.Context, id uint, status domain.ReadingStatus) (*domain.Book, error)
	Get(ctx context.Context, id uint) (*domain.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*domain.Book, error)
	List(ctx context.Context, q repository.BookQuery) ([]domain.Book, error)
	RecentlyFinished(ctx context.Context, limit int) ([]domain.Book, error)
	TopRated(ctx context.Context, limit int) ([]domain.Book, error)
	Statistics(ctx context.Context) (domain.BookStatistics, error)
}

// ReviewStore is the review repository surface used by ReviewsController.
type ReviewStore interface {
	Save(ctx context.Context, review domain.Review) (uint, error)
	SaveDraft(ctx context.Context, review domain.Review) (uint, error)
	Update(ctx context.Context, review domain.Review) error
	DeleteByID(ctx context.Context, id uint) error
	PublishDraft(ctx context.Context, id uint) (*domain.Review, error)
	Get(ctx context.Context, id uint) (*domain.Review, error)
	LatestForBook(ctx context.Context, bookID uint) (*domain.Review, error)
	Drafts(ctx context.Context) ([]domain.Review, error)
	DeleteDraftsForBook(ctx context.Context, bookID uint) (int64, error)
}

// InsightStore is the insight repository surface used by InsightsController.
type InsightStore interface {
	Save(ctx context.Context, insight domain.Insight) (uint, error)
	Update(ctx context.Context, insight domain.Insight) error
	DeleteByID(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*domain.Insight, error)
	ForBook(ctx context.Context, bookID uint, importance domain.Importance) ([]domain.Insight, error)
	ByTag(ctx context.Context, tag string) ([]domain.Insight, error)
	ByImportance(ctx context.Context, importance domain.Importance) ([]domain.Insight, error)
	All(ctx context.Context) ([]domain.Insight, error)
	AllTags(ctx context.Context) ([]string, error)
}

// MotivationStore is the motivation repository surface used by
// MotivationsController.
type MotivationStore interface {
	Save(ctx context.Context, m domain.ReadingMotivation) (uint, error)
	Update(ctx context.Context, m domain.ReadingMotivation) error
	DeleteByID(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*domain.ReadingMotivation, error)
	LatestForBook(ctx context.Context, bookID uint) (*domain.ReadingMotivation, error)
	All(ctx context.Context) ([]domain.ReadingMotivation, error)
	ByType(ctx context.Context, t domain.MotivationType) ([]domain.ReadingMotivation, error)
	Statistics(ctx context.Context) ([]domain.MotivationStat, error)
}

// --- Background work ---

// TaskQueue enqueues tasks and reports their status. *tasks.Client
// satisfies it.
type TaskQueue interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// Pinger checks storage connectivity. *database.Database satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}
