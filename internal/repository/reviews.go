package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/readingtracker/internal/domain"
	"github.com/mrlokans/readingtracker/internal/entities"
	"github.com/mrlokans/readingtracker/internal/live"
)

// Reviews is the review repository. A book has at most one draft, which
// autosave overwrites in place.
type Reviews struct {
	boundary
	store ReviewStore
	books BookChecker
}

// NewReviews creates a new review repository.
func NewReviews(store ReviewStore, books BookChecker, hub *live.Hub, cfg Config) *Reviews {
	return &Reviews{boundary: newBoundary(hub, cfg), store: store, books: books}
}

// Save inserts a review for an existing book and returns its id.
func (r *Reviews) Save(ctx context.Context, review domain.Review) (uint, error) {
	var id uint
	err := r.run(ctx, "save review", func(ctx context.Context) error {
		if err := review.Validate(); err != nil {
			return err
		}
		if err := requireBook(ctx, r.books, review.BookID); err != nil {
			return err
		}
		row := reviewRow(review)
		if err := r.store.Create(ctx, row); err != nil {
			return translate(err, "insert review", fmt.Sprintf("review for book %d", review.BookID))
		}
		id = row.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.hub.Publish(live.TopicReviews)
	return id, nil
}

// Update replaces a stored review after validating it.
func (r *Reviews) Update(ctx context.Context, review domain.Review) error {
	err := r.run(ctx, "update review", func(ctx context.Context) error {
		if err := review.Validate(); err != nil {
			return err
		}
		row := reviewRow(review)
		row.UpdatedAt = time.Now()
		return translate(r.store.Update(ctx, row), "update review", fmt.Sprintf("review %d", review.ID))
	})
	if err != nil {
		return err
	}
	r.hub.Publish(live.TopicReviews)
	return nil
}

func (r *Reviews) Delete(ctx context.Context, review domain.Review) error {
	return r.DeleteByID(ctx, review.ID)
}

func (r *Reviews) DeleteByID(ctx context.Context, id uint) error {
	err := r.run(ctx, "delete review", func(ctx context.Context) error {
		return translate(r.store.Delete(ctx, id), "delete review", fmt.Sprintf("review %d", id))
	})
	if err != nil {
		return err
	}
	r.hub.Publish(live.TopicReviews)
	return nil
}

// SaveDraft stores review as the book's draft. An existing draft for the
// same book is overwritten in place; otherwise a new one is created. It
// returns the draft's id.
func (r *Reviews) SaveDraft(ctx context.Context, review domain.Review) (uint, error) {
	review.IsDraft = true
	if review.ID == 0 {
		current, err := r.DraftForBook(ctx, review.BookID)
		if err != nil {
			return 0, err
		}
		if current == nil {
			return r.Save(ctx, review)
		}
		review.ID = current.ID
		review.CreatedAt = current.CreatedAt
	}
	if err := r.Update(ctx, review); err != nil {
		return 0, err
	}
	return review.ID, nil
}

// PublishDraft clears the draft flag. The review must still exist and its
// content must pass the published-review rules.
func (r *Reviews) PublishDraft(ctx context.Context, id uint) (*domain.Review, error) {
	review, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	review.IsDraft = false
	if err := r.Update(ctx, *review); err != nil {
		return nil, err
	}
	log.Info().Uint("review_id", id).Uint("book_id", review.BookID).Msg("Review published")
	return r.Get(ctx, id)
}

// Get returns the review with id or a NotFound error.
func (r *Reviews) Get(ctx context.Context, id uint) (*domain.Review, error) {
	return r.one(ctx, "get review", fmt.Sprintf("review %d", id), func(ctx context.Context) (*entities.Review, error) {
		return r.store.GetByID(ctx, id)
	}, false)
}

// LatestForBook returns the book's most recent review, draft or not, or nil
// when it has none.
func (r *Reviews) LatestForBook(ctx context.Context, bookID uint) (*domain.Review, error) {
	return r.one(ctx, "latest review", fmt.Sprintf("review for book %d", bookID), func(ctx context.Context) (*entities.Review, error) {
		return r.store.LatestForBook(ctx, bookID)
	}, true)
}

// PublishedForBook returns the book's latest published review or nil.
func (r *Reviews) PublishedForBook(ctx context.Context, bookID uint) (*domain.Review, error) {
	return r.one(ctx, "published review", fmt.Sprintf("published review for book %d", bookID), func(ctx context.Context) (*entities.Review, error) {
		return r.store.LatestPublishedForBook(ctx, bookID)
	}, true)
}

// DraftForBook returns the book's current draft or nil.
func (r *Reviews) DraftForBook(ctx context.Context, bookID uint) (*domain.Review, error) {
	return r.one(ctx, "draft review", fmt.Sprintf("draft for book %d", bookID), func(ctx context.Context) (*entities.Review, error) {
		return r.store.DraftForBook(ctx, bookID)
	}, true)
}

// one fetches a single row. With optional set a missing row is (nil, nil).
func (r *Reviews) one(ctx context.Context, op, what string, fetch func(context.Context) (*entities.Review, error), optional bool) (*domain.Review, error) {
	var out *domain.Review
	err := r.run(ctx, op, func(ctx context.Context) error {
		row, err := fetch(ctx)
		if optional && isNotFound(err) {
			return nil
		}
		if err != nil {
			return translate(err, op, what)
		}
		rv, err := toReview(*row)
		if err != nil {
			return err
		}
		out = &rv
		return nil
	})
	return out, err
}

func (r *Reviews) All(ctx context.Context) ([]domain.Review, error) {
	return r.list(ctx, "list reviews", r.store.List)
}

// Drafts returns every unpublished review.
func (r *Reviews) Drafts(ctx context.Context) ([]domain.Review, error) {
	return r.list(ctx, "list drafts", r.store.Drafts)
}

func (r *Reviews) list(ctx context.Context, op string, fetch func(context.Context) ([]entities.Review, error)) ([]domain.Review, error) {
	var out []domain.Review
	err := r.run(ctx, op, func(ctx context.Context) error {
		rows, err := fetch(ctx)
		if err != nil {
			return translate(err, op, "reviews")
		}
		out = mapRows(rows, toReview)
		return nil
	})
	return out, err
}

// DeleteDraftsForBook removes the book's drafts and returns how many went.
func (r *Reviews) DeleteDraftsForBook(ctx context.Context, bookID uint) (int64, error) {
	var n int64
	err := r.run(ctx, "delete drafts", func(ctx context.Context) error {
		var err error
		n, err = r.store.DeleteDraftsForBook(ctx, bookID)
		return translate(err, "delete drafts", fmt.Sprintf("drafts for book %d", bookID))
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.hub.Publish(live.TopicReviews)
	}
	return n, nil
}

// PurgeStaleDrafts deletes drafts not edited within retention.
func (r *Reviews) PurgeStaleDrafts(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	var n int64
	err := r.run(ctx, "purge drafts", func(ctx context.Context) error {
		var err error
		n, err = r.store.DeleteDraftsOlderThan(ctx, cutoff)
		return translate(err, "purge drafts", "drafts")
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("Purged stale review drafts")
		r.hub.Publish(live.TopicReviews)
	}
	return n, nil
}

// WatchForBook streams the book's latest review, nil while it has none.
func (r *Reviews) WatchForBook(ctx context.Context, bookID uint) <-chan live.Result[*domain.Review] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) (*domain.Review, error) {
		return r.LatestForBook(ctx, bookID)
	}, live.TopicReviews)
}

// WatchDrafts streams Drafts.
func (r *Reviews) WatchDrafts(ctx context.Context) <-chan live.Result[[]domain.Review] {
	return live.Watch(ctx, r.hub, r.Drafts, live.TopicReviews)
}

func reviewRow(rv domain.Review) *entities.Review {
	return &entities.Review{
		ID:        rv.ID,
		BookID:    rv.BookID,
		Content:   rv.Content,
		Rating:    rv.Rating,
		IsDraft:   rv.IsDraft,
		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
	}
}

func toReview(row entities.Review) (domain.Review, error) {
	rv := domain.Review{
		ID:        row.ID,
		BookID:    row.BookID,
		Content:   row.Content,
		Rating:    row.Rating,
		IsDraft:   row.IsDraft,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	return rv, checkRow(rv.Validate(), fmt.Sprintf("review %d", row.ID))
}
