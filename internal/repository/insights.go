package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mrlokans/readingtracker/internal/domain"
	"github.com/mrlokans/readingtracker/internal/entities"
	"github.com/mrlokans/readingtracker/internal/filter"
	"github.com/mrlokans/readingtracker/internal/live"
)

// Insights is the repository for insights noted while reading.
type Insights struct {
	boundary
	store InsightStore
	books BookChecker
}

// NewInsights creates a new insight repository. books is consulted so an
// insight is never stored for a missing book.
func NewInsights(store InsightStore, books BookChecker, hub *live.Hub, cfg Config) *Insights {
	return &Insights{boundary: newBoundary(hub, cfg), store: store, books: books}
}

// Save validates and inserts an insight, defaulting its importance, and
// returns its id.
func (r *Insights) Save(ctx context.Context, insight domain.Insight) (uint, error) {
	if insight.Importance == "" {
		insight.Importance = domain.ImportanceMedium
	}
	insight.Tags = domain.NormalizeTags(insight.Tags)

	var id uint
	err := r.run(ctx, "save insight", func(ctx context.Context) error {
		if err := insight.Validate(); err != nil {
			return err
		}
		if err := requireBook(ctx, r.books, insight.BookID); err != nil {
			return err
		}
		row := insightRow(insight)
		if err := r.store.Create(ctx, row); err != nil {
			return translate(err, "insert insight", fmt.Sprintf("insight for book %d", insight.BookID))
		}
		id = row.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.hub.Publish(live.TopicInsights)
	return id, nil
}

// Update replaces a stored insight.
func (r *Insights) Update(ctx context.Context, insight domain.Insight) error {
	insight.Tags = domain.NormalizeTags(insight.Tags)
	err := r.run(ctx, "update insight", func(ctx context.Context) error {
		if err := insight.Validate(); err != nil {
			return err
		}
		row := insightRow(insight)
		row.UpdatedAt = time.Now()
		return translate(r.store.Update(ctx, row), "update insight", fmt.Sprintf("insight %d", insight.ID))
	})
	if err != nil {
		return err
	}
	r.hub.Publish(live.TopicInsights)
	return nil
}

func (r *Insights) Delete(ctx context.Context, insight domain.Insight) error {
	return r.DeleteByID(ctx, insight.ID)
}

func (r *Insights) DeleteByID(ctx context.Context, id uint) error {
	err := r.run(ctx, "delete insight", func(ctx context.Context) error {
		return translate(r.store.Delete(ctx, id), "delete insight", fmt.Sprintf("insight %d", id))
	})
	if err != nil {
		return err
	}
	r.hub.Publish(live.TopicInsights)
	return nil
}

// Get returns the insight with id or a NotFound error.
func (r *Insights) Get(ctx context.Context, id uint) (*domain.Insight, error) {
	var out *domain.Insight
	err := r.run(ctx, "get insight", func(ctx context.Context) error {
		row, err := r.store.GetByID(ctx, id)
		if err != nil {
			return translate(err, "get insight", fmt.Sprintf("insight %d", id))
		}
		in, err := toInsight(*row)
		if err != nil {
			return err
		}
		out = &in
		return nil
	})
	return out, err
}

// ForBook lists a book's insights, most important first. An empty
// importance means all of them.
func (r *Insights) ForBook(ctx context.Context, bookID uint, importance domain.Importance) ([]domain.Insight, error) {
	return r.list(ctx, "list insights", func(ctx context.Context) ([]entities.Insight, error) {
		return r.store.ListForBook(ctx, bookID, string(importance))
	})
}

// ByTag matches tag as a substring of the stored tag list.
func (r *Insights) ByTag(ctx context.Context, tag string) ([]domain.Insight, error) {
	return r.list(ctx, "insights by tag", func(ctx context.Context) ([]entities.Insight, error) {
		return r.store.ListByTag(ctx, tag)
	})
}

func (r *Insights) ByImportance(ctx context.Context, importance domain.Importance) ([]domain.Insight, error) {
	return r.list(ctx, "insights by importance", func(ctx context.Context) ([]entities.Insight, error) {
		return r.store.ListByImportance(ctx, string(importance))
	})
}

// All returns every insight across books.
func (r *Insights) All(ctx context.Context) ([]domain.Insight, error) {
	return r.list(ctx, "list insights", r.store.List)
}

func (r *Insights) list(ctx context.Context, op string, fetch func(context.Context) ([]entities.Insight, error)) ([]domain.Insight, error) {
	var out []domain.Insight
	err := r.run(ctx, op, func(ctx context.Context) error {
		rows, err := fetch(ctx)
		if err != nil {
			return translate(err, op, "insights")
		}
		out = mapRows(rows, toInsight)
		return nil
	})
	return out, err
}

// AllTags returns every distinct tag in use, sorted.
func (r *Insights) AllTags(ctx context.Context) ([]string, error) {
	var out []string
	err := r.run(ctx, "list tags", func(ctx context.Context) error {
		stored, err := r.store.DistinctTagStrings(ctx)
		if err != nil {
			return translate(err, "list tags", "tags")
		}
		out = filter.SplitStoredTags(stored)
		return nil
	})
	return out, err
}

// WatchForBook streams the full insight list of one book. Filtering is left
// to the consumer.
func (r *Insights) WatchForBook(ctx context.Context, bookID uint) <-chan live.Result[[]domain.Insight] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) ([]domain.Insight, error) {
		return r.ForBook(ctx, bookID, "")
	}, live.TopicInsights)
}

func (r *Insights) WatchTags(ctx context.Context) <-chan live.Result[[]string] {
	return live.Watch(ctx, r.hub, r.AllTags, live.TopicInsights)
}

func insightRow(in domain.Insight) *entities.Insight {
	return &entities.Insight{
		ID:         in.ID,
		BookID:     in.BookID,
		Content:    in.Content,
		Importance: string(in.Importance),
		Tags:       domain.JoinTags(in.Tags),
		Page:       in.Page,
		CreatedAt:  in.CreatedAt,
		UpdatedAt:  in.UpdatedAt,
	}
}

func toInsight(row entities.Insight) (domain.Insight, error) {
	in := domain.Insight{
		ID:         row.ID,
		BookID:     row.BookID,
		Content:    row.Content,
		Importance: domain.Importance(row.Importance),
		Tags:       domain.SplitTags(row.Tags),
		Page:       row.Page,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	return in, checkRow(in.Validate(), fmt.Sprintf("insight %d", row.ID))
}
