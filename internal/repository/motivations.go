package repository

import (
	"context"
	"fmt"

	"github.com/mrlokans/readingtracker/internal/domain"
	"github.com/mrlokans/readingtracker/internal/entities"
	"github.com/mrlokans/readingtracker/internal/live"
)

// Motivations is the repository for reading motivations.
type Motivations struct {
	boundary
	store MotivationStore
	books BookChecker
}

// NewMotivations creates a new motivation repository.
func NewMotivations(store MotivationStore, books BookChecker, hub *live.Hub, cfg Config) *Motivations {
	return &Motivations{boundary: newBoundary(hub, cfg), store: store, books: books}
}

// Save validates and inserts a motivation for an existing book.
func (r *Motivations) Save(ctx context.Context, m domain.ReadingMotivation) (uint, error) {
	var id uint
	err := r.run(ctx, "save motivation", func(ctx context.Context) error {
		if err := m.Validate(); err != nil {
			return err
		}
		if err := requireBook(ctx, r.books, m.BookID); err != nil {
			return err
		}
		row := motivationRow(m)
		if err := r.store.Create(ctx, row); err != nil {
			return translate(err, "insert motivation", fmt.Sprintf("motivation for book %d", m.BookID))
		}
		id = row.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.hub.Publish(live.TopicMotivations)
	return id, nil
}

func (r *Motivations) Update(ctx context.Context, m domain.ReadingMotivation) error {
	err := r.run(ctx, "update motivation", func(ctx context.Context) error {
		if err := m.Validate(); err != nil {
			return err
		}
		return translate(r.store.Update(ctx, motivationRow(m)), "update motivation", fmt.Sprintf("motivation %d", m.ID))
	})
	if err != nil {
		return err
	}
	r.hub.Publish(live.TopicMotivations)
	return nil
}

func (r *Motivations) Delete(ctx context.Context, m domain.ReadingMotivation) error {
	return r.DeleteByID(ctx, m.ID)
}

func (r *Motivations) DeleteByID(ctx context.Context, id uint) error {
	err := r.run(ctx, "delete motivation", func(ctx context.Context) error {
		return translate(r.store.Delete(ctx, id), "delete motivation", fmt.Sprintf("motivation %d", id))
	})
	if err != nil {
		return err
	}
	r.hub.Publish(live.TopicMotivations)
	return nil
}

// DeleteForBook removes every motivation recorded for a book.
func (r *Motivations) DeleteForBook(ctx context.Context, bookID uint) (int64, error) {
	var n int64
	err := r.run(ctx, "delete motivations", func(ctx context.Context) error {
		var err error
		n, err = r.store.DeleteForBook(ctx, bookID)
		return translate(err, "delete motivations", fmt.Sprintf("motivations for book %d", bookID))
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.hub.Publish(live.TopicMotivations)
	}
	return n, nil
}

// Get returns the motivation with id or a NotFound error.
func (r *Motivations) Get(ctx context.Context, id uint) (*domain.ReadingMotivation, error) {
	var out *domain.ReadingMotivation
	err := r.run(ctx, "get motivation", func(ctx context.Context) error {
		row, err := r.store.GetByID(ctx, id)
		if err != nil {
			return translate(err, "get motivation", fmt.Sprintf("motivation %d", id))
		}
		m, err := toMotivation(*row)
		if err != nil {
			return err
		}
		out = &m
		return nil
	})
	return out, err
}

// LatestForBook returns the most recent motivation of a book, or nil.
func (r *Motivations) LatestForBook(ctx context.Context, bookID uint) (*domain.ReadingMotivation, error) {
	var out *domain.ReadingMotivation
	err := r.run(ctx, "latest motivation", func(ctx context.Context) error {
		row, err := r.store.LatestForBook(ctx, bookID)
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return translate(err, "latest motivation", fmt.Sprintf("motivation for book %d", bookID))
		}
		m, err := toMotivation(*row)
		if err != nil {
			return err
		}
		out = &m
		return nil
	})
	return out, err
}

func (r *Motivations) All(ctx context.Context) ([]domain.ReadingMotivation, error) {
	return r.list(ctx, "list motivations", r.store.List)
}

// ByType returns the motivations of one type.
func (r *Motivations) ByType(ctx context.Context, t domain.MotivationType) ([]domain.ReadingMotivation, error) {
	return r.list(ctx, "motivations by type", func(ctx context.Context) ([]entities.ReadingMotivation, error) {
		return r.store.ListByType(ctx, string(t))
	})
}

func (r *Motivations) list(ctx context.Context, op string, fetch func(context.Context) ([]entities.ReadingMotivation, error)) ([]domain.ReadingMotivation, error) {
	var out []domain.ReadingMotivation
	err := r.run(ctx, op, func(ctx context.Context) error {
		rows, err := fetch(ctx)
		if err != nil {
			return translate(err, op, "motivations")
		}
		out = mapRows(rows, toMotivation)
		return nil
	})
	return out, err
}

// Statistics counts motivations per type, most common first.
func (r *Motivations) Statistics(ctx context.Context) ([]domain.MotivationStat, error) {
	var out []domain.MotivationStat
	err := r.run(ctx, "motivation statistics", func(ctx context.Context) error {
		rows, err := r.store.TypeStatistics(ctx)
		if err != nil {
			return translate(err, "motivation statistics", "motivations")
		}
		out = make([]domain.MotivationStat, 0, len(rows))
		for _, row := range rows {
			out = append(out, domain.MotivationStat{Type: domain.MotivationType(row.Type), Count: row.Count})
		}
		return nil
	})
	return out, err
}

// WatchForBook streams the book's latest motivation, nil while it has none.
func (r *Motivations) WatchForBook(ctx context.Context, bookID uint) <-chan live.Result[*domain.ReadingMotivation] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) (*domain.ReadingMotivation, error) {
		return r.LatestForBook(ctx, bookID)
	}, live.TopicMotivations)
}

func motivationRow(m domain.ReadingMotivation) *entities.ReadingMotivation {
	return &entities.ReadingMotivation{
		ID:        m.ID,
		BookID:    m.BookID,
		Type:      string(m.Type),
		Details:   m.Details,
		CreatedAt: m.CreatedAt,
	}
}

func toMotivation(row entities.ReadingMotivation) (domain.ReadingMotivation, error) {
	m := domain.ReadingMotivation{
		ID:        row.ID,
		BookID:    row.BookID,
		Type:      domain.MotivationType(row.Type),
		Details:   row.Details,
		CreatedAt: row.CreatedAt,
	}
	return m, checkRow(m.Validate(), fmt.Sprintf("motivation %d", row.ID))
}
