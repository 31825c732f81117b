package screen

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/readingtracker/internal/config"
	"github.com/mrlokans/readingtracker/internal/debounce"
	"github.com/mrlokans/readingtracker/internal/domain"
	"github.com/mrlokans/readingtracker/internal/filter"
	"github.com/mrlokans/readingtracker/internal/live"
)

type InsightStore interface {
	WatchForBook(ctx context.Context, bookID uint) <-chan live.Result[[]domain.Insight]
	AllTags(ctx context.Context) ([]string, error)
	Save(ctx context.Context, insight domain.Insight) (uint, error)
	Update(ctx context.Context, insight domain.Insight) error
	Delete(ctx context.Context, insight domain.Insight) error
}

// InsightBoard shows a book's insights through a filter snapshot. The
// filtered view is recomputed whenever the base list or the filter changes.
type InsightBoard struct {
	scope    *scope
	insights InsightStore
	bookID   uint
	search   *debounce.Debouncer[string]

	filter    *live.Value[filter.InsightFilter]
	all       *live.Value[State[[]domain.Insight]]
	filtered  *live.Value[[]domain.Insight]
	tags      *live.Value[[]string]
	saveState *live.Value[State[uint]]

	base []domain.Insight
}

func NewInsightBoard(insights InsightStore, bookID uint, cfg config.Tracker, opts ...debounce.Option) *InsightBoard {
	b := &InsightBoard{
		scope:     newScope("insight_board"),
		insights:  insights,
		bookID:    bookID,
		filter:    live.NewValue(filter.InsightFilter{}),
		all:       live.NewValue(Loading[[]domain.Insight]()),
		filtered:  live.NewValue([]domain.Insight{}),
		tags:      live.NewValue([]string{}),
		saveState: live.NewValue(Loading[uint]()),
	}
	b.search = debounce.New(cfg.SearchDebounce, func(q string) {
		b.setFilter(func(f filter.InsightFilter) filter.InsightFilter { return f.WithQuery(q) })
	}, opts...)

	collect(b.scope, insights.WatchForBook(b.scope.ctx, bookID), b.onInsights)
	b.scope.launch(b.loadTags)
	return b
}

func (b *InsightBoard) Insights() Observable[State[[]domain.Insight]] { return b.all }
func (b *InsightBoard) Filtered() Observable[[]domain.Insight]        { return b.filtered }
func (b *InsightBoard) Filter() Observable[filter.InsightFilter]      { return b.filter }
func (b *InsightBoard) AvailableTags() Observable[[]string]           { return b.tags }
func (b *InsightBoard) SaveState() Observable[State[uint]]            { return b.saveState }

func (b *InsightBoard) onInsights(res live.Result[[]domain.Insight]) {
	if res.Err != nil {
		b.all.Set(Failed[[]domain.Insight](res.Err))
		return
	}
	b.base = res.Value
	b.all.Set(Succeeded(res.Value))
	b.recompute()
}

func (b *InsightBoard) recompute() {
	b.filtered.Set(filter.Apply(b.base, b.filter.Get()))
}

// loadTags seeds the tag list. Failures leave it as is.
func (b *InsightBoard) loadTags(ctx context.Context) {
	tags, err := b.insights.AllTags(ctx)
	if err != nil {
		log.Debug().Err(err).Uint("book_id", b.bookID).Msg("Could not load insight tags")
		return
	}
	b.tags.Update(func(known []string) []string { return filter.MergeTags(known, tags...) })
}

func (b *InsightBoard) setFilter(fn func(filter.InsightFilter) filter.InsightFilter) {
	b.filter.Update(fn)
	b.scope.launch(func(context.Context) { b.recompute() })
}

func (b *InsightBoard) FilterByTag(tag string) {
	b.setFilter(func(f filter.InsightFilter) filter.InsightFilter { return f.WithTag(tag) })
}

func (b *InsightBoard) FilterByImportance(imp domain.Importance) {
	b.setFilter(func(f filter.InsightFilter) filter.InsightFilter { return f.WithImportance(imp) })
}

// Search narrows the view by free text once typing pauses.
func (b *InsightBoard) Search(query string) {
	b.search.Trigger(query)
}

func (b *InsightBoard) ClearFilters() {
	b.search.Cancel()
	b.setFilter(func(f filter.InsightFilter) filter.InsightFilter { return f.Cleared() })
}

func (b *InsightBoard) AddNewTag(tag string) {
	b.tags.Update(func(known []string) []string { return filter.MergeTags(known, tag) })
}

func (b *InsightBoard) AddInsight(content string, importance domain.Importance, tags []string) {
	insight := domain.Insight{BookID: b.bookID, Content: content, Importance: importance, Tags: tags}
	var id uint
	b.scope.write(func(ctx context.Context) (err error) {
		id, err = b.insights.Save(ctx, insight)
		return err
	}, func(err error) {
		if err != nil {
			b.saveState.Set(Failed[uint](err))
			return
		}
		b.saveState.Set(Succeeded(id))
		b.tags.Update(func(known []string) []string { return filter.MergeTags(known, tags...) })
	})
}

func (b *InsightBoard) UpdateInsight(insight domain.Insight) {
	b.scope.write(func(ctx context.Context) error {
		return b.insights.Update(ctx, insight)
	}, func(err error) {
		if err != nil {
			b.saveState.Set(Failed[uint](err))
			return
		}
		b.tags.Update(func(known []string) []string { return filter.MergeTags(known, insight.Tags...) })
	})
}

func (b *InsightBoard) DeleteInsight(insight domain.Insight) {
	b.scope.write(func(ctx context.Context) error {
		return b.insights.Delete(ctx, insight)
	}, func(err error) {
		if err != nil {
			b.saveState.Set(Failed[uint](err))
		}
	})
}

func (b *InsightBoard) Close() {
	b.search.Close()
	b.scope.close()
	b.filter.Close()
	b.all.Close()
	b.filtered.Close()
	b.tags.Close()
	b.saveState.Close()
}
