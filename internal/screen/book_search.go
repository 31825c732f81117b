package screen

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/readingtracker/internal/config"
	"github.com/mrlokans/readingtracker/internal/debounce"
	"github.com/mrlokans/readingtracker/internal/domain"
	"github.com/mrlokans/readingtracker/internal/live"
	"github.com/mrlokans/readingtracker/internal/repository"
)

// BookSource is what BookSearch needs from the books repository.
type BookSource interface {
	WatchList(ctx context.Context, q repository.BookQuery) <-chan live.Result[[]domain.Book]
	Save(ctx context.Context, book domain.Book) (uint, error)
}

// BookSearch runs a debounced live search over the catalogue. A blank query
// lists every book.
type BookSearch struct {
	scope     *scope
	books     BookSource
	debouncer *debounce.Debouncer[string]

	query     *live.Value[string]
	results   *live.Value[State[[]domain.Book]]
	saveState *live.Value[State[uint]]

	// owned by the scope goroutine
	stopWatch context.CancelFunc
}

func NewBookSearch(books BookSource, cfg config.Tracker, opts ...debounce.Option) *BookSearch {
	s := &BookSearch{
		scope:     newScope("book_search"),
		books:     books,
		query:     live.NewValue(""),
		results:   live.NewValue(Loading[[]domain.Book]()),
		saveState: live.NewValue(Loading[uint]()),
	}
	s.debouncer = debounce.New(cfg.SearchDebounce, func(q string) {
		s.scope.launch(func(ctx context.Context) { s.run(ctx, q) })
	}, opts...)
	return s
}

func (s *BookSearch) Query() Observable[string]                 { return s.query }
func (s *BookSearch) Results() Observable[State[[]domain.Book]] { return s.results }
func (s *BookSearch) SaveState() Observable[State[uint]]        { return s.saveState }

// Search schedules query to run once input pauses. A newer call replaces it.
func (s *BookSearch) Search(query string) {
	s.query.Set(query)
	s.debouncer.Trigger(query)
}

func (s *BookSearch) run(ctx context.Context, query string) {
	s.stop()
	s.results.Set(Loading[[]domain.Book]())

	watchCtx, cancel := context.WithCancel(ctx)
	s.stopWatch = cancel
	q := repository.BookQuery{Search: strings.TrimSpace(query)}
	collect(s.scope, s.books.WatchList(watchCtx, q), func(res live.Result[[]domain.Book]) {
		if watchCtx.Err() != nil {
			return
		}
		if res.Err != nil {
			log.Warn().Err(res.Err).Str("query", q.Search).Msg("Book search failed")
			s.results.Set(Failed[[]domain.Book](res.Err))
			return
		}
		s.results.Set(Succeeded(res.Value))
	})
}

func (s *BookSearch) stop() {
	if s.stopWatch != nil {
		s.stopWatch()
		s.stopWatch = nil
	}
}

// ClearResults drops the pending search and the current results.
func (s *BookSearch) ClearResults() {
	s.debouncer.Cancel()
	s.query.Set("")
	s.scope.launch(func(context.Context) {
		s.stop()
		s.results.Set(Loading[[]domain.Book]())
	})
}

func (s *BookSearch) SaveBook(book domain.Book) {
	s.saveState.Set(Loading[uint]())
	var id uint
	s.scope.write(func(ctx context.Context) (err error) {
		id, err = s.books.Save(ctx, book)
		return err
	}, func(err error) {
		if err != nil {
			s.saveState.Set(Failed[uint](err))
			return
		}
		s.saveState.Set(Succeeded(id))
	})
}

func (s *BookSearch) ClearSaveState() {
	s.saveState.Set(Loading[uint]())
}

// Close cancels a pending search without running it and ends the live
// subscription.
func (s *BookSearch) Close() {
	s.debouncer.Close()
	s.scope.close()
	s.query.Close()
	s.results.Close()
	s.saveState.Close()
}
