package screen

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readingtracker/internal/config"
	"github.com/mrlokans/readingtracker/internal/database"
	"github.com/mrlokans/readingtracker/internal/database/books"
	"github.com/mrlokans/readingtracker/internal/database/insights"
	"github.com/mrlokans/readingtracker/internal/database/reviews"
	"github.com/mrlokans/readingtracker/internal/domain"
	apperrors "github.com/mrlokans/readingtracker/internal/errors"
	"github.com/mrlokans/readingtracker/internal/live"
	"github.com/mrlokans/readingtracker/internal/repository"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type repos struct {
	books    *repository.Books
	reviews  *repository.Reviews
	insights *repository.Insights
}

func setup(t *testing.T) *repos {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "screen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hub := live.NewHub()
	cfg := repository.Config{OperationTimeout: 5 * time.Second}
	b := repository.NewBooks(books.NewRepository(db.DB), hub, cfg)
	return &repos{
		books:    b,
		reviews:  repository.NewReviews(reviews.NewRepository(db.DB), b, hub, cfg),
		insights: repository.NewInsights(insights.NewRepository(db.DB), b, hub, cfg),
	}
}

func fastTracker() config.Tracker {
	cfg := config.DefaultTracker()
	cfg.SearchDebounce = 30 * time.Millisecond
	cfg.AutosaveDelay = 30 * time.Millisecond
	return cfg
}

func (r *repos) book(t *testing.T, title string) uint {
	t.Helper()
	id, err := r.books.Save(context.Background(), domain.Book{Title: title})
	require.NoError(t, err)
	return id
}

func titles(bs []domain.Book) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.Title)
	}
	return out
}

func TestBookSearch_DebouncesAndFollowsChanges(t *testing.T) {
	r := setup(t)
	r.book(t, "Dune")
	r.book(t, "Hyperion")

	s := NewBookSearch(r.books, fastTracker())
	defer s.Close()

	s.Search("d")
	s.Search("du")
	s.Search("dun")

	require.Eventually(t, func() bool {
		st := s.Results().Get()
		return st.IsSuccess() && assert.ObjectsAreEqual([]string{"Dune"}, titles(st.Data))
	}, waitFor, tick)
	assert.Equal(t, "dun", s.Query().Get())

	_, err := r.books.Save(context.Background(), domain.Book{Title: "Dune Messiah"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(s.Results().Get().Data) == 2
	}, waitFor, tick, "live results pick up new books")
}

func TestBookSearch_BlankQueryListsAll(t *testing.T) {
	r := setup(t)
	r.book(t, "Dune")
	r.book(t, "Hyperion")

	s := NewBookSearch(r.books, fastTracker())
	defer s.Close()

	s.Search("  ")
	require.Eventually(t, func() bool {
		return len(s.Results().Get().Data) == 2
	}, waitFor, tick)

	s.ClearResults()
	require.Eventually(t, func() bool { return s.Results().Get().IsLoading() }, waitFor, tick)
}

func TestBookSearch_SaveBook(t *testing.T) {
	r := setup(t)
	s := NewBookSearch(r.books, fastTracker())
	defer s.Close()

	s.SaveBook(domain.Book{Title: "Dune", ISBN: "9784774197632"})
	require.Eventually(t, func() bool { return s.SaveState().Get().IsSuccess() }, waitFor, tick)
	assert.NotZero(t, s.SaveState().Get().Data)

	s.SaveBook(domain.Book{Title: "Dune again", ISBN: "9784774197632"})
	require.Eventually(t, func() bool { return s.SaveState().Get().IsError() }, waitFor, tick)
	assert.True(t, errors.Is(s.SaveState().Get().Err, apperrors.ErrDuplicateKey))
}

type countingSource struct {
	BookSource
	watches atomic.Int32
}

func (c *countingSource) WatchList(ctx context.Context, q repository.BookQuery) <-chan live.Result[[]domain.Book] {
	c.watches.Add(1)
	return c.BookSource.WatchList(ctx, q)
}

func TestBookSearch_CloseCancelsPendingSearch(t *testing.T) {
	r := setup(t)
	src := &countingSource{BookSource: r.books}
	cfg := fastTracker()
	cfg.SearchDebounce = 50 * time.Millisecond
	s := NewBookSearch(src, cfg)

	s.Search("dune")
	s.Close()

	time.Sleep(120 * time.Millisecond)
	assert.Zero(t, src.watches.Load())
}

func TestBookDetail_UpdatesAndDeletes(t *testing.T) {
	r := setup(t)
	id := r.book(t, "Dune")

	d := NewBookDetail(r.books, id, fastTracker())
	defer d.Close()
	require.Eventually(t, func() bool { return d.Book().Get().IsSuccess() }, waitFor, tick)

	d.UpdateReadingStatus(domain.StatusReading)
	require.Eventually(t, func() bool {
		b := d.Book().Get().Data
		return b.Status == domain.StatusReading && b.StartedAt != nil
	}, waitFor, tick)

	d.UpdateRating(4.5)
	require.Eventually(t, func() bool {
		rt := d.Book().Get().Data.Rating
		return rt != nil && *rt == 4.5
	}, waitFor, tick)

	d.UpdateRating(7)
	require.Eventually(t, func() bool { return d.UpdateState().Get().IsError() }, waitFor, tick)
	assert.True(t, errors.Is(d.UpdateState().Get().Err, apperrors.ErrValidation))

	d.Delete()
	require.Eventually(t, func() bool { return d.DeleteState().Get().IsSuccess() }, waitFor, tick)
	require.Eventually(t, func() bool {
		st := d.Book().Get()
		return st.IsError() && errors.Is(st.Err, apperrors.ErrNotFound)
	}, waitFor, tick)
}

func TestBookDetail_StatusTransitionEnforcement(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	finished := func(title string) uint {
		id := r.book(t, title)
		_, err := r.books.ChangeStatus(ctx, id, domain.StatusReading)
		require.NoError(t, err)
		_, err = r.books.ChangeStatus(ctx, id, domain.StatusFinished)
		require.NoError(t, err)
		return id
	}

	permissiveID := finished("Permissive")

	permissive := NewBookDetail(r.books, permissiveID, fastTracker())
	defer permissive.Close()
	require.Eventually(t, func() bool { return permissive.Book().Get().IsSuccess() }, waitFor, tick)

	permissive.UpdateReadingStatus(domain.StatusReading)
	require.Eventually(t, func() bool {
		return permissive.Book().Get().Data.Status == domain.StatusReading
	}, waitFor, tick, "off-table move allowed when not enforced")

	strictID := finished("Strict")

	cfg := fastTracker()
	cfg.EnforceStatusTransitions = true
	strict := NewBookDetail(r.books, strictID, cfg)
	defer strict.Close()
	require.Eventually(t, func() bool { return strict.Book().Get().IsSuccess() }, waitFor, tick)

	strict.UpdateReadingStatus(domain.StatusReading)
	require.Eventually(t, func() bool { return strict.UpdateState().Get().IsError() }, waitFor, tick)
	assert.Equal(t, domain.StatusFinished, strict.Book().Get().Data.Status)
}

func TestBookDetail_DateUpdatesMoveStatus(t *testing.T) {
	r := setup(t)
	id := r.book(t, "Dune")
	d := NewBookDetail(r.books, id, fastTracker())
	defer d.Close()
	require.Eventually(t, func() bool { return d.Book().Get().IsSuccess() }, waitFor, tick)

	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	d.UpdateStartDate(start)
	require.Eventually(t, func() bool {
		return d.Book().Get().Data.Status == domain.StatusReading
	}, waitFor, tick)

	d.UpdateFinishDate(start.Add(72 * time.Hour))
	require.Eventually(t, func() bool {
		b := d.Book().Get().Data
		return b.Status == domain.StatusFinished && b.FinishedAt != nil
	}, waitFor, tick)

	d.UpdateFinishDate(start.Add(-time.Hour))
	require.Eventually(t, func() bool { return d.UpdateState().Get().IsError() }, waitFor, tick, "finish before start")
}

type slowBooks struct {
	*repository.Books
	updates atomic.Int32
}

func (s *slowBooks) Update(ctx context.Context, book domain.Book) error {
	s.updates.Add(1)
	time.Sleep(20 * time.Millisecond)
	return s.Books.Update(ctx, book)
}

func TestBookDetail_QuickEditsBuildOnEachOther(t *testing.T) {
	r := setup(t)
	id := r.book(t, "Dune")
	store := &slowBooks{Books: r.books}
	d := NewBookDetail(store, id, fastTracker())
	defer d.Close()
	require.Eventually(t, func() bool { return d.Book().Get().IsSuccess() }, waitFor, tick)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	d.UpdateRating(4)
	d.UpdateStartDate(start)
	d.UpdateRating(4.5)

	require.Eventually(t, func() bool { return d.UpdateState().Get().IsSuccess() }, waitFor, tick)
	stored, err := r.books.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, stored.Rating)
	assert.Equal(t, 4.5, *stored.Rating)
	require.NotNil(t, stored.StartedAt, "the start date must survive the later rating edit")
	assert.True(t, start.Equal(*stored.StartedAt))
	assert.Equal(t, domain.StatusReading, stored.Status)
	assert.LessOrEqual(t, store.updates.Load(), int32(3))
}

func TestInsightBoard_FilterComposition(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	bookID := r.book(t, "Dune")
	for _, in := range []domain.Insight{
		{BookID: bookID, Content: "Fear is the mind-killer", Importance: domain.ImportanceHigh, Tags: []string{"fear"}},
		{BookID: bookID, Content: "The spice must flow", Importance: domain.ImportanceLow, Tags: []string{"economy", "fear"}},
		{BookID: bookID, Content: "Water discipline", Importance: domain.ImportanceHigh, Tags: []string{"ecology"}},
	} {
		_, err := r.insights.Save(ctx, in)
		require.NoError(t, err)
	}

	b := NewInsightBoard(r.insights, bookID, fastTracker())
	defer b.Close()
	require.Eventually(t, func() bool { return len(b.Filtered().Get()) == 3 }, waitFor, tick)
	full := b.Filtered().Get()

	b.FilterByTag("fear")
	require.Eventually(t, func() bool { return len(b.Filtered().Get()) == 2 }, waitFor, tick)
	once := b.Filtered().Get()

	b.FilterByTag("fear")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, once, b.Filtered().Get(), "same tag twice is a no-op")

	b.FilterByImportance(domain.ImportanceHigh)
	require.Eventually(t, func() bool { return len(b.Filtered().Get()) == 1 }, waitFor, tick)

	b.ClearFilters()
	require.Eventually(t, func() bool { return len(b.Filtered().Get()) == 3 }, waitFor, tick)
	assert.Equal(t, full, b.Filtered().Get())

	b.Search("SPICE")
	require.Eventually(t, func() bool {
		f := b.Filtered().Get()
		return len(f) == 1 && strings.Contains(f[0].Content, "spice")
	}, waitFor, tick)
}

func TestInsightBoard_AddInsightUpdatesLists(t *testing.T) {
	r := setup(t)
	bookID := r.book(t, "Dune")

	b := NewInsightBoard(r.insights, bookID, fastTracker())
	defer b.Close()
	require.Eventually(t, func() bool { return b.Insights().Get().IsSuccess() }, waitFor, tick)

	b.AddInsight("Fear is the mind-killer", domain.ImportanceHigh, []string{"fear", "litany"})
	require.Eventually(t, func() bool { return b.SaveState().Get().IsSuccess() }, waitFor, tick)
	require.Eventually(t, func() bool { return len(b.Filtered().Get()) == 1 }, waitFor, tick)
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"fear", "litany"}, b.AvailableTags().Get())
	}, waitFor, tick)

	b.AddNewTag("ecology")
	assert.Contains(t, b.AvailableTags().Get(), "ecology")

	b.AddInsight("   ", domain.ImportanceHigh, nil)
	require.Eventually(t, func() bool { return b.SaveState().Get().IsError() }, waitFor, tick)
}

func TestReviewEditor_AutosaveCoalesces(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	bookID := r.book(t, "Dune")

	e := NewReviewEditor(r.reviews, bookID, fastTracker())
	defer e.Close()
	require.Eventually(t, func() bool { return e.Review().Get().IsSuccess() }, waitFor, tick)

	e.UpdateContent("G")
	e.UpdateContent("Gr")
	e.UpdateContent("Great")
	e.UpdateRating(4)

	require.Eventually(t, func() bool {
		rv := e.Review().Get().Data
		return rv != nil && rv.Content == "Great" && rv.IsDraft
	}, waitFor, tick)
	assert.Equal(t, 5, e.CharacterCount().Get())

	drafts, err := r.reviews.Drafts(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 1, "one draft row despite several edits")
	require.NotNil(t, drafts[0].Rating)
	assert.Equal(t, 4.0, *drafts[0].Rating)

	e.SaveReview()
	require.Eventually(t, func() bool { return e.SaveState().Get().IsSuccess() }, waitFor, tick)
	assert.Equal(t, drafts[0].ID, e.SaveState().Get().Data)

	published, err := r.reviews.PublishedForBook(ctx, bookID)
	require.NoError(t, err)
	require.NotNil(t, published)
	assert.Equal(t, "Great", published.Content)
}

func TestReviewEditor_SoftLimit(t *testing.T) {
	r := setup(t)
	cfg := fastTracker()
	cfg.ReviewSoftLimit = 5
	e := NewReviewEditor(r.reviews, r.book(t, "Dune"), cfg)
	defer e.Close()

	e.UpdateContent("héllo")
	require.Eventually(t, func() bool { return e.CharacterCount().Get() == 5 }, waitFor, tick)
	assert.False(t, e.OverSoftLimit().Get())

	e.UpdateContent("héllo!")
	require.Eventually(t, func() bool { return e.OverSoftLimit().Get() }, waitFor, tick)
}

func TestReviewEditor_AutosaveFailureIsSwallowed(t *testing.T) {
	r := setup(t)
	bookID := r.book(t, "Dune")
	e := NewReviewEditor(r.reviews, bookID, fastTracker())
	defer e.Close()

	e.UpdateContent(strings.Repeat("x", domain.MaxReviewLength+1))
	time.Sleep(100 * time.Millisecond)

	assert.True(t, e.SaveState().Get().IsLoading(), "autosave errors never reach the save state")
	assert.Nil(t, e.Review().Get().Data)
}

func TestReviewEditor_CloseDropsPendingAutosave(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	bookID := r.book(t, "Dune")
	cfg := fastTracker()
	cfg.AutosaveDelay = 50 * time.Millisecond
	e := NewReviewEditor(r.reviews, bookID, cfg)

	e.UpdateContent("never saved")
	time.Sleep(10 * time.Millisecond)
	e.Close()
	time.Sleep(120 * time.Millisecond)

	drafts, err := r.reviews.Drafts(ctx)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestReviewEditor_DeleteReview(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	bookID := r.book(t, "Dune")
	_, err := r.reviews.Save(ctx, domain.Review{BookID: bookID, Content: "Loved it"})
	require.NoError(t, err)

	e := NewReviewEditor(r.reviews, bookID, fastTracker())
	defer e.Close()
	require.Eventually(t, func() bool { return e.CharacterCount().Get() == 8 }, waitFor, tick)

	e.DeleteReview()
	require.Eventually(t, func() bool { return e.DeleteState().Get().IsSuccess() }, waitFor, tick)
	assert.Equal(t, 0, e.CharacterCount().Get())
	require.Eventually(t, func() bool {
		st := e.Review().Get()
		return st.IsSuccess() && st.Data == nil
	}, waitFor, tick)
}

func TestReviewEditor_SaveRightAfterEditStaysPublished(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	bookID := r.book(t, "Dune")
	e := NewReviewEditor(r.reviews, bookID, fastTracker())
	defer e.Close()
	require.Eventually(t, func() bool { return e.Review().Get().IsSuccess() }, waitFor, tick)

	e.UpdateContent("Final text")
	e.SaveReview()
	require.Eventually(t, func() bool { return e.SaveState().Get().IsSuccess() }, waitFor, tick)
	time.Sleep(150 * time.Millisecond)

	published, err := r.reviews.PublishedForBook(ctx, bookID)
	require.NoError(t, err)
	require.NotNil(t, published)
	assert.Equal(t, "Final text", published.Content)
	assert.False(t, published.IsDraft)

	drafts, err := r.reviews.Drafts(ctx)
	require.NoError(t, err)
	assert.Empty(t, drafts, "the edit before saving must not autosave afterwards")
}

func TestReviewEditor_DeleteRightAfterEditLeavesNothing(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	bookID := r.book(t, "Dune")
	_, err := r.reviews.Save(ctx, domain.Review{BookID: bookID, Content: "Loved it"})
	require.NoError(t, err)

	e := NewReviewEditor(r.reviews, bookID, fastTracker())
	defer e.Close()
	require.Eventually(t, func() bool { return e.CharacterCount().Get() == 8 }, waitFor, tick)

	e.UpdateContent("typo")
	e.DeleteReview()
	require.Eventually(t, func() bool { return e.DeleteState().Get().IsSuccess() }, waitFor, tick)
	time.Sleep(150 * time.Millisecond)

	all, err := r.reviews.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "a deleted review must not come back as a draft")
}

func TestScope_DropsResultsAfterClose(t *testing.T) {
	s := newScope("test")
	release := make(chan struct{})
	var wrote, reported atomic.Bool

	s.write(func(context.Context) error {
		<-release
		wrote.Store(true)
		return nil
	}, func(error) { reported.Store(true) })

	s.close()
	close(release)

	require.Eventually(t, wrote.Load, waitFor, tick, "dispatched write still completes")
	time.Sleep(20 * time.Millisecond)
	assert.False(t, reported.Load())
}
