package screen

import (
	"context"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/readingtracker/internal/config"
	"github.com/mrlokans/readingtracker/internal/debounce"
	"github.com/mrlokans/readingtracker/internal/domain"
	"github.com/mrlokans/readingtracker/internal/live"
)

type ReviewStore interface {
	WatchForBook(ctx context.Context, bookID uint) <-chan live.Result[*domain.Review]
	Save(ctx context.Context, review domain.Review) (uint, error)
	SaveDraft(ctx context.Context, review domain.Review) (uint, error)
	Update(ctx context.Context, review domain.Review) error
	Delete(ctx context.Context, review domain.Review) error
}

type draft struct {
	content string
	rating  *float64
	// round is the editor's round when the edit was made. A save or
	// delete starts a new round, so autosaves from before it are stale.
	round int
}

// ReviewEditor edits the review of one book. Edits are autosaved as a draft
// once typing pauses; autosave failures are logged and never shown.
type ReviewEditor struct {
	scope     *scope
	reviews   ReviewStore
	bookID    uint
	softLimit int
	autosave  *debounce.Debouncer[draft]

	review         *live.Value[State[*domain.Review]]
	saveState      *live.Value[State[uint]]
	deleteState    *live.Value[State[struct{}]]
	characterCount *live.Value[int]
	overSoftLimit  *live.Value[bool]

	current *domain.Review
	pending draft
	round   int
}

func NewReviewEditor(reviews ReviewStore, bookID uint, cfg config.Tracker, opts ...debounce.Option) *ReviewEditor {
	e := &ReviewEditor{
		scope:          newScope("review_editor"),
		reviews:        reviews,
		bookID:         bookID,
		softLimit:      cfg.ReviewSoftLimit,
		review:         live.NewValue(Loading[*domain.Review]()),
		saveState:      live.NewValue(Loading[uint]()),
		deleteState:    live.NewValue(Loading[struct{}]()),
		characterCount: live.NewValue(0),
		overSoftLimit:  live.NewValue(false),
	}
	e.autosave = debounce.New(cfg.AutosaveDelay, func(d draft) {
		e.scope.launch(func(context.Context) { e.saveDraft(d) })
	}, opts...)

	collect(e.scope, reviews.WatchForBook(e.scope.ctx, bookID), e.onReview)
	return e
}

func (e *ReviewEditor) Review() Observable[State[*domain.Review]] { return e.review }
func (e *ReviewEditor) SaveState() Observable[State[uint]]        { return e.saveState }
func (e *ReviewEditor) DeleteState() Observable[State[struct{}]]  { return e.deleteState }
func (e *ReviewEditor) CharacterCount() Observable[int]           { return e.characterCount }
func (e *ReviewEditor) OverSoftLimit() Observable[bool]           { return e.overSoftLimit }

func (e *ReviewEditor) onReview(res live.Result[*domain.Review]) {
	if res.Err != nil {
		e.review.Set(Failed[*domain.Review](res.Err))
		return
	}
	e.current = res.Value
	e.review.Set(Succeeded(res.Value))
	// unsaved edits win over what storage holds
	if res.Value != nil && !e.autosave.Pending() {
		e.pending = draft{content: res.Value.Content, rating: res.Value.Rating}
		e.count(res.Value.Content)
	}
}

func (e *ReviewEditor) count(content string) {
	n := utf8.RuneCountInString(content)
	e.characterCount.Set(n)
	e.overSoftLimit.Set(e.softLimit > 0 && n > e.softLimit)
}

func (e *ReviewEditor) UpdateContent(content string) {
	e.scope.launch(func(context.Context) {
		e.pending.content = content
		e.count(content)
		e.schedule()
	})
}

func (e *ReviewEditor) UpdateRating(rating float64) {
	e.scope.launch(func(context.Context) {
		e.pending.rating = &rating
		e.schedule()
	})
}

func (e *ReviewEditor) schedule() {
	d := e.pending
	d.round = e.round
	e.autosave.Trigger(d)
}

// supersede drops the pending autosave and any autosave that already fired
// but has not run yet. Runs on the scope.
func (e *ReviewEditor) supersede() {
	e.autosave.Cancel()
	e.round++
}

// compose builds the review to write from the current one, or a new one
// when the book has none yet.
func (e *ReviewEditor) compose(d draft, isDraft bool) domain.Review {
	review := domain.Review{BookID: e.bookID}
	if e.current != nil {
		review = *e.current
	}
	review.Content = d.content
	review.Rating = d.rating
	review.IsDraft = isDraft
	return review
}

func (e *ReviewEditor) saveDraft(d draft) {
	if d.round != e.round {
		return
	}
	review := e.compose(d, true)
	var id uint
	e.scope.write(func(ctx context.Context) (err error) {
		id, err = e.reviews.SaveDraft(ctx, review)
		return err
	}, func(err error) {
		if err != nil {
			log.Warn().Err(err).Uint("book_id", e.bookID).Msg("Review autosave failed")
			return
		}
		review.ID = id
		e.current = &review
	})
}

// SaveReview drops any pending autosave and stores the review as
// published.
func (e *ReviewEditor) SaveReview() {
	e.scope.launch(func(context.Context) {
		e.supersede()
		review := e.compose(e.pending, false)
		id := review.ID
		e.scope.write(func(ctx context.Context) (err error) {
			if review.ID == 0 {
				id, err = e.reviews.Save(ctx, review)
				return err
			}
			return e.reviews.Update(ctx, review)
		}, func(err error) {
			if err != nil {
				e.saveState.Set(Failed[uint](err))
				return
			}
			review.ID = id
			e.current = &review
			e.saveState.Set(Succeeded(id))
		})
	})
}

func (e *ReviewEditor) DeleteReview() {
	e.scope.launch(func(context.Context) {
		e.supersede()
		if e.current == nil {
			return
		}
		review := *e.current
		e.scope.write(func(ctx context.Context) error {
			return e.reviews.Delete(ctx, review)
		}, func(err error) {
			if err != nil {
				e.deleteState.Set(Failed[struct{}](err))
				return
			}
			e.current = nil
			e.pending = draft{}
			e.count("")
			e.deleteState.Set(Succeeded(struct{}{}))
		})
	})
}

// Close cancels a pending autosave without running it.
func (e *ReviewEditor) Close() {
	e.autosave.Close()
	e.scope.close()
	e.review.Close()
	e.saveState.Close()
	e.deleteState.Close()
	e.characterCount.Close()
	e.overSoftLimit.Close()
}
