package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/readingtracker/internal/domain"
	"github.com/mrlokans/readingtracker/internal/tasks"
)

// ReviewsController serves reviews and their drafts. Draft purges for a
// book go through the task queue when one is configured.
type ReviewsController struct {
	reviews ReviewStore
	queue   TaskQueue
}

func NewReviewsController(reviews ReviewStore, queue TaskQueue) *ReviewsController {
	return &ReviewsController{reviews: reviews, queue: queue}
}

type ReviewRequest struct {
	Content string   `json:"content"`
	Rating  *float64 `json:"rating"`
	IsDraft bool     `json:"is_draft"`
}

// GetBookReview handles GET /api/books/:id/review. The newest review wins,
// draft or not; null when the book has none.
func (rc *ReviewsController) GetBookReview(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	review, err := rc.reviews.LatestForBook(c.Request.Context(), bookID)
	if err != nil {
		respondDomainError(c, err, "latest review")
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

// CreateReview handles POST /api/books/:id/reviews. A draft replaces the
// book's existing draft.
func (rc *ReviewsController) CreateReview(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	review := domain.Review{BookID: bookID, Content: req.Content, Rating: req.Rating, IsDraft: req.IsDraft}
	var (
		id  uint
		err error
	)
	if req.IsDraft {
		id, err = rc.reviews.SaveDraft(ctx, review)
	} else {
		id, err = rc.reviews.Save(ctx, review)
	}
	if err != nil {
		respondDomainError(c, err, "save review")
		return
	}

	saved, err := rc.reviews.Get(ctx, id)
	if err != nil {
		respondDomainError(c, err, "load saved review")
		return
	}
	respondCreated(c, saved)
}

// GetReview handles GET /api/reviews/:id
func (rc *ReviewsController) GetReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	review, err := rc.reviews.Get(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "get review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// UpdateReview handles PUT /api/reviews/:id
func (rc *ReviewsController) UpdateReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	review, err := rc.reviews.Get(ctx, id)
	if err != nil {
		respondDomainError(c, err, "get review")
		return
	}
	review.Content = req.Content
	review.Rating = req.Rating
	review.IsDraft = req.IsDraft
	if err := rc.reviews.Update(ctx, *review); err != nil {
		respondDomainError(c, err, "update review")
		return
	}

	updated, err := rc.reviews.Get(ctx, id)
	if err != nil {
		respondDomainError(c, err, "load updated review")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// PublishReview handles POST /api/reviews/:id/publish
func (rc *ReviewsController) PublishReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	review, err := rc.reviews.PublishDraft(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "publish review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// DeleteReview handles DELETE /api/reviews/:id
func (rc *ReviewsController) DeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := rc.reviews.DeleteByID(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "delete review")
		return
	}
	respondSuccess(c, "review deleted")
}

// ListDrafts handles GET /api/reviews/drafts
func (rc *ReviewsController) ListDrafts(c *gin.Context) {
	drafts, err := rc.reviews.Drafts(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, "list drafts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts, "total": len(drafts)})
}

// DeleteBookDrafts handles DELETE /api/books/:id/drafts. With a queue the
// purge is enqueued and answered with 202; otherwise it runs inline.
func (rc *ReviewsController) DeleteBookDrafts(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if rc.queue != nil {
		taskID, err := rc.queue.Enqueue(ctx, tasks.PurgeBookDraftsTask{BookID: bookID})
		if err == nil {
			respondAccepted(c, "draft purge enqueued", gin.H{"task_id": taskID, "book_id": bookID})
			return
		}
		log.Warn().Err(err).Uint("book_id", bookID).Msg("Failed to enqueue draft purge, deleting inline")
	}

	deleted, err := rc.reviews.DeleteDraftsForBook(ctx, bookID)
	if err != nil {
		respondDomainError(c, err, "delete drafts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted, "book_id": bookID})
}
