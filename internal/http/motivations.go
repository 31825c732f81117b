package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readingtracker/internal/domain"
)

// MotivationsController records why a book was picked up.
type MotivationsController struct {
	motivations MotivationStore
}

func NewMotivationsController(motivations MotivationStore) *MotivationsController {
	return &MotivationsController{motivations: motivations}
}

type MotivationRequest struct {
	Type    string `json:"type"`
	Details string `json:"details"`
}

// GetBookMotivation handles GET /api/books/:id/motivation
func (mc *MotivationsController) GetBookMotivation(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	m, err := mc.motivations.LatestForBook(c.Request.Context(), bookID)
	if err != nil {
		respondDomainError(c, err, "latest motivation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"motivation": m})
}

// CreateMotivation handles POST /api/books/:id/motivations
func (mc *MotivationsController) CreateMotivation(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req MotivationRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	id, err := mc.motivations.Save(ctx, domain.ReadingMotivation{
		BookID:  bookID,
		Type:    domain.MotivationType(req.Type),
		Details: req.Details,
	})
	if err != nil {
		respondDomainError(c, err, "create motivation")
		return
	}
	saved, err := mc.motivations.Get(ctx, id)
	if err != nil {
		respondDomainError(c, err, "load created motivation")
		return
	}
	respondCreated(c, saved)
}

// UpdateMotivation handles PUT /api/motivations/:id
func (mc *MotivationsController) UpdateMotivation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req MotivationRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	m, err := mc.motivations.Get(ctx, id)
	if err != nil {
		respondDomainError(c, err, "get motivation")
		return
	}
	m.Type = domain.MotivationType(req.Type)
	m.Details = req.Details
	if err := mc.motivations.Update(ctx, *m); err != nil {
		respondDomainError(c, err, "update motivation")
		return
	}
	c.JSON(http.StatusOK, m)
}

// DeleteMotivation handles DELETE /api/motivations/:id
func (mc *MotivationsController) DeleteMotivation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := mc.motivations.DeleteByID(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "delete motivation")
		return
	}
	respondSuccess(c, "motivation deleted")
}

// GetStatistics handles GET /api/motivations/stats
func (mc *MotivationsController) GetStatistics(c *gin.Context) {
	stats, err := mc.motivations.Statistics(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, "motivation statistics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// ListMotivations handles GET /api/motivations?type=
func (mc *MotivationsController) ListMotivations(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		list []domain.ReadingMotivation
		err  error
	)
	if s := c.Query("type"); s != "" {
		t, perr := domain.ParseMotivationType(s)
		if perr != nil {
			respondBadRequest(c, perr.Error())
			return
		}
		list, err = mc.motivations.ByType(ctx, t)
	} else {
		list, err = mc.motivations.All(ctx)
	}
	if err != nil {
		respondDomainError(c, err, "list motivations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"motivations": list, "total": len(list)})
}
