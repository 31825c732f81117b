package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readingtracker/internal/domain"
	"github.com/mrlokans/readingtracker/internal/filter"
)

// InsightsController serves insights. Book listings accept the same tag,
// importance and free-text predicates as the insight board.
type InsightsController struct {
	insights InsightStore
}

func NewInsightsController(insights InsightStore) *InsightsController {
	return &InsightsController{insights: insights}
}

type InsightRequest struct {
	Content    string   `json:"content"`
	Importance string   `json:"importance"`
	Tags       []string `json:"tags"`
	Page       *int     `json:"page"`
}

// parseImportance reads an optional importance query or payload value.
func parseImportance(c *gin.Context, s string) (domain.Importance, bool) {
	if s == "" {
		return "", true
	}
	imp, err := domain.ParseImportance(s)
	if err != nil {
		respondBadRequest(c, err.Error())
		return "", false
	}
	return imp, true
}

// ListBookInsights handles GET /api/books/:id/insights?tag=&importance=&q=
func (ic *InsightsController) ListBookInsights(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	importance, ok := parseImportance(c, c.Query("importance"))
	if !ok {
		return
	}
	f := filter.InsightFilter{}.
		WithTag(c.Query("tag")).
		WithImportance(importance).
		WithQuery(c.Query("q"))

	all, err := ic.insights.ForBook(c.Request.Context(), bookID, "")
	if err != nil {
		respondDomainError(c, err, "list book insights")
		return
	}
	filtered := filter.Apply(all, f)
	c.JSON(http.StatusOK, gin.H{
		"insights": filtered,
		"filter":   f,
		"tags":     filter.CollectTags(all),
		"total":    len(all),
	})
}

// CreateInsight handles POST /api/books/:id/insights
func (ic *InsightsController) CreateInsight(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req InsightRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	id, err := ic.insights.Save(ctx, domain.Insight{
		BookID:     bookID,
		Content:    req.Content,
		Importance: domain.Importance(req.Importance),
		Tags:       req.Tags,
		Page:       req.Page,
	})
	if err != nil {
		respondDomainError(c, err, "create insight")
		return
	}
	saved, err := ic.insights.Get(ctx, id)
	if err != nil {
		respondDomainError(c, err, "load created insight")
		return
	}
	respondCreated(c, saved)
}

// UpdateInsight handles PUT /api/insights/:id
func (ic *InsightsController) UpdateInsight(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req InsightRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	insight, err := ic.insights.Get(ctx, id)
	if err != nil {
		respondDomainError(c, err, "get insight")
		return
	}
	insight.Content = req.Content
	insight.Tags = req.Tags
	insight.Page = req.Page
	if req.Importance != "" {
		insight.Importance = domain.Importance(req.Importance)
	}
	if err := ic.insights.Update(ctx, *insight); err != nil {
		respondDomainError(c, err, "update insight")
		return
	}

	updated, err := ic.insights.Get(ctx, id)
	if err != nil {
		respondDomainError(c, err, "load updated insight")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteInsight handles DELETE /api/insights/:id
func (ic *InsightsController) DeleteInsight(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ic.insights.DeleteByID(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "delete insight")
		return
	}
	respondSuccess(c, "insight deleted")
}

// ListTags handles GET /api/insights/tags
func (ic *InsightsController) ListTags(c *gin.Context) {
	tags, err := ic.insights.AllTags(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, "list insight tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// ListInsights handles GET /api/insights?tag=&importance= across all books.
func (ic *InsightsController) ListInsights(c *gin.Context) {
	importance, ok := parseImportance(c, c.Query("importance"))
	if !ok {
		return
	}
	tag := c.Query("tag")

	ctx := c.Request.Context()
	var (
		insights []domain.Insight
		err      error
	)
	switch {
	case tag != "":
		insights, err = ic.insights.ByTag(ctx, tag)
		insights = filter.Apply(insights, filter.InsightFilter{}.WithImportance(importance))
	case importance != "":
		insights, err = ic.insights.ByImportance(ctx, importance)
	default:
		insights, err = ic.insights.All(ctx)
	}
	if err != nil {
		respondDomainError(c, err, "list insights")
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights, "total": len(insights)})
}
