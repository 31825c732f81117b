package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Controllers whose repository is missing from cfg are not mounted.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Scheduler, cfg.Version)
	if queue, ok := cfg.TaskQueue.(Pinger); ok {
		health.WithTaskQueue(queue)
	}

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	if cfg.Books != nil {
		books := NewBooksController(cfg.Books, cfg.EnforceStatusTransitions)
		api.GET("/books", books.ListBooks)
		api.POST("/books", books.CreateBook)
		api.GET("/books/stats", books.GetStatistics)
		api.GET("/books/recent", books.RecentlyFinished)
		api.GET("/books/top-rated", books.TopRated)
		api.GET("/books/isbn/:isbn", books.GetBookByISBN)
		api.GET("/books/:id", books.GetBook)
		api.PUT("/books/:id", books.UpdateBook)
		api.DELETE("/books/:id", books.DeleteBook)
		api.POST("/books/:id/status", books.ChangeStatus)
	}

	if cfg.Reviews != nil {
		reviews := NewReviewsController(cfg.Reviews, cfg.TaskQueue)
		api.GET("/books/:id/review", reviews.GetBookReview)
		api.POST("/books/:id/reviews", reviews.CreateReview)
		api.DELETE("/books/:id/drafts", reviews.DeleteBookDrafts)
		api.GET("/reviews/drafts", reviews.ListDrafts)
		api.GET("/reviews/:id", reviews.GetReview)
		api.PUT("/reviews/:id", reviews.UpdateReview)
		api.DELETE("/reviews/:id", reviews.DeleteReview)
		api.POST("/reviews/:id/publish", reviews.PublishReview)
	}

	if cfg.Insights != nil {
		insights := NewInsightsController(cfg.Insights)
		api.GET("/books/:id/insights", insights.ListBookInsights)
		api.POST("/books/:id/insights", insights.CreateInsight)
		api.GET("/insights", insights.ListInsights)
		api.GET("/insights/tags", insights.ListTags)
		api.PUT("/insights/:id", insights.UpdateInsight)
		api.DELETE("/insights/:id", insights.DeleteInsight)
	}

	if cfg.Motivations != nil {
		motivations := NewMotivationsController(cfg.Motivations)
		api.GET("/books/:id/motivation", motivations.GetBookMotivation)
		api.POST("/books/:id/motivations", motivations.CreateMotivation)
		api.GET("/motivations", motivations.ListMotivations)
		api.GET("/motivations/stats", motivations.GetStatistics)
		api.PUT("/motivations/:id", motivations.UpdateMotivation)
		api.DELETE("/motivations/:id", motivations.DeleteMotivation)
	}

	if cfg.Metadata != nil && cfg.Enricher != nil {
		lookup := NewMetadataController(cfg.Metadata, cfg.Enricher)
		api.GET("/books/lookup/:isbn", lookup.LookupISBN)
		api.POST("/books/:id/enrich", lookup.EnrichBook)
	}

	if cfg.Notes != nil {
		export := NewExportController(cfg.Notes)
		api.GET("/books/:id/markdown", export.DownloadMarkdown)
	}

	// Task management endpoints
	tasksController := NewTasksController(cfg.TaskQueue, cfg.DraftPurger, cfg.DraftRetention)
	api.GET("/tasks/types", tasksController.ListTaskTypes)
	api.GET("/tasks/:id", tasksController.GetTaskStatus)
	api.POST("/tasks/purge-drafts", tasksController.PurgeDrafts)

	return router
}
