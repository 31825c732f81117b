package entrypoint

import (
	"fmt"

	"github.com/mrlokans/readingtracker/internal/config"
	"github.com/mrlokans/readingtracker/internal/database"
	"github.com/mrlokans/readingtracker/internal/database/books"
	"github.com/mrlokans/readingtracker/internal/database/insights"
	"github.com/mrlokans/readingtracker/internal/database/motivations"
	"github.com/mrlokans/readingtracker/internal/database/reviews"
	"github.com/mrlokans/readingtracker/internal/live"
	"github.com/mrlokans/readingtracker/internal/repository"
)

// App holds the opened database and the repositories built on it. The
// server and the CLI commands share it.
type App struct {
	DB  *database.Database
	Hub *live.Hub

	Books       *repository.Books
	Reviews     *repository.Reviews
	Insights    *repository.Insights
	Motivations *repository.Motivations
}

// Open opens the database at cfg.Database.Path and wires the repositories.
func Open(cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	hub := live.NewHub()
	repoCfg := repository.Config{OperationTimeout: cfg.Tracker.OperationTimeout}
	b := repository.NewBooks(books.NewRepository(db.DB), hub, repoCfg)

	return &App{
		DB:          db,
		Hub:         hub,
		Books:       b,
		Reviews:     repository.NewReviews(reviews.NewRepository(db.DB), b, hub, repoCfg),
		Insights:    repository.NewInsights(insights.NewRepository(db.DB), b, hub, repoCfg),
		Motivations: repository.NewMotivations(motivations.NewRepository(db.DB), b, hub, repoCfg),
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
