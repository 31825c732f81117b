package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/readingtracker/internal/database"
	"github.com/mrlokans/readingtracker/internal/database/books"
	"github.com/mrlokans/readingtracker/internal/database/insights"
	"github.com/mrlokans/readingtracker/internal/database/motivations"
	"github.com/mrlokans/readingtracker/internal/database/reviews"
	"github.com/mrlokans/readingtracker/internal/exporters"
	"github.com/mrlokans/readingtracker/internal/http"
	"github.com/mrlokans/readingtracker/internal/metadata"
	"github.com/mrlokans/readingtracker/internal/repository"
	"github.com/mrlokans/readingtracker/internal/scheduler"
	"github.com/mrlokans/readingtracker/internal/screen"
	"github.com/mrlokans/readingtracker/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ repository.BookStore = (*books.Repository)(nil)
var _ repository.ReviewStore = (*reviews.Repository)(nil)
var _ repository.InsightStore = (*insights.Repository)(nil)
var _ repository.MotivationStore = (*motivations.Repository)(nil)

var _ repository.BookChecker = (*repository.Books)(nil)

// =============================================================================
// HTTP Controllers
// =============================================================================

var _ http.BookStore = (*repository.Books)(nil)
var _ http.ReviewStore = (*repository.Reviews)(nil)
var _ http.InsightStore = (*repository.Insights)(nil)
var _ http.MotivationStore = (*repository.Motivations)(nil)

var _ http.NoteSource = (*exporters.Collector)(nil)
var _ http.Pinger = (*database.Database)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
var _ http.Pinger = (*tasks.Client)(nil)
var _ http.SchedulerStatus = (*scheduler.DraftCleanupScheduler)(nil)
var _ http.MetadataLookup = (*metadata.Client)(nil)
var _ http.BookEnricher = (*metadata.Enricher)(nil)

// =============================================================================
// Screens
// =============================================================================

var _ screen.BookSource = (*repository.Books)(nil)
var _ screen.BookStore = (*repository.Books)(nil)
var _ screen.ReviewStore = (*repository.Reviews)(nil)
var _ screen.InsightStore = (*repository.Insights)(nil)

// =============================================================================
// Export
// =============================================================================

var _ exporters.BookReader = (*repository.Books)(nil)
var _ exporters.ReviewReader = (*repository.Reviews)(nil)
var _ exporters.InsightReader = (*repository.Insights)(nil)
var _ exporters.MotivationReader = (*repository.Motivations)(nil)
var _ exporters.NoteExporter = (*exporters.MarkdownExporter)(nil)

// =============================================================================
// Metadata Enrichment
// =============================================================================

var _ metadata.Provider = (*metadata.Client)(nil)
var _ metadata.BookStore = (*repository.Books)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.DraftPurger = (*repository.Reviews)(nil)
var _ tasks.BookDraftDeleter = (*repository.Reviews)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
