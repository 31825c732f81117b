package http

import (
	"time"

	"github.com/mrlokans/readingtracker/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Repositories
	Books       BookStore
	Reviews     ReviewStore
	Insights    InsightStore
	Motivations MotivationStore

	// Reject PUT status moves outside the transition table
	EnforceStatusTransitions bool

	// Markdown export of a book's notes (optional)
	Notes NoteSource

	// OpenLibrary lookups (optional)
	Metadata MetadataLookup
	Enricher BookEnricher

	// Health checks
	Database  Pinger
	Scheduler SchedulerStatus

	// Task queue (optional). Without it draft purges run inline.
	TaskQueue TaskQueue

	// Inline draft purges and the default purge retention
	DraftPurger    tasks.DraftPurger
	DraftRetention time.Duration

	// Application info
	Version string
}
