package exporters

import (
	"context"

	"github.com/mrlokans/readingtracker/internal/domain"
)

// BookNote is everything recorded about one book.
type BookNote struct {
	Book       domain.Book
	Review     *domain.Review
	Insights   []domain.Insight
	Motivation *domain.ReadingMotivation
}

type NoteExporter interface {
	Export(ctx context.Context, notes []BookNote) (ExportResult, error)
}

type ExportResult struct {
	BooksProcessed    int      `json:"books_processed"`
	InsightsProcessed int      `json:"insights_processed"`
	BooksFailed       int      `json:"books_failed"`
	Files             []string `json:"files,omitempty"`
}
