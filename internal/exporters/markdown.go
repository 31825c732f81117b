package exporters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/readingtracker/internal/domain"
)

// MarkdownExporter writes one Obsidian-style note per book under
// ExportDir/<status>/.
type MarkdownExporter struct {
	ExportDir string
}

func NewMarkdownExporter(exportDir string) *MarkdownExporter {
	return &MarkdownExporter{ExportDir: exportDir}
}

func (exporter *MarkdownExporter) ensureDir() error {
	info, err := os.Stat(exporter.ExportDir)
	if err != nil {
		return fmt.Errorf("export directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("export directory %s is not a directory", exporter.ExportDir)
	}
	return nil
}

func (exporter *MarkdownExporter) exportNote(note BookNote) (string, error) {
	statusDir := filepath.Join(exporter.ExportDir, string(note.Book.Status))
	if err := os.MkdirAll(statusDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create status directory: %w", err)
	}

	outputPath := filepath.Join(statusDir, sanitizeFilename(note.Book.Title)+".md")
	if err := os.WriteFile(outputPath, []byte(GenerateMarkdown(note)), 0644); err != nil {
		return "", err
	}
	return outputPath, nil
}

// GenerateMarkdown renders note with a YAML front matter block followed by
// the review, insights grouped by importance, and the motivation.
func GenerateMarkdown(note BookNote) string {
	var builder strings.Builder
	book := note.Book

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "content_type: reading_notes\n")
	fmt.Fprintf(&builder, "title: %s\n", quote(book.Title))
	if book.Author != "" {
		fmt.Fprintf(&builder, "author: %s\n", quote(book.Author))
	}
	if book.ISBN != "" {
		fmt.Fprintf(&builder, "isbn: %s\n", book.ISBN)
	}
	fmt.Fprintf(&builder, "status: %s\n", book.Status)
	if book.Rating != nil {
		fmt.Fprintf(&builder, "rating: %.1f\n", *book.Rating)
	}
	if book.StartedAt != nil {
		fmt.Fprintf(&builder, "started_at: %s\n", book.StartedAt.Format("2006-01-02"))
	}
	if book.FinishedAt != nil {
		fmt.Fprintf(&builder, "finished_at: %s\n", book.FinishedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(&builder, "tags: [%s]\n", strings.Join(noteTags(note), ", "))
	fmt.Fprintf(&builder, "---\n\n")

	fmt.Fprintf(&builder, "# %s\n\n", book.Title)

	if note.Motivation != nil {
		fmt.Fprintf(&builder, "**Picked up because:** %s", note.Motivation.Type.DisplayName())
		if note.Motivation.Details != "" {
			fmt.Fprintf(&builder, " (%s)", note.Motivation.Details)
		}
		fmt.Fprintf(&builder, "\n\n")
	}

	if note.Review != nil && strings.TrimSpace(note.Review.Content) != "" {
		heading := "Review"
		if note.Review.IsDraft {
			heading = "Review (draft)"
		}
		fmt.Fprintf(&builder, "## %s\n\n%s\n\n", heading, note.Review.Content)
	}

	if len(note.Insights) > 0 {
		fmt.Fprintf(&builder, "## Insights\n\n")
		for _, imp := range []domain.Importance{domain.ImportanceHigh, domain.ImportanceMedium, domain.ImportanceLow} {
			writeInsights(&builder, imp, note.Insights)
		}
	}

	return builder.String()
}

func writeInsights(builder *strings.Builder, imp domain.Importance, insights []domain.Insight) {
	var group []domain.Insight
	for _, in := range insights {
		if in.Importance == imp {
			group = append(group, in)
		}
	}
	if len(group) == 0 {
		return
	}

	fmt.Fprintf(builder, "### %s\n\n", imp.DisplayName())
	for _, in := range group {
		header := "> [!quote]"
		if in.Page != nil {
			header += fmt.Sprintf(" p. %d", *in.Page)
		}
		fmt.Fprintf(builder, "%s\n> %s\n", header, strings.ReplaceAll(in.Content, "\n", "\n> "))
		if len(in.Tags) > 0 {
			tags := make([]string, len(in.Tags))
			for i, t := range in.Tags {
				tags[i] = "#" + strings.ReplaceAll(t, " ", "_")
			}
			fmt.Fprintf(builder, "\n%s\n", strings.Join(tags, " "))
		}
		fmt.Fprintf(builder, "\n")
	}
}

// noteTags are the front matter tags: fixed ones plus the book's status.
func noteTags(note BookNote) []string {
	return []string{"books", "reading_notes", string(note.Book.Status)}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Export writes every note. A note that fails to write is counted and
// skipped.
func (exporter *MarkdownExporter) Export(ctx context.Context, notes []BookNote) (ExportResult, error) {
	if err := exporter.ensureDir(); err != nil {
		return ExportResult{}, err
	}

	var result ExportResult
	for _, note := range notes {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		path, err := exporter.exportNote(note)
		if err != nil {
			log.Warn().Err(err).Uint("book_id", note.Book.ID).Str("title", note.Book.Title).Msg("Failed to export book")
			result.BooksFailed++
			continue
		}
		result.BooksProcessed++
		result.InsightsProcessed += len(note.Insights)
		result.Files = append(result.Files, path)
	}

	log.Info().
		Int("books", result.BooksProcessed).
		Int("insights", result.InsightsProcessed).
		Int("failed", result.BooksFailed).
		Str("dir", exporter.ExportDir).
		Msg("Markdown export completed")
	return result, nil
}
