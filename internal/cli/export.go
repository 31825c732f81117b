package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/readingtracker/internal/config"
	"github.com/mrlokans/readingtracker/internal/domain"
	"github.com/mrlokans/readingtracker/internal/exporters"
	"github.com/mrlokans/readingtracker/internal/repository"
)

// ExportCommand writes reading notes as markdown files.
type ExportCommand struct {
	DatabasePath string
	OutputDir    string
	Status       string

	Out io.Writer
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{Out: os.Stdout}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the tracker database")
	fs.StringVar(&cmd.OutputDir, "output", "", "Existing directory to write notes into (required)")
	fs.StringVar(&cmd.Status, "status", "", "Only export books with this reading status")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export -output <dir> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export every book with its review, insights and motivation as\n")
		fmt.Fprintf(os.Stderr, "Obsidian-compatible markdown, one file per book under <dir>/<status>/.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export -output ~/Obsidian/Books\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -output ./notes -status finished\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.OutputDir == "" {
		fs.Usage()
		return fmt.Errorf("output directory is required")
	}
	return nil
}

func (cmd *ExportCommand) Run() error {
	var q repository.BookQuery
	if cmd.Status != "" {
		status, err := domain.ParseReadingStatus(cmd.Status)
		if err != nil {
			return err
		}
		q.Status = status
	}

	app, err := openTracker(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	collector := exporters.NewCollector(app.Books, app.Reviews, app.Insights, app.Motivations)
	notes, err := collector.Notes(ctx, q)
	if err != nil {
		return fmt.Errorf("collect notes: %w", err)
	}

	result, err := exporters.NewMarkdownExporter(cmd.OutputDir).Export(ctx, notes)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "Exported %d book(s), %d insight(s) to %s\n", result.BooksProcessed, result.InsightsProcessed, cmd.OutputDir)
	if result.BooksFailed > 0 {
		return fmt.Errorf("%d book(s) failed to export", result.BooksFailed)
	}
	return nil
}
