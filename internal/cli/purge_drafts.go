package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/readingtracker/internal/config"
)

// PurgeDraftsCommand deletes stale review drafts without going through the
// task queue.
type PurgeDraftsCommand struct {
	DatabasePath string
	Retention    time.Duration
	BookID       uint

	Out io.Writer
}

func NewPurgeDraftsCommand() *PurgeDraftsCommand {
	return &PurgeDraftsCommand{Out: os.Stdout}
}

func (cmd *PurgeDraftsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("purge-drafts", flag.ContinueOnError)

	var bookID uint64
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the tracker database")
	fs.DurationVar(&cmd.Retention, "retention", 30*24*time.Hour, "Delete drafts not edited for this long")
	fs.Uint64Var(&bookID, "book", 0, "Delete every draft of this book instead, regardless of age")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s purge-drafts [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete review drafts nobody has touched for a while.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s purge-drafts -retention 168h\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s purge-drafts -book 42\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Retention <= 0 {
		return fmt.Errorf("retention must be positive")
	}
	cmd.BookID = uint(bookID)
	return nil
}

func (cmd *PurgeDraftsCommand) Run() error {
	app, err := openTracker(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()

	if cmd.BookID != 0 {
		deleted, err := app.Reviews.DeleteDraftsForBook(ctx, cmd.BookID)
		if err != nil {
			return fmt.Errorf("delete drafts for book %d: %w", cmd.BookID, err)
		}
		fmt.Fprintf(cmd.Out, "Deleted %d draft(s) of book %d\n", deleted, cmd.BookID)
		return nil
	}

	deleted, err := app.Reviews.PurgeStaleDrafts(ctx, cmd.Retention)
	if err != nil {
		return fmt.Errorf("purge stale drafts: %w", err)
	}
	fmt.Fprintf(cmd.Out, "Deleted %d draft(s) older than %s\n", deleted, cmd.Retention)
	return nil
}
