package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/readingtracker/internal/config"
	"github.com/mrlokans/readingtracker/internal/domain"
)

// StatsCommand prints reading statistics from the local database.
type StatsCommand struct {
	DatabasePath string
	Limit        int

	Out io.Writer
}

func NewStatsCommand() *StatsCommand {
	return &StatsCommand{Out: os.Stdout}
}

func (cmd *StatsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the tracker database")
	fs.IntVar(&cmd.Limit, "limit", 5, "Number of recently finished and top rated books to show")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s stats [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print book counts per reading status, motivation counts,\n")
		fmt.Fprintf(os.Stderr, "recently finished books and top rated books.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Limit <= 0 {
		return fmt.Errorf("limit must be positive")
	}
	return nil
}

func (cmd *StatsCommand) Run() error {
	app, err := openTracker(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()

	stats, err := app.Books.Statistics(ctx)
	if err != nil {
		return fmt.Errorf("book statistics: %w", err)
	}
	fmt.Fprintf(cmd.Out, "Books: %d\n", stats.Total)
	fmt.Fprintf(cmd.Out, "  %-10s %d\n", domain.StatusUnread.DisplayName(), stats.Unread)
	fmt.Fprintf(cmd.Out, "  %-10s %d\n", domain.StatusReading.DisplayName(), stats.Reading)
	fmt.Fprintf(cmd.Out, "  %-10s %d\n", domain.StatusFinished.DisplayName(), stats.Finished)

	motivations, err := app.Motivations.Statistics(ctx)
	if err != nil {
		return fmt.Errorf("motivation statistics: %w", err)
	}
	if len(motivations) > 0 {
		fmt.Fprintf(cmd.Out, "\nWhy you picked them up:\n")
		for _, m := range motivations {
			fmt.Fprintf(cmd.Out, "  %-16s %d\n", m.Type.DisplayName(), m.Count)
		}
	}

	recent, err := app.Books.RecentlyFinished(ctx, cmd.Limit)
	if err != nil {
		return fmt.Errorf("recently finished: %w", err)
	}
	cmd.printBooks("Recently finished", recent)

	top, err := app.Books.TopRated(ctx, cmd.Limit)
	if err != nil {
		return fmt.Errorf("top rated: %w", err)
	}
	cmd.printBooks("Top rated", top)
	return nil
}

func (cmd *StatsCommand) printBooks(heading string, books []domain.Book) {
	if len(books) == 0 {
		return
	}
	fmt.Fprintf(cmd.Out, "\n%s:\n", heading)
	for _, b := range books {
		line := "  " + b.Title
		if b.Author != "" {
			line += " by " + b.Author
		}
		if b.Rating != nil {
			line += fmt.Sprintf(" (%.1f)", *b.Rating)
		}
		fmt.Fprintln(cmd.Out, line)
	}
}
