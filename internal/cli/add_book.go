package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/readingtracker/internal/config"
	"github.com/mrlokans/readingtracker/internal/domain"
	apperrors "github.com/mrlokans/readingtracker/internal/errors"
)

// AddBookCommand adds a book from the command line.
type AddBookCommand struct {
	DatabasePath string
	Title        string
	Author       string
	ISBN         string
	Status       string

	Out io.Writer
}

func NewAddBookCommand() *AddBookCommand {
	return &AddBookCommand{Out: os.Stdout}
}

func (cmd *AddBookCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("add-book", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the tracker database")
	fs.StringVar(&cmd.Title, "title", "", "Book title (required)")
	fs.StringVar(&cmd.Author, "author", "", "Book author")
	fs.StringVar(&cmd.ISBN, "isbn", "", "ISBN-10 or ISBN-13, hyphens allowed")
	fs.StringVar(&cmd.Status, "status", string(domain.StatusUnread), "Reading status: unread, reading or finished")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s add-book -title <title> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Title == "" {
		fs.Usage()
		return fmt.Errorf("title is required")
	}
	return nil
}

func (cmd *AddBookCommand) Run() error {
	status, err := domain.ParseReadingStatus(cmd.Status)
	if err != nil {
		return err
	}

	app, err := openTracker(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer app.Close()

	book := domain.Book{Title: cmd.Title, Author: cmd.Author, ISBN: cmd.ISBN, Status: domain.StatusUnread}
	if status != domain.StatusUnread {
		book = book.WithStatus(status, time.Now())
	}

	id, err := app.Books.Save(context.Background(), book)
	if errors.Is(err, apperrors.ErrDuplicateKey) {
		return fmt.Errorf("a book with ISBN %s is already tracked", cmd.ISBN)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Added book %d: %s\n", id, cmd.Title)
	return nil
}
