package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/readingtracker/internal/domain"
	"github.com/mrlokans/readingtracker/internal/repository"
)

const defaultListLimit = 10

// BooksController serves the book catalogue.
//
// A status change through UpdateBook is checked against the transition
// table only when enforce is set; otherwise moves outside it are logged and
// applied.
type BooksController struct {
	books   BookStore
	enforce bool
}

func NewBooksController(books BookStore, enforceTransitions bool) *BooksController {
	return &BooksController{books: books, enforce: enforceTransitions}
}

// BookRequest is the create/update payload. An empty status keeps the
// stored one on update and means unread on create.
type BookRequest struct {
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	ISBN        string     `json:"isbn"`
	Publisher   string     `json:"publisher"`
	PublishedAt *time.Time `json:"published_at"`
	Description string     `json:"description"`
	CoverURL    string     `json:"cover_url"`
	PageCount   *int       `json:"page_count"`
	Status      string     `json:"status"`
	Rating      *float64   `json:"rating"`
	StartedAt   *time.Time `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at"`
}

func (r BookRequest) apply(book domain.Book) domain.Book {
	book.Title = r.Title
	book.Author = r.Author
	book.ISBN = r.ISBN
	book.Publisher = r.Publisher
	book.PublishedAt = r.PublishedAt
	book.Description = r.Description
	book.CoverURL = r.CoverURL
	book.PageCount = r.PageCount
	book.Rating = r.Rating
	book.StartedAt = r.StartedAt
	book.FinishedAt = r.FinishedAt
	if r.Status != "" {
		book.Status = domain.ReadingStatus(r.Status)
	}
	return book
}

// StatusRequest moves a book along the reading status table.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListBooks handles GET /api/books?status=&q=&limit=
func (bc *BooksController) ListBooks(c *gin.Context) {
	var q repository.BookQuery
	if s := c.Query("status"); s != "" {
		status, err := domain.ParseReadingStatus(s)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		q.Status = status
	}
	q.Search = c.Query("q")
	if c.Query("limit") != "" {
		limit, ok := parseLimit(c, 0)
		if !ok {
			return
		}
		q.Limit = limit
	}

	books, err := bc.books.List(c.Request.Context(), q)
	if err != nil {
		respondDomainError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "total": len(books)})
}

// CreateBook handles POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req BookRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	id, err := bc.books.Save(ctx, req.apply(domain.Book{}))
	if err != nil {
		respondDomainError(c, err, "create book")
		return
	}
	book, err := bc.books.Get(ctx, id)
	if err != nil {
		respondDomainError(c, err, "load created book")
		return
	}
	respondCreated(c, book)
}

// GetBook handles GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	book, err := bc.books.Get(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// GetBookByISBN handles GET /api/books/isbn/:isbn
func (bc *BooksController) GetBookByISBN(c *gin.Context) {
	book, err := bc.books.GetByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		respondDomainError(c, err, "get book by isbn")
		return
	}
	c.JSON(http.StatusOK, book)
}

// UpdateBook handles PUT /api/books/:id. The payload replaces every
// editable field.
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req BookRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	existing, err := bc.books.Get(ctx, id)
	if err != nil {
		respondDomainError(c, err, "get book")
		return
	}
	next := req.apply(*existing)
	if next.Status != existing.Status && !bc.allowStatusMove(*existing, next.Status) {
		_, err := existing.Transition(next.Status, time.Now())
		respondDomainError(c, err, "update book")
		return
	}
	if err := bc.books.Update(ctx, next); err != nil {
		respondDomainError(c, err, "update book")
		return
	}
	updated, err := bc.books.Get(ctx, id)
	if err != nil {
		respondDomainError(c, err, "load updated book")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// allowStatusMove reports whether an update may move book to status.
// Unknown statuses pass through to validation.
func (bc *BooksController) allowStatusMove(book domain.Book, status domain.ReadingStatus) bool {
	if !status.Valid() || domain.CanTransition(book.Status, status) {
		return true
	}
	if bc.enforce {
		return false
	}
	log.Warn().
		Uint("book_id", book.ID).
		Str("from", string(book.Status)).
		Str("to", string(status)).
		Msg("Reading status moved outside the transition table")
	return true
}

// ChangeStatus handles POST /api/books/:id/status
func (bc *BooksController) ChangeStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := domain.ParseReadingStatus(req.Status)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	book, err := bc.books.ChangeStatus(c.Request.Context(), id, status)
	if err != nil {
		respondDomainError(c, err, "change book status")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook handles DELETE /api/books/:id. Reviews, insights and
// motivations go with it.
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := bc.books.DeleteByID(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "delete book")
		return
	}
	respondSuccess(c, "book deleted")
}

// GetStatistics handles GET /api/books/stats
func (bc *BooksController) GetStatistics(c *gin.Context) {
	stats, err := bc.books.Statistics(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, "book statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RecentlyFinished handles GET /api/books/recent?limit=
func (bc *BooksController) RecentlyFinished(c *gin.Context) {
	limit, ok := parseLimit(c, defaultListLimit)
	if !ok {
		return
	}
	books, err := bc.books.RecentlyFinished(c.Request.Context(), limit)
	if err != nil {
		respondDomainError(c, err, "recently finished books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

// TopRated handles GET /api/books/top-rated?limit=
func (bc *BooksController) TopRated(c *gin.Context) {
	limit, ok := parseLimit(c, defaultListLimit)
	if !ok {
		return
	}
	books, err := bc.books.TopRated(c.Request.Context(), limit)
	if err != nil {
		respondDomainError(c, err, "top rated books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}
