// Package metadata looks up bibliographic details for books on OpenLibrary
// and fills blank fields of tracked books with them.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mrlokans/readingtracker/internal/domain"
	apperrors "github.com/mrlokans/readingtracker/internal/errors"
)

const (
	DefaultBaseURL = "https://openlibrary.org"
	coversBaseURL  = "https://covers.openlibrary.org"
	userAgent      = "ReadingTracker/1.0"
)

// Metadata is what OpenLibrary knows about one edition.
type Metadata struct {
	Title         string `json:"title,omitempty"`
	Author        string `json:"author,omitempty"`
	ISBN          string `json:"isbn,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
	PublishedYear int    `json:"published_year,omitempty"`
	Description   string `json:"description,omitempty"`
	CoverURL      string `json:"cover_url,omitempty"`
	PageCount     int    `json:"page_count,omitempty"`
}

// Client talks to the OpenLibrary JSON API, one request per interval.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rateLimiter
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithInterval(d time.Duration) Option {
	return func(c *Client) { c.limiter = newRateLimiter(d) }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		limiter:    newRateLimiter(time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if since := time.Since(r.lastCall); since < r.interval {
		t := time.NewTimer(r.interval - since)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	r.lastCall = time.Now()
	return nil
}

// LookupISBN fetches the edition with the given ISBN. A malformed ISBN is a
// validation error and an unknown one is a not-found error.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (*Metadata, error) {
	isbn = domain.NormalizeISBN(strings.TrimSpace(isbn))
	if isbn == "" || !domain.IsValidISBN(isbn) {
		return nil, apperrors.Validationf("invalid ISBN %q", isbn)
	}

	var edition openLibraryEdition
	if err := c.getJSON(ctx, "/isbn/"+isbn+".json", &edition); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFoundf("no OpenLibrary edition for ISBN %s", isbn)
		}
		return nil, err
	}

	md := &Metadata{
		Title:         edition.Title,
		ISBN:          isbn,
		PageCount:     edition.NumberOfPages,
		PublishedYear: extractYear(edition.PublishDate),
		Description:   edition.description(),
		CoverURL:      fmt.Sprintf("%s/b/isbn/%s-L.jpg", coversBaseURL, isbn),
	}
	if len(edition.Publishers) > 0 {
		md.Publisher = edition.Publishers[0]
	}
	if len(edition.Authors) > 0 {
		if name, err := c.authorName(ctx, edition.Authors[0].Key); err == nil {
			md.Author = name
		}
	}
	return md, nil
}

// SearchTitle returns the best match of a title (and optional author) search.
func (c *Client) SearchTitle(ctx context.Context, title, author string) (*Metadata, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.Validation("title is required")
	}

	q := strings.TrimSpace(title + " " + author)
	var result openLibrarySearchResult
	if err := c.getJSON(ctx, "/search.json?limit=5&q="+url.QueryEscape(q), &result); err != nil {
		return nil, err
	}
	if len(result.Docs) == 0 {
		return nil, apperrors.NotFoundf("no OpenLibrary results for %q", title)
	}

	doc := bestMatch(result.Docs, title, author)
	md := &Metadata{
		Title:         doc.Title,
		PublishedYear: doc.FirstPublishYear,
	}
	if len(doc.AuthorName) > 0 {
		md.Author = doc.AuthorName[0]
	}
	if len(doc.Publisher) > 0 {
		md.Publisher = doc.Publisher[0]
	}
	for _, candidate := range doc.ISBN {
		if domain.IsValidISBN(candidate) {
			md.ISBN = domain.NormalizeISBN(candidate)
			break
		}
	}
	switch {
	case md.ISBN != "":
		md.CoverURL = fmt.Sprintf("%s/b/isbn/%s-L.jpg", coversBaseURL, md.ISBN)
	case doc.CoverI != 0:
		md.CoverURL = fmt.Sprintf("%s/b/id/%d-L.jpg", coversBaseURL, doc.CoverI)
	}
	return md, nil
}

// bestMatch scores exact title and author matches over partial ones, then
// prefers documents carrying an ISBN or a cover.
func bestMatch(docs []openLibrarySearchDoc, title, author string) *openLibrarySearchDoc {
	title = strings.ToLower(title)
	author = strings.ToLower(author)

	best, bestScore := &docs[0], -1
	for i := range docs {
		doc := &docs[i]
		score := 0

		switch docTitle := strings.ToLower(doc.Title); {
		case docTitle == title:
			score += 10
		case strings.Contains(docTitle, title):
			score += 5
		}
		if author != "" {
			for _, name := range doc.AuthorName {
				name = strings.ToLower(name)
				if name == author {
					score += 10
					break
				}
				if strings.Contains(name, author) {
					score += 5
					break
				}
			}
		}
		if len(doc.ISBN) > 0 {
			score += 2
		}
		if doc.CoverI != 0 {
			score++
		}

		if score > bestScore {
			best, bestScore = doc, score
		}
	}
	return best
}

func (c *Client) authorName(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty author key")
	}
	var author struct {
		Name string `json:"name"`
	}
	if err := c.getJSON(ctx, key+".json", &author); err != nil {
		return "", err
	}
	return author.Name, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	if err := c.limiter.wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openlibrary request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return apperrors.NotFound("openlibrary resource not found")
	default:
		return fmt.Errorf("openlibrary: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode openlibrary response: %w", err)
	}
	return nil
}

// extractYear pulls a year out of OpenLibrary's free-form publish dates.
func extractYear(date string) int {
	date = strings.TrimSpace(date)
	for _, layout := range []string{"2006", "January 2, 2006", "Jan 2, 2006", "2006-01-02", "January 2006"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Year()
		}
	}
	for i := 0; i+4 <= len(date); i++ {
		if year, err := strconv.Atoi(date[i : i+4]); err == nil && year > 1000 && year < 3000 {
			return year
		}
	}
	return 0
}

type openLibraryEdition struct {
	Key           string      `json:"key"`
	Title         string      `json:"title"`
	Authors       []authorRef `json:"authors"`
	Publishers    []string    `json:"publishers"`
	PublishDate   string      `json:"publish_date"`
	NumberOfPages int         `json:"number_of_pages"`
	Description   any         `json:"description"` // string or {type, value}
}

func (e openLibraryEdition) description() string {
	switch v := e.Description.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["value"].(string); ok {
			return s
		}
	}
	return ""
}

type authorRef struct {
	Key string `json:"key"`
}

type openLibrarySearchResult struct {
	NumFound int                    `json:"numFound"`
	Docs     []openLibrarySearchDoc `json:"docs"`
}

type openLibrarySearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	Publisher        []string `json:"publisher"`
	ISBN             []string `json:"isbn"`
	CoverI           int      `json:"cover_i"`
}
