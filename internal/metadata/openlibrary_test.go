package metadata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mrlokans/readingtracker/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL), WithInterval(0))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestExtractYear(t *testing.T) {
	tests := map[string]int{
		"2020":              2020,
		"January 15, 2019":  2019,
		"Jan 15, 2019":      2019,
		"2021-06-15":        2021,
		"January 2018":      2018,
		"Published in 1999": 1999,
		"":                  0,
		"no year here":      0,
	}
	for input, want := range tests {
		assert.Equal(t, want, extractYear(input), input)
	}
}

func TestLookupISBN(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/isbn/9780134685991.json":
			writeJSON(w, map[string]any{
				"key":             "/books/OL123M",
				"title":           "Effective Java",
				"publishers":      []string{"Addison-Wesley"},
				"publish_date":    "Dec 27, 2017",
				"number_of_pages": 416,
				"authors":         []map[string]string{{"key": "/authors/OL456A"}},
				"description":     map[string]string{"type": "/type/text", "value": "Best practices."},
			})
		case "/authors/OL456A.json":
			writeJSON(w, map[string]string{"name": "Joshua Bloch"})
		default:
			http.NotFound(w, r)
		}
	})

	md, err := client.LookupISBN(context.Background(), "978-0-13-468599-1")
	require.NoError(t, err)
	assert.Equal(t, Metadata{
		Title:         "Effective Java",
		Author:        "Joshua Bloch",
		ISBN:          "9780134685991",
		Publisher:     "Addison-Wesley",
		PublishedYear: 2017,
		Description:   "Best practices.",
		CoverURL:      "https://covers.openlibrary.org/b/isbn/9780134685991-L.jpg",
		PageCount:     416,
	}, *md)

	_, err = client.LookupISBN(context.Background(), "0596520689")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = client.LookupISBN(context.Background(), "978-0-13-468599-2")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLookupISBN_UpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.LookupISBN(context.Background(), "0596520689")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestSearchTitle_PicksBestMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "Dune Frank Herbert", r.URL.Query().Get("q"))
		writeJSON(w, map[string]any{
			"numFound": 2,
			"docs": []map[string]any{
				{"title": "Dune Messiah", "author_name": []string{"Frank Herbert"}, "cover_i": 7},
				{
					"title":              "Dune",
					"author_name":        []string{"Frank Herbert"},
					"first_publish_year": 1965,
					"publisher":          []string{"Chilton"},
					"isbn":               []string{"not-an-isbn", "0596520689"},
				},
			},
		})
	})

	md, err := client.SearchTitle(context.Background(), "Dune", "Frank Herbert")
	require.NoError(t, err)
	assert.Equal(t, "Dune", md.Title)
	assert.Equal(t, 1965, md.PublishedYear)
	assert.Equal(t, "0596520689", md.ISBN)
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/0596520689-L.jpg", md.CoverURL)

	_, err = client.SearchTitle(context.Background(), "  ", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSearchTitle_NoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"numFound": 0, "docs": []any{}})
	})

	_, err := client.SearchTitle(context.Background(), "Nothing", "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRateLimiter_HonoursContext(t *testing.T) {
	limiter := newRateLimiter(time.Hour)
	require.NoError(t, limiter.wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, limiter.wait(ctx), context.Canceled)
}
