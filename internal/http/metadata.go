package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/mrlokans/readingtracker/internal/errors"
	"github.com/mrlokans/readingtracker/internal/metadata"
)

// MetadataLookup finds bibliographic details by ISBN.
type MetadataLookup interface {
	LookupISBN(ctx context.Context, isbn string) (*metadata.Metadata, error)
}

// BookEnricher fills a tracked book's blank fields from a metadata source.
type BookEnricher interface {
	Enrich(ctx context.Context, bookID uint) (*metadata.Result, error)
}

type MetadataController struct {
	lookup   MetadataLookup
	enricher BookEnricher
}

func NewMetadataController(lookup MetadataLookup, enricher BookEnricher) *MetadataController {
	return &MetadataController{lookup: lookup, enricher: enricher}
}

// LookupISBN handles GET /api/books/lookup/:isbn
// It does not touch the tracker; clients use the result to prefill a new book.
func (mc *MetadataController) LookupISBN(c *gin.Context) {
	md, err := mc.lookup.LookupISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		respondUpstreamError(c, err, "lookup isbn")
		return
	}
	c.JSON(http.StatusOK, gin.H{"metadata": md})
}

// EnrichBook handles POST /api/books/:id/enrich
func (mc *MetadataController) EnrichBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := mc.enricher.Enrich(c.Request.Context(), id)
	if err != nil {
		respondUpstreamError(c, err, "enrich book")
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondUpstreamError reports untyped failures as a bad gateway, since they
// come from the metadata service rather than the tracker.
func respondUpstreamError(c *gin.Context, err error, context string) {
	var domainErr *apperrors.Error
	if apperrors.As(err, &domainErr) {
		respondDomainError(c, err, context)
		return
	}
	log.Warn().Err(err).Str("context", context).Msg("Metadata lookup failed")
	respondError(c, http.StatusBadGateway, "metadata lookup failed")
}
