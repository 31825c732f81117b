package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readingtracker/internal/exporters"
)

// NoteSource assembles a book's reading notes. *exporters.Collector
// satisfies it.
type NoteSource interface {
	Note(ctx context.Context, bookID uint) (exporters.BookNote, error)
}

type ExportController struct {
	notes NoteSource
}

func NewExportController(notes NoteSource) *ExportController {
	return &ExportController{notes: notes}
}

// DownloadMarkdown handles GET /api/books/:id/markdown
func (ec *ExportController) DownloadMarkdown(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	note, err := ec.notes.Note(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "export book")
		return
	}

	filename := fmt.Sprintf("book-%d.md", id)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(exporters.GenerateMarkdown(note)))
}
