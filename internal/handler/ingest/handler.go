package ingest

import (
	"context"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/ris-ingest/internal/handler"
	"github.com/jwalitptl/ris-ingest/internal/model"
	apperrors "github.com/jwalitptl/ris-ingest/pkg/errors"
)

// Ingester processes one raw HL7 message into a result report.
type Ingester interface {
	Ingest(ctx context.Context, raw string) *model.IngestResult
}

type Handler struct {
	service Ingester
}

func NewHandler(service Ingester) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/hl7", h.IngestMessage)
}

// IngestMessage accepts one raw HL7 message per request, no batching.
// Mapping and persistence problems ride in the 200 report; only an
// unreadable payload is a request error.
func (h *Handler) IngestMessage(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(apperrors.NewBadRequest("failed to read request body", err))
		c.Abort()
		return
	}
	if !utf8.Valid(body) {
		c.Error(apperrors.NewBadRequest("payload is not valid text", nil))
		c.Abort()
		return
	}

	result := h.service.Ingest(c.Request.Context(), string(body))
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
