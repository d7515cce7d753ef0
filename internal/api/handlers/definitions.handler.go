package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/platformbuilds/klaxon-core/internal/models"
	"github.com/platformbuilds/klaxon-core/internal/monitoring"
	"github.com/platformbuilds/klaxon-core/internal/render"
	"github.com/platformbuilds/klaxon-core/internal/services"
	"github.com/platformbuilds/klaxon-core/internal/tracing"
	"github.com/platformbuilds/klaxon-core/pkg/logger"
)

// maxDocumentBytes bounds uploaded definitions documents.
const maxDocumentBytes = 8 << 20

type DefinitionsHandler struct {
	renderer *services.RenderService
	logger   logger.Logger
}

func NewDefinitionsHandler(renderer *services.RenderService, logger logger.Logger) *DefinitionsHandler {
	return &DefinitionsHandler{
		renderer: renderer,
		logger:   logger,
	}
}

// Validate checks an uploaded definitions document without touching the
// loaded catalog. 200 carries alarm/level counts, 422 the first failure.
func (h *DefinitionsHandler) Validate(c *gin.Context) {
	body, ok := readDocumentBody(c)
	if !ok {
		return
	}
	format := models.FormatForContentType(c.ContentType())

	var span trace.Span
	tracer := tracing.GetGlobalTracer()
	if tracer != nil {
		_, span = tracer.StartValidationSpan(c.Request.Context(), "api", string(format))
		defer span.End()
	}

	alarms, err := models.ParseDefinitions(body, format)
	if err != nil {
		monitoring.RecordValidation("api", false)
		if tracer != nil {
			tracer.RecordError(span, err)
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": "error",
			"error":  errorKind(err),
			"detail": err.Error(),
		})
		return
	}
	monitoring.RecordValidation("api", true)

	levels := 0
	for _, a := range alarms {
		levels += len(a.Levels)
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"alarms": len(alarms),
		"levels": levels,
	})
}

// RenderDocument renders an uploaded definitions document into the artifact
// format named in the URL, bypassing the catalog and the render cache.
func (h *DefinitionsHandler) RenderDocument(c *gin.Context) {
	format, err := render.ParseFormat(c.Param("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	body, ok := readDocumentBody(c)
	if !ok {
		return
	}
	docFormat := models.FormatForContentType(c.ContentType())

	artifact, err := h.renderer.RenderDocument(c.Request.Context(), body, docFormat, format)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": "error",
				"error":  errorKind(err),
				"detail": err.Error(),
			})
			return
		}
		h.logger.Error("document render failed", "format", format, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "render failed",
		})
		return
	}

	serveArtifact(c, format, artifact)
}

// readDocumentBody reads a bounded request body, answering 400 on failure.
func readDocumentBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxDocumentBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  fmt.Sprintf("request body exceeds %d bytes or is unreadable", maxDocumentBytes),
		})
		return nil, false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "empty request body",
		})
		return nil, false
	}
	return body, true
}

// serveArtifact writes rendered bytes with the format's MIME type. Binary
// formats are served as attachments.
func serveArtifact(c *gin.Context, format render.Format, artifact []byte) {
	if format.Binary() {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName()))
	}
	c.Data(http.StatusOK, format.ContentType(), artifact)
}

// errorKind maps a validation failure to its wire name.
func errorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidEnumeration):
		return "invalid_enumeration"
	case errors.Is(err, models.ErrFieldTooLong):
		return "field_too_long"
	case errors.Is(err, models.ErrMissingClearedLevel):
		return "missing_cleared_level"
	case errors.Is(err, models.ErrMissingNonClearedLevel):
		return "missing_non_cleared_level"
	default:
		return "malformed_record"
	}
}

// isValidationError reports whether err came from document validation rather
// than artifact generation.
func isValidationError(err error) bool {
	return errors.Is(err, models.ErrMalformedRecord) ||
		errors.Is(err, models.ErrInvalidEnumeration) ||
		errors.Is(err, models.ErrFieldTooLong) ||
		errors.Is(err, models.ErrMissingClearedLevel) ||
		errors.Is(err, models.ErrMissingNonClearedLevel)
}
