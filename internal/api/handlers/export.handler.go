package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/klaxon-core/internal/render"
	"github.com/platformbuilds/klaxon-core/internal/services"
	"github.com/platformbuilds/klaxon-core/pkg/logger"
)

type ExportHandler struct {
	catalog  *services.DefinitionsService
	renderer *services.RenderService
	logger   logger.Logger
}

func NewExportHandler(catalog *services.DefinitionsService, renderer *services.RenderService, logger logger.Logger) *ExportHandler {
	return &ExportHandler{
		catalog:  catalog,
		renderer: renderer,
		logger:   logger,
	}
}

// Export renders the loaded catalog into the requested artifact format.
// Repeated exports of the same catalog are answered from the render cache.
func (h *ExportHandler) Export(c *gin.Context) {
	format, err := render.ParseFormat(c.Param("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	if !h.catalog.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "definitions catalog not loaded",
		})
		return
	}

	artifact, err := h.renderer.Render(c.Request.Context(), format)
	if err != nil {
		h.logger.Error("catalog export failed", "format", format, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "render failed",
		})
		return
	}

	serveArtifact(c, format, artifact)
}
