package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/kite-oss/task-schedule-api/internal/errors"
	"github.com/kite-oss/task-schedule-api/internal/middleware"
	"github.com/kite-oss/task-schedule-api/internal/services"
)

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func exportFilename(ext string) string {
	return fmt.Sprintf("tasks-%s.%s", time.Now().Format("2006-01-02"), ext)
}

// ExportCSV downloads the caller's visible tasks as CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	var buf bytes.Buffer
	if err := h.exportService.WriteCSV(actor, &buf); err != nil {
		apierrors.InternalError(c, "Failed to generate export")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("csv")))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportPDF downloads the caller's visible tasks as a PDF report
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	actor, _ := middleware.GetCurrentUser(c)

	var buf bytes.Buffer
	if err := h.exportService.WritePDF(actor, &buf); err != nil {
		apierrors.InternalError(c, "Failed to generate report")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("pdf")))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
