package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
)

type reportService interface {
	TrainerSummary(ctx context.Context, trainerID int64, query dto.ReportQuery) (*models.TrainerReport, string, error)
	Export(ctx context.Context, trainerID int64, query dto.ReportQuery) (io.ReadCloser, string, error)
}

// ReportHandler exposes trainer statistics.
type ReportHandler struct {
	reports reportService
	logger  *zap.Logger
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reports: reports, logger: logger}
}

// Summary godoc
// @Summary Trainer statistics
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	var query dto.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		invalidPayload(c, err)
		return
	}
	report, warning, err := h.reports.TrainerSummary(c.Request.Context(), trainer, query)
	if err != nil {
		fail(c, err)
		return
	}
	withWarning(c, report, warning)
}

// Export godoc
// @Summary Download the statistics PDF
// @Tags Reports
// @Produce application/pdf
// @Security BearerAuth
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	var query dto.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		invalidPayload(c, err)
		return
	}
	body, contentType, err := h.reports.Export(c.Request.Context(), trainer, query)
	if err != nil {
		fail(c, err)
		return
	}
	defer body.Close()
	if abandoned(c) {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(trainer, query)))
	c.Header("Cache-Control", "no-store")
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil && !abandoned(c) {
		h.logger.Warn("report export interrupted", zap.Int64("trainer_id", trainer), zap.Error(err))
	}
}

func exportFilename(trainerID int64, query dto.ReportQuery) string {
	name := fmt.Sprintf("reporte-entrenador-%d", trainerID)
	if query.From != "" {
		name += "-" + query.From
	}
	if query.To != "" {
		name += "-" + query.To
	}
	return name + ".pdf"
}
