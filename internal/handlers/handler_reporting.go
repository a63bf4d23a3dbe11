package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/dto"
	"github.com/cantinatita/card_ledger_app/internal/middleware"
)

// reportingHandler serves aggregated daily activity reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers routes related to reporting.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/daily", h.getDailySummary)
	}
}

// getDailySummary godoc
// @Summary Daily activity summary
// @Description Aggregates top-ups, consumptions, generated sales with VAT breakdown and outstanding debt for one day.
// @Tags reports
// @Produce json
// @Param date query string false "Day in YYYY-MM-DD format, defaults to today (UTC)"
// @Success 200 {object} dto.DailySummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/daily [get]
func (h *reportingHandler) getDailySummary(c *gin.Context) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	summary, err := h.reportingService.GetDailySummary(c.Request.Context(), date)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to build daily summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build daily summary"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDailySummaryResponse(summary))
}
