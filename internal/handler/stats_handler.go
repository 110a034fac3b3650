package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medcert-dashboard-go/internal/middleware"
	"medcert-dashboard-go/internal/stats"
)

// StatsHandler handles statistics HTTP requests
type StatsHandler struct {
	statsService *stats.StatsService
}

// NewStatsHandler creates a new statistics handler
func NewStatsHandler(statsService *stats.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetSummary handles GET /api/statistics/summary
func (h *StatsHandler) GetSummary(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	summary, err := h.statsService.Summary(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportStatistics handles GET /api/statistics/export
func (h *StatsHandler) ExportStatistics(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	data, err := h.statsService.Export(actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="statistics.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
