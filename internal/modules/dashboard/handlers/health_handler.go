package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/pipeline"
)

type HealthHandler struct {
	charts ChartComputer
}

func NewHealthHandler(charts ChartComputer) *HealthHandler {
	return &HealthHandler{charts: charts}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive and report the current source generation
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	generation := h.charts.Generation()
	return c.JSON(fiber.Map{
		"status":     "ok",
		"service":    "chart-api",
		"pipeline":   generation != pipeline.NoPipeline,
		"generation": int64(generation),
		"pending":    h.charts.Pending(),
	})
}
