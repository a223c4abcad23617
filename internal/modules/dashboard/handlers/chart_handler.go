package handlers

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/pipeline"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/widget"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/modules/dashboard/models"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/modules/dashboard/repositories"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/modules/dashboard/services"
)

// ChartComputer is the chart service as seen by HTTP handlers
type ChartComputer interface {
	ComputeChart(ctx context.Context, sourceID string, req pipeline.Request) (*models.ChartResult, error)
	ComputeWidget(ctx context.Context, widgetID string, req models.ComputeWidgetRequest) (*models.ChartResult, error)
	ComputeProject(ctx context.Context, projectID string, req models.ComputeWidgetRequest) ([]models.ChartResult, error)
	SummarizeWidget(ctx context.Context, widgetID string, req models.ComputeWidgetRequest) (*models.ChartSummary, error)
	Generation() pipeline.Generation
	Pending() int
}

type ChartHandler struct {
	charts   ChartComputer
	validate *validator.Validate
}

func NewChartHandler(charts ChartComputer) *ChartHandler {
	return &ChartHandler{
		charts:   charts,
		validate: validator.New(),
	}
}

// ComputeChart godoc
// @Summary Compute an ad-hoc chart
// @Description Aggregate a data source for a widget spec and compile the chart options
// @Tags Charts
// @Accept json
// @Produce json
// @Param request body models.ComputeChartRequest true "Widget, filters and theme"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /charts/compute [post]
func (h *ChartHandler) ComputeChart(c *fiber.Ctx) error {
	var req models.ComputeChartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err := req.Widget.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err := validateFilters(req.Filters); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	res, err := h.charts.ComputeChart(c.UserContext(), req.DataSourceID, pipeline.Request{
		Widget:  req.Widget,
		Filters: req.Filters,
		Theme:   req.Theme,
		Compact: req.Compact,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return chartResponse(c, res)
}

// ComputeWidget godoc
// @Summary Compute a stored widget
// @Description Compute a widget with the dashboard's global filters
// @Tags Charts
// @Accept json
// @Produce json
// @Param id path string true "Widget ID"
// @Param request body models.ComputeWidgetRequest false "Global filters, theme and compact mode"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /widgets/{id}/compute [post]
func (h *ChartHandler) ComputeWidget(c *fiber.Ctx) error {
	req, err := h.widgetRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	res, err := h.charts.ComputeWidget(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return chartResponse(c, res)
}

// ComputeProject godoc
// @Summary Compute every widget of a project
// @Description Widgets are computed concurrently; failures are reported per widget
// @Tags Charts
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body models.ComputeWidgetRequest false "Global filters, theme and compact mode"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /projects/{id}/compute [post]
func (h *ChartHandler) ComputeProject(c *fiber.Ctx) error {
	req, err := h.widgetRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	results, err := h.charts.ComputeProject(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"generation": int64(h.charts.Generation()),
		"data":       results,
	})
}

// SummarizeWidget godoc
// @Summary Summarize a widget
// @Description Compute a widget and describe it with the configured LLM provider
// @Tags Charts
// @Accept json
// @Produce json
// @Param id path string true "Widget ID"
// @Param request body models.ComputeWidgetRequest false "Global filters, theme and compact mode"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /widgets/{id}/summary [post]
func (h *ChartHandler) SummarizeWidget(c *fiber.Ctx) error {
	req, err := h.widgetRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	summary, err := h.charts.SummarizeWidget(c.UserContext(), c.Params("id"), req)
	if errors.Is(err, services.ErrSuperseded) {
		return c.JSON(fiber.Map{
			"status": "superseded",
		})
	}
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   summary,
	})
}

// widgetRequest reads an optional body
func (h *ChartHandler) widgetRequest(c *fiber.Ctx) (models.ComputeWidgetRequest, error) {
	var req models.ComputeWidgetRequest
	if len(c.Body()) == 0 {
		return req, nil
	}
	if err := c.BodyParser(&req); err != nil {
		return req, errors.New("invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return req, err
	}
	return req, validateFilters(req.Filters)
}

func validateFilters(clauses []filter.Clause) error {
	for _, clause := range clauses {
		if err := filter.Validate(clause); err != nil {
			return err
		}
	}
	return nil
}

func chartResponse(c *fiber.Ctx, res *models.ChartResult) error {
	if res.Superseded {
		return c.JSON(fiber.Map{
			"status": "superseded",
			"data":   res,
		})
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   res,
	})
}

// errorResponse maps service errors to HTTP statuses
func errorResponse(c *fiber.Ctx, err error) error {
	var hostErr *pipeline.HostError

	switch {
	case errors.As(err, &hostErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "could not compute chart",
			"detail": hostErr.Message,
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, repositories.ErrInvalidID), errors.Is(err, widget.ErrInvalidSpec):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrNoDataSource):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, pipeline.ErrNoPipeline),
		errors.Is(err, pipeline.ErrHostTerminated),
		errors.Is(err, llm.ErrDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
			"error": "chart computation timed out",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
