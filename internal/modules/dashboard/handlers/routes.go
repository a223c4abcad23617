package handlers

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the dashboard endpoints
func RegisterRoutes(app fiber.Router, charts *ChartHandler, health *HealthHandler) {
	app.Get("/health", health.GetHealth)

	// Chart routes
	app.Post("/charts/compute", charts.ComputeChart)
	app.Post("/widgets/:id/compute", charts.ComputeWidget)
	app.Post("/widgets/:id/summary", charts.SummarizeWidget)
	app.Post("/projects/:id/compute", charts.ComputeProject)
}
