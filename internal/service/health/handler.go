package health

import (
	"github.com/gofiber/fiber/v2"
)

// FiberHandler exposes the probe endpoints. Liveness always answers 200;
// readiness checks the store and cache so a booted instance with a dead
// store stays out of rotation.
type FiberHandler struct {
	service *Service
}

func NewFiberHandler(service *Service) *FiberHandler {
	return &FiberHandler{service: service}
}

// RegisterRoutes mounts the probes under both the plain and the
// Kubernetes-style paths.
func (h *FiberHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/healthz", h.Health)
	app.Get("/ready", h.Ready)
	app.Get("/readyz", h.Ready)
}

func (h *FiberHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.service.Health(c.Context()))
}

func (h *FiberHandler) Ready(c *fiber.Ctx) error {
	report := h.service.Ready(c.Context())

	status := fiber.StatusOK
	if !report.Ready {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(report)
}
