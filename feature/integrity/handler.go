package integrity

import (
	"migration-verifier/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/stores", h.HandleStoreCheck)
	group.Get("/sink", h.HandleSinkCheck)
}

// HandleIntegrityCheck runs every check and responds 503 if any failed.
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	healthy := true

	stores := h.service.CheckStores(ctx)
	for _, r := range stores {
		if !r.OK() {
			healthy = false
		}
	}

	sink := fiber.Map{"status": "skipped"}
	if used, err := h.service.CheckSink(ctx); err != nil {
		healthy = false
		sink = fiber.Map{"status": "error", "error": err.Error()}
	} else if used {
		sink = fiber.Map{"status": "ok"}
	}

	status := fiber.StatusOK
	if !healthy {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"healthy": healthy,
		"stores":  stores,
		"sink":    sink,
	})
}

// HandleStoreCheck probes the entity stores.
func (h *Handler) HandleStoreCheck(c *fiber.Ctx) error {
	stores := h.service.CheckStores(c.Context())
	for _, r := range stores {
		if !r.OK() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(stores)
		}
	}
	return c.JSON(stores)
}

// HandleSinkCheck verifies the report bucket.
func (h *Handler) HandleSinkCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	used, err := h.service.CheckSink(c.Context())
	if err != nil {
		l.Error("Sink check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "error": err.Error()})
	}
	if !used {
		return c.JSON(fiber.Map{"status": "skipped"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
