package verify

import (
	"context"
	"errors"
	"net/url"

	"migration-verifier/core/logger"
	"migration-verifier/core/reconcile"
	"migration-verifier/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reconciliation runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the run routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/runs")
	group.Post("/", h.HandleTrigger)
	group.Get("/latest", h.HandleLatest)
	group.Get("/latest/types/:type", h.HandleLatestType)
}

// HandleTrigger starts a run. With ?wait=true it responds with the run summary
// once the run finishes, otherwise it responds 202 immediately.
func (h *Handler) HandleTrigger(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	joined := h.service.Running()
	results := h.service.Trigger()

	if !c.QueryBool("wait") {
		l.Info("Reconciliation run requested", zap.Bool("joined", joined))
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status": "accepted",
			"joined": joined,
		})
	}

	res := <-results
	summary, _ := res.Val.(*reconcile.RunSummary)
	c.Set("X-Run-Shared", boolString(res.Shared))
	if res.Err != nil {
		l.Error("Reconciliation run failed", zap.Error(res.Err))
		return c.Status(errorStatus(res.Err)).JSON(fiber.Map{
			"error":   res.Err.Error(),
			"summary": summary,
		})
	}
	return c.JSON(summary)
}

// HandleLatest returns the summary of the most recent run.
func (h *Handler) HandleLatest(c *fiber.Ctx) error {
	summary, ok := h.service.Latest()
	c.Set("X-Run-In-Progress", boolString(h.service.Running()))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no run has completed yet"})
	}
	return c.JSON(summary)
}

// HandleLatestType returns one type's row of the most recent run.
func (h *Handler) HandleLatestType(c *fiber.Ctx) error {
	recordType, err := url.PathUnescape(c.Params("type"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid type name"})
	}

	row, ok := h.service.LatestType(recordType)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "type not found in latest run", "type": recordType})
	}
	return c.JSON(row)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrStoreUnavailable):
		return fiber.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
