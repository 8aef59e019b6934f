package verify

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature exposes reconciliation runs over HTTP.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new verify feature.
func NewFeature(ctx context.Context, runner Runner, logger *zap.Logger) *Feature {
	svc := NewService(ctx, runner, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "verify"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the feature's run service.
func (f *Feature) Service() *Service {
	return f.service
}
