package integrity

import (
	"migration-verifier/core/storage"
	"migration-verifier/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature exposes dependency checks over HTTP.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new integrity feature.
func NewFeature(stores []store.Store, client storage.Client, bucket string, logger *zap.Logger) *Feature {
	svc := NewService(stores, client, bucket, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
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
