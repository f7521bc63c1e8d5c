package openapifx

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Handler serves the Swagger UI and the generated document.
type Handler struct {
	config Config
	spec   *swag.Spec

	logger *zap.Logger
}

func New(config Config, spec *swag.Spec, logger *zap.Logger) *Handler {
	if config.PublicHost != "" {
		spec.Host = config.PublicHost
	}
	if config.PublicPath != "" {
		spec.BasePath = config.PublicPath
	}

	return &Handler{
		config: config,
		spec:   spec,

		logger: logger,
	}
}

func (h *Handler) Register(r fiber.Router) {
	if !h.config.Enabled {
		return
	}

	h.logger.Info("serving API documentation", zap.String("host", h.spec.Host), zap.String("base_path", h.spec.BasePath))
	r.Get("/*", swagger.New(swagger.Config{
		InstanceName: h.spec.InstanceName(),
		DeepLinking:  true,
	}))
}
