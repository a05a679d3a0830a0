package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/labmonitor/gas-inference/internal/domain"
	"github.com/labmonitor/gas-inference/internal/service"
)

// Predictor classifies a reading
type Predictor interface {
	Predict(reading domain.SensorReading) (domain.PredictionResult, error)
}

// Handler contains all HTTP handlers
type Handler struct {
	predictor Predictor
	registry  *service.ModelRegistry
	logger    *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(predictor Predictor, registry *service.ModelRegistry, logger *zap.Logger) *Handler {
	return &Handler{
		predictor: predictor,
		registry:  registry,
		logger:    logger,
	}
}

// HealthCheck reports whether the models are loaded. It never runs inference.
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(domain.HealthStatus{
		Status:       "ok",
		ModelsLoaded: h.registry.Ready(),
		Models:       domain.ModelDescriptions,
	})
}

// Predict classifies one sensor reading
func (h *Handler) Predict(c *fiber.Ctx) error {
	if !h.registry.Ready() {
		return fiber.NewError(fiber.StatusInternalServerError, service.ErrModelsNotLoaded.Error())
	}

	reading, err := domain.ParseReading(c.Body())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	prediction, err := h.predictor.Predict(reading)
	if err != nil {
		if !errors.Is(err, service.ErrModelsNotLoaded) {
			h.logger.Error("Prediction error", zap.Error(err), zap.String("request_id", requestID(c)))
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(prediction)
}
