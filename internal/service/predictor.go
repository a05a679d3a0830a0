package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/labmonitor/gas-inference/internal/domain"
	"github.com/labmonitor/gas-inference/internal/metrics"
	"github.com/labmonitor/gas-inference/pkg/utils"
)

// MQ-135 fallback rule, used when the air quality model cannot answer
const (
	MQ135FallbackThreshold  = 200.0
	MQ135FallbackConfidence = 90.0
)

// Predictor runs the three sensor pipelines for a reading
type Predictor struct {
	registry *ModelRegistry
	logger   *zap.Logger
}

// NewPredictor creates a new predictor
func NewPredictor(registry *ModelRegistry, logger *zap.Logger) *Predictor {
	return &Predictor{
		registry: registry,
		logger:   logger,
	}
}

// Predict classifies a reading. It fails only when the registry is not ready
// or an MQ-2/MQ-7 classifier errors; MQ-135 failures are absorbed by the
// fallback rule. No partial result is ever returned.
func (p *Predictor) Predict(reading domain.SensorReading) (domain.PredictionResult, error) {
	if !p.registry.Ready() {
		return domain.PredictionResult{}, ErrModelsNotLoaded
	}

	start := time.Now()
	defer func() {
		metrics.InferenceLatency.Observe(time.Since(start).Seconds())
	}()

	p.logger.Debug("Input",
		zap.Float64("temperature", reading.Temperature),
		zap.Float64("humidity", reading.Humidity),
		zap.Float64("mq135_ppm", reading.MQ135PPM),
		zap.Float64("mq2_ppm", reading.MQ2PPM),
		zap.Float64("mq7_ppm", reading.MQ7PPM),
	)

	airQuality := p.PredictAirQuality(reading)

	mq2, err := p.predictSmoke(domain.SensorMQ2, p.registry.PredictMQ2, MQ2Override, reading.MQ2PPM)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	mq7, err := p.predictSmoke(domain.SensorMQ7, p.registry.PredictMQ7, MQ7Override, reading.MQ7PPM)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	result := domain.PredictionResult{
		MQ135: domain.PredictionOutcome{
			Label:      airQuality.Label,
			Confidence: roundConfidence(airQuality.Confidence),
		},
		MQ2: domain.PredictionOutcome{
			Label:      string(MQ2Label(mq2.Class)),
			Confidence: roundConfidence(mq2.Confidence),
		},
		MQ7: domain.PredictionOutcome{
			Label:      string(MQ7Label(mq7.Class)),
			Confidence: roundConfidence(mq7.Confidence),
		},
		MQ135Source:   airQuality.Source,
		MQ2Overridden: mq2.Overridden,
		MQ7Overridden: mq7.Overridden,
	}

	metrics.RecordPrediction(result)

	p.logger.Info("Prediction",
		zap.String("mq135", result.MQ135.Label),
		zap.Float64("mq135_confidence", result.MQ135.Confidence),
		zap.Stringer("mq135_source", result.MQ135Source),
		zap.String("mq2", result.MQ2.Label),
		zap.Float64("mq2_confidence", result.MQ2.Confidence),
		zap.String("mq7", result.MQ7.Label),
		zap.Float64("mq7_confidence", result.MQ7.Confidence),
	)

	return result, nil
}

// PredictAirQuality runs MQ-135 inference and applies the threshold fallback
// when the model path fails for any reason
func (p *Predictor) PredictAirQuality(reading domain.SensorReading) domain.AirQualityOutcome {
	label, confidence, err := p.registry.PredictMQ135(reading.Temperature, reading.Humidity, reading.MQ135PPM)
	if err == nil {
		return domain.AirQualityOutcome{
			PredictionOutcome: domain.PredictionOutcome{Label: label, Confidence: confidence},
			Source:            domain.SourceModel,
		}
	}

	p.logger.Warn("MQ-135 inference failed, using fallback", zap.Error(err))
	metrics.MQ135Fallbacks.Inc()

	return domain.AirQualityOutcome{
		PredictionOutcome: AirQualityFallback(reading.MQ135PPM),
		Source:            domain.SourceFallback,
		Err:               err,
	}
}

// AirQualityFallback is the deterministic MQ-135 rule
func AirQualityFallback(ppm float64) domain.PredictionOutcome {
	label := domain.AirQualityModerate
	if ppm < MQ135FallbackThreshold {
		label = domain.AirQualityGood
	}
	return domain.PredictionOutcome{Label: label, Confidence: MQ135FallbackConfidence}
}

// roundConfidence keeps a percentage in [0, 100] with one decimal place
func roundConfidence(c float64) float64 {
	return utils.RoundTo(utils.Clamp(c, 0, 100), 1)
}

type smokePredictFunc func(ppm float64) (domain.SmokeClass, float64, error)

func (p *Predictor) predictSmoke(sensor domain.Sensor, predict smokePredictFunc, policy OverridePolicy, ppm float64) (domain.SmokeOutcome, error) {
	class, confidence, err := predict(ppm)
	if err != nil {
		return domain.SmokeOutcome{}, fmt.Errorf("%s: %w", sensor, err)
	}

	outcome := policy.Apply(class, confidence, ppm)
	if outcome.Overridden {
		p.logger.Warn("Override: ppm in overlap zone, forcing no_smoke",
			zap.String("sensor", string(sensor)),
			zap.Float64("ppm", ppm),
			zap.Float64("model_confidence", confidence),
		)
	}
	return outcome, nil
}
