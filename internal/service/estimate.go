package service

import "github.com/labmonitor/gas-inference/internal/domain"

// Thresholds of the coarse estimate served when no model answer is available
const (
	EstimateMQ2Threshold = 70.0
	EstimateMQ7Threshold = 100.0
	EstimateConfidence   = 90.0
)

// ThresholdEstimate classifies a reading with fixed ppm cut-offs only.
// Consumers use it when the predictor or the remote service is unavailable.
func ThresholdEstimate(reading domain.SensorReading) domain.PredictionResult {
	mq2 := domain.MQ2Danger
	if reading.MQ2PPM < EstimateMQ2Threshold {
		mq2 = domain.MQ2Safe
	}
	mq7 := domain.MQ7Dangerous
	if reading.MQ7PPM < EstimateMQ7Threshold {
		mq7 = domain.MQ7Normal
	}

	return domain.PredictionResult{
		MQ135:       AirQualityFallback(reading.MQ135PPM),
		MQ2:         domain.PredictionOutcome{Label: string(mq2), Confidence: EstimateConfidence},
		MQ7:         domain.PredictionOutcome{Label: string(mq7), Confidence: EstimateConfidence},
		MQ135Source: domain.SourceFallback,
	}
}
