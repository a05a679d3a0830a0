package domain

import "time"

// Sensor identifies one of the three gas sensors
type Sensor string

const (
	SensorMQ135 Sensor = "mq135"
	SensorMQ2   Sensor = "mq2"
	SensorMQ7   Sensor = "mq7"
)

// PredictionOutcome is the label and confidence (0-100) for one sensor
type PredictionOutcome struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// InferenceSource tells how the MQ-135 outcome was produced
type InferenceSource int

const (
	SourceModel InferenceSource = iota
	SourceFallback
)

func (s InferenceSource) String() string {
	if s == SourceFallback {
		return "fallback"
	}
	return "model"
}

// AirQualityOutcome is the MQ-135 result together with the path that produced it
type AirQualityOutcome struct {
	PredictionOutcome
	Source InferenceSource
	Err    error // set when Source == SourceFallback
}

// SmokeOutcome is an MQ-2 or MQ-7 result before label mapping
type SmokeOutcome struct {
	Class      SmokeClass
	Confidence float64
	Overridden bool
}

// PredictionResult is the response of a single predict call
type PredictionResult struct {
	MQ135 PredictionOutcome `json:"mq135"`
	MQ2   PredictionOutcome `json:"mq2"`
	MQ7   PredictionOutcome `json:"mq7"`

	MQ135Source   InferenceSource `json:"-"`
	MQ2Overridden bool            `json:"-"`
	MQ7Overridden bool            `json:"-"`
}

// ProcessedReading is the consolidated message published after a reading is classified
type ProcessedReading struct {
	ID          string           `json:"id"`
	Timestamp   time.Time        `json:"timestamp"`
	SensorData  SensorReading    `json:"sensor_data"`
	Predictions PredictionResult `json:"predictions"`
	Source      string           `json:"source"`
}

// HealthStatus is the body of GET /health
type HealthStatus struct {
	Status       string            `json:"status"`
	ModelsLoaded bool              `json:"models_loaded"`
	Models       map[Sensor]string `json:"models"`
}

// ModelDescriptions are reported by the health endpoint
var ModelDescriptions = map[Sensor]string{
	SensorMQ135: "Air Quality (Temp+Hum+Gas)",
	SensorMQ2:   "Smoke Detection",
	SensorMQ7:   "CO/Gas Detection",
}
