package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/labmonitor/gas-inference/internal/domain"
)

var (
	// RequestsTotal counts HTTP requests by route and status
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration observes HTTP request latency
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Predictions counts final labels per sensor
	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gas_predictions_total",
			Help: "Total number of sensor predictions by final label",
		},
		[]string{"sensor", "label"},
	)

	// Overrides counts smoke predictions downgraded by the safety override
	Overrides = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gas_overrides_total",
			Help: "Total number of smoke predictions forced to no_smoke",
		},
		[]string{"sensor"},
	)

	// MQ135Fallbacks counts MQ-135 predictions served by the threshold fallback
	MQ135Fallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gas_mq135_fallbacks_total",
			Help: "Total number of MQ-135 predictions that used the fallback rule",
		},
	)

	// ModelsLoaded is 1 when all artifacts loaded at startup
	ModelsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gas_models_loaded",
			Help: "Whether the model registry is ready (1) or not (0)",
		},
	)

	// InferenceLatency observes the duration of a full predict call
	InferenceLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gas_inference_latency_seconds",
			Help:    "Prediction latency in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		},
	)

	// CacheHits counts predictions served from the prediction cache
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gas_prediction_cache_hits_total",
			Help: "Total number of predictions served from the cache",
		},
	)

	// MQTTMessages counts sensor messages handled by the MQTT bridge
	MQTTMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gas_mqtt_messages_total",
			Help: "Total number of MQTT sensor messages by result",
		},
		[]string{"result"},
	)
)

// RecordPrediction counts the final labels and overrides of a served result,
// whether it was computed or taken from the cache
func RecordPrediction(result domain.PredictionResult) {
	Predictions.WithLabelValues(string(domain.SensorMQ135), result.MQ135.Label).Inc()
	Predictions.WithLabelValues(string(domain.SensorMQ2), result.MQ2.Label).Inc()
	Predictions.WithLabelValues(string(domain.SensorMQ7), result.MQ7.Label).Inc()

	if result.MQ2Overridden {
		Overrides.WithLabelValues(string(domain.SensorMQ2)).Inc()
	}
	if result.MQ7Overridden {
		Overrides.WithLabelValues(string(domain.SensorMQ7)).Inc()
	}
}
