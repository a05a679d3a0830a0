package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/labmonitor/gas-inference/internal/domain"
)

// ModelRegistry holds the three classifiers. It is built once and never
// mutated, so concurrent requests share it without locking.
type ModelRegistry struct {
	airQuality domain.AirQualityArtifact
	mq2        domain.SmokeClassifier
	mq7        domain.SmokeClassifier
	ready      bool
	loadErr    error
}

// NewModelRegistry creates a ready registry from already loaded models
func NewModelRegistry(airQuality domain.AirQualityArtifact, mq2, mq7 domain.SmokeClassifier) *ModelRegistry {
	features := make([]string, len(airQuality.FeatureOrder))
	copy(features, airQuality.FeatureOrder)
	airQuality.FeatureOrder = features

	r := &ModelRegistry{airQuality: airQuality, mq2: mq2, mq7: mq7}
	switch {
	case airQuality.Model == nil || airQuality.Decoder == nil || len(features) == 0:
		r.loadErr = errors.New("mq135 artifact is incomplete")
	case mq2 == nil:
		r.loadErr = errors.New("mq2 classifier is nil")
	case mq7 == nil:
		r.loadErr = errors.New("mq7 classifier is nil")
	default:
		r.ready = true
	}
	return r
}

// LoadModelRegistry loads all artifacts from repo. Any failure leaves the
// registry permanently not ready; there is no partial mode.
func LoadModelRegistry(repo ArtifactRepository, logger *zap.Logger) *ModelRegistry {
	airQuality, err := repo.LoadAirQuality()
	if err != nil {
		return notReady(fmt.Errorf("mq135: %w", err), logger)
	}
	logger.Info("MQ-135 model loaded", zap.Strings("features", airQuality.FeatureOrder))

	mq2, err := repo.LoadMQ2()
	if err != nil {
		return notReady(fmt.Errorf("mq2: %w", err), logger)
	}
	mq7, err := repo.LoadMQ7()
	if err != nil {
		return notReady(fmt.Errorf("mq7: %w", err), logger)
	}
	logger.Info("MQ-2 and MQ-7 models loaded")

	r := NewModelRegistry(airQuality, mq2, mq7)
	if !r.ready {
		logger.Error("Model registry not ready", zap.Error(r.loadErr))
	}
	return r
}

func notReady(err error, logger *zap.Logger) *ModelRegistry {
	logger.Error("Failed to load models", zap.Error(err))
	return &ModelRegistry{loadErr: err}
}

// Ready reports whether all three models loaded
func (r *ModelRegistry) Ready() bool {
	return r.ready
}

// LoadError returns the reason the registry is not ready, or nil
func (r *ModelRegistry) LoadError() error {
	return r.loadErr
}

// FeatureOrder returns a copy of the MQ-135 column order
func (r *ModelRegistry) FeatureOrder() []string {
	out := make([]string, len(r.airQuality.FeatureOrder))
	copy(out, r.airQuality.FeatureOrder)
	return out
}

// PredictMQ135 runs the air quality model and returns the decoded label and
// the probability of that class in percent
func (r *ModelRegistry) PredictMQ135(temperature, humidity, ppm float64) (string, float64, error) {
	if !r.ready {
		return "", 0, ErrModelsNotLoaded
	}

	row, err := buildRow(r.airQuality.FeatureOrder, temperature, humidity, ppm)
	if err != nil {
		return "", 0, err
	}

	idx, err := r.airQuality.Model.Predict(row)
	if err != nil {
		return "", 0, fmt.Errorf("predict: %w", err)
	}
	label, err := r.airQuality.Decoder.InverseTransform(idx)
	if err != nil {
		return "", 0, fmt.Errorf("decode: %w", err)
	}

	proba, err := r.airQuality.Model.PredictProba(row)
	if err != nil {
		return "", 0, fmt.Errorf("predict_proba: %w", err)
	}
	if idx < 0 || idx >= len(proba) {
		return "", 0, fmt.Errorf("class index %d outside probability vector of length %d", idx, len(proba))
	}
	p, err := checkProbability(proba[idx])
	if err != nil {
		return "", 0, err
	}

	return label, p * 100, nil
}

// PredictMQ2 runs the MQ-2 classifier; confidence is the highest class probability in percent
func (r *ModelRegistry) PredictMQ2(ppm float64) (domain.SmokeClass, float64, error) {
	if !r.ready {
		return domain.NoSmoke, 0, ErrModelsNotLoaded
	}
	return predictSmoke(r.mq2, ppm)
}

// PredictMQ7 runs the MQ-7 classifier; confidence is the highest class probability in percent
func (r *ModelRegistry) PredictMQ7(ppm float64) (domain.SmokeClass, float64, error) {
	if !r.ready {
		return domain.NoSmoke, 0, ErrModelsNotLoaded
	}
	return predictSmoke(r.mq7, ppm)
}

func predictSmoke(model domain.SmokeClassifier, ppm float64) (domain.SmokeClass, float64, error) {
	class, err := model.Predict(ppm)
	if err != nil {
		return domain.NoSmoke, 0, fmt.Errorf("predict: %w", err)
	}
	proba, err := model.PredictProba(ppm)
	if err != nil {
		return domain.NoSmoke, 0, fmt.Errorf("predict_proba: %w", err)
	}
	if len(proba) == 0 {
		return domain.NoSmoke, 0, errors.New("empty probability vector")
	}

	best := proba[0]
	for _, v := range proba[1:] {
		if v > best {
			best = v
		}
	}
	p, err := checkProbability(best)
	if err != nil {
		return domain.NoSmoke, 0, err
	}
	return class, p * 100, nil
}

func checkProbability(p float64) (float64, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("probability %v outside [0, 1]", p)
	}
	return p, nil
}

// featureAliases maps normalized column names to the reading field they hold
var featureAliases = map[string]string{
	"temperature": "temperature",
	"temp":        "temperature",
	"suhu":        "temperature",
	"humidity":    "humidity",
	"hum":         "humidity",
	"kelembaban":  "humidity",
	"kelembapan":  "humidity",
	"mq135ppm":    "ppm",
	"mq135":       "ppm",
	"ppm":         "ppm",
	"gas":         "ppm",
}

// buildRow lays out the MQ-135 inputs in the column order recorded in the
// artifact. Columns are matched by name; positions are never assumed.
func buildRow(order []string, temperature, humidity, ppm float64) ([]float64, error) {
	values := map[string]float64{
		"temperature": temperature,
		"humidity":    humidity,
		"ppm":         ppm,
	}

	row := make([]float64, len(order))
	seen := make(map[string]bool, len(order))
	for i, name := range order {
		field, ok := featureAliases[normalizeFeature(name)]
		if !ok {
			return nil, fmt.Errorf("unknown feature %q", name)
		}
		if seen[field] {
			return nil, fmt.Errorf("feature %q appears more than once", name)
		}
		seen[field] = true
		row[i] = values[field]
	}
	return row, nil
}

func normalizeFeature(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
