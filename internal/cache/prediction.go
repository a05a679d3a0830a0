package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/labmonitor/gas-inference/internal/domain"
	"github.com/labmonitor/gas-inference/internal/metrics"
)

// Predictor classifies a reading
type Predictor interface {
	Predict(reading domain.SensorReading) (domain.PredictionResult, error)
}

// PredictionCache remembers the results of recently classified readings.
// Readings are compared field by field, so only an exact repeat is a hit.
// Failed predictions are never stored. Hits are counted in the prediction
// and override metrics; the predictor's per-run logs only cover misses.
type PredictionCache struct {
	predictor Predictor
	entries   *lru.Cache[domain.SensorReading, domain.PredictionResult]
}

// NewPredictionCache wraps predictor with an LRU cache holding up to size results
func NewPredictionCache(predictor Predictor, size int) (*PredictionCache, error) {
	entries, err := lru.New[domain.SensorReading, domain.PredictionResult](size)
	if err != nil {
		return nil, fmt.Errorf("cache: failed to create prediction cache: %w", err)
	}
	return &PredictionCache{
		predictor: predictor,
		entries:   entries,
	}, nil
}

// Predict returns the cached result for reading or asks the wrapped predictor
func (c *PredictionCache) Predict(reading domain.SensorReading) (domain.PredictionResult, error) {
	if result, ok := c.entries.Get(reading); ok {
		metrics.CacheHits.Inc()
		metrics.RecordPrediction(result)
		return result, nil
	}

	result, err := c.predictor.Predict(reading)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	c.entries.Add(reading, result)
	return result, nil
}

// Len returns the number of cached results
func (c *PredictionCache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached result
func (c *PredictionCache) Purge() {
	c.entries.Purge()
}
