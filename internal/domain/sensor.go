package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fallback values used when a reading omits a field
const (
	DefaultTemperature = 25.0
	DefaultHumidity    = 70.0
	DefaultPPM         = 0.0
)

// SensorReading is one sample from the lab monitor board
type SensorReading struct {
	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // %
	MQ135PPM    float64 `json:"mq135_ppm"`
	MQ2PPM      float64 `json:"mq2_ppm"`
	MQ7PPM      float64 `json:"mq7_ppm"`
}

// DefaultReading returns a reading with every field at its fallback value
func DefaultReading() SensorReading {
	return SensorReading{
		Temperature: DefaultTemperature,
		Humidity:    DefaultHumidity,
		MQ135PPM:    DefaultPPM,
		MQ2PPM:      DefaultPPM,
		MQ7PPM:      DefaultPPM,
	}
}

// ErrInvalidPayload is returned when a payload is not a JSON object
var ErrInvalidPayload = errors.New("payload must be a JSON object")

// ParseReading decodes a JSON object into a SensorReading.
// Missing, null or non-numeric fields fall back to their defaults; an empty
// payload yields DefaultReading.
func ParseReading(payload []byte) (SensorReading, error) {
	reading := DefaultReading()

	if len(bytes.TrimSpace(payload)) == 0 {
		return reading, nil
	}

	var fields map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return reading, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if fields == nil {
		return reading, ErrInvalidPayload
	}

	reading.Temperature = coerceFloat(fields["temperature"], DefaultTemperature)
	reading.Humidity = coerceFloat(fields["humidity"], DefaultHumidity)
	reading.MQ135PPM = coerceFloat(fields["mq135_ppm"], DefaultPPM)
	reading.MQ2PPM = coerceFloat(fields["mq2_ppm"], DefaultPPM)
	reading.MQ7PPM = coerceFloat(fields["mq7_ppm"], DefaultPPM)

	return reading, nil
}

func coerceFloat(value interface{}, fallback float64) float64 {
	var (
		f   float64
		err error
	)

	switch v := value.(type) {
	case json.Number:
		f, err = v.Float64()
	case float64:
		f = v
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	case bool:
		if v {
			f = 1
		}
	default:
		return fallback
	}

	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}
