package service

import (
	"errors"
	"fmt"

	"github.com/labmonitor/gas-inference/internal/domain"
)

type fakeClassifier struct {
	index   int
	proba   []float64
	err     error
	lastRow []float64
}

func (f *fakeClassifier) Predict(row []float64) (int, error) {
	f.lastRow = append([]float64(nil), row...)
	return f.index, f.err
}

func (f *fakeClassifier) PredictProba(row []float64) ([]float64, error) {
	return f.proba, f.err
}

type fakeDecoder []string

func (d fakeDecoder) InverseTransform(index int) (string, error) {
	if index < 0 || index >= len(d) {
		return "", fmt.Errorf("index %d out of range", index)
	}
	return d[index], nil
}

type fakeSmoke struct {
	class domain.SmokeClass
	proba []float64
	err   error
}

func (f *fakeSmoke) Predict(ppm float64) (domain.SmokeClass, error) {
	return f.class, f.err
}

func (f *fakeSmoke) PredictProba(ppm float64) ([]float64, error) {
	return f.proba, f.err
}

func airQuality(model *fakeClassifier, order ...string) domain.AirQualityArtifact {
	if len(order) == 0 {
		order = []string{"temperature", "humidity", "mq135_ppm"}
	}
	return domain.AirQualityArtifact{
		Model:        model,
		Decoder:      fakeDecoder{"Baik", "Buruk", "Sedang"},
		FeatureOrder: order,
	}
}

type fakeRepository struct {
	airQuality domain.AirQualityArtifact
	mq2, mq7   domain.SmokeClassifier
	failAt     string
}

var errLoad = errors.New("artifact missing")

func (r *fakeRepository) LoadAirQuality() (domain.AirQualityArtifact, error) {
	if r.failAt == "mq135" {
		return domain.AirQualityArtifact{}, errLoad
	}
	return r.airQuality, nil
}

func (r *fakeRepository) LoadMQ2() (domain.SmokeClassifier, error) {
	if r.failAt == "mq2" {
		return nil, errLoad
	}
	return r.mq2, nil
}

func (r *fakeRepository) LoadMQ7() (domain.SmokeClassifier, error) {
	if r.failAt == "mq7" {
		return nil, errLoad
	}
	return r.mq7, nil
}
