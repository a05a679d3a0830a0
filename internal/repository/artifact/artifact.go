package artifact

import (
	"errors"
	"fmt"

	"github.com/labmonitor/gas-inference/internal/domain"
)

// LabelEncoder decodes class indices into the labels the MQ-135 model was trained on
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// InverseTransform returns the label for a class index
func (e *LabelEncoder) InverseTransform(index int) (string, error) {
	if index < 0 || index >= len(e.Classes) {
		return "", fmt.Errorf("class index %d out of range [0, %d)", index, len(e.Classes))
	}
	return e.Classes[index], nil
}

// airQualityFile is the on-disk layout of the MQ-135 artifact
type airQualityFile struct {
	Model        *Forest       `json:"model"`
	LabelEncoder *LabelEncoder `json:"label_encoder"`
	Features     []string      `json:"features"`
}

func (a airQualityFile) toDomain() (domain.AirQualityArtifact, error) {
	switch {
	case a.Model == nil:
		return domain.AirQualityArtifact{}, errors.New("missing field \"model\"")
	case a.LabelEncoder == nil || len(a.LabelEncoder.Classes) == 0:
		return domain.AirQualityArtifact{}, errors.New("missing field \"label_encoder\"")
	case len(a.Features) == 0:
		return domain.AirQualityArtifact{}, errors.New("missing field \"features\"")
	}

	if err := a.Model.Validate(); err != nil {
		return domain.AirQualityArtifact{}, fmt.Errorf("invalid model: %w", err)
	}
	if a.Model.NFeatures != len(a.Features) {
		return domain.AirQualityArtifact{}, fmt.Errorf("model expects %d features, artifact lists %d", a.Model.NFeatures, len(a.Features))
	}
	if a.Model.NClasses != len(a.LabelEncoder.Classes) {
		return domain.AirQualityArtifact{}, fmt.Errorf("model has %d classes, label encoder lists %d", a.Model.NClasses, len(a.LabelEncoder.Classes))
	}

	features := make([]string, len(a.Features))
	copy(features, a.Features)

	return domain.AirQualityArtifact{
		Model:        a.Model,
		Decoder:      a.LabelEncoder,
		FeatureOrder: features,
	}, nil
}

// SmokeModel adapts a single-feature forest to domain.SmokeClassifier
type SmokeModel struct {
	forest  *Forest
	classes []domain.SmokeClass
}

// smokeFile is the on-disk layout of the MQ-2 and MQ-7 artifacts
type smokeFile struct {
	Classes []string `json:"classes"`
	Model   *Forest  `json:"model"`
}

func (s smokeFile) toModel() (*SmokeModel, error) {
	if s.Model == nil {
		return nil, errors.New("missing field \"model\"")
	}
	if len(s.Classes) != 2 {
		return nil, fmt.Errorf("expected 2 classes, got %d", len(s.Classes))
	}
	if err := s.Model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	if s.Model.NFeatures != 1 {
		return nil, fmt.Errorf("smoke model must take 1 feature, got %d", s.Model.NFeatures)
	}
	if s.Model.NClasses != len(s.Classes) {
		return nil, fmt.Errorf("model has %d classes, artifact lists %d", s.Model.NClasses, len(s.Classes))
	}

	classes := make([]domain.SmokeClass, len(s.Classes))
	for i, raw := range s.Classes {
		class, err := domain.ParseSmokeClass(raw)
		if err != nil {
			return nil, err
		}
		classes[i] = class
	}
	if classes[0] == classes[1] {
		return nil, fmt.Errorf("duplicate class %q", s.Classes[0])
	}

	return &SmokeModel{forest: s.Model, classes: classes}, nil
}

// Predict returns the most probable class for a ppm value
func (m *SmokeModel) Predict(ppm float64) (domain.SmokeClass, error) {
	idx, err := m.forest.Predict([]float64{ppm})
	if err != nil {
		return domain.NoSmoke, err
	}
	return m.classes[idx], nil
}

// PredictProba returns class probabilities in artifact class order
func (m *SmokeModel) PredictProba(ppm float64) ([]float64, error) {
	return m.forest.PredictProba([]float64{ppm})
}
