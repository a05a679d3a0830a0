package domain

// Classifier is a multi-class model over a fixed-width feature row
type Classifier interface {
	// Predict returns the index of the most probable class
	Predict(row []float64) (int, error)

	// PredictProba returns one probability per class
	PredictProba(row []float64) ([]float64, error)
}

// LabelDecoder maps a class index back to the label it was encoded from
type LabelDecoder interface {
	InverseTransform(index int) (string, error)
}

// AirQualityArtifact is the MQ-135 bundle: model, label decoder and the
// column order the model was trained with
type AirQualityArtifact struct {
	Model        Classifier
	Decoder      LabelDecoder
	FeatureOrder []string
}

// SmokeClassifier is a two-class model over a single ppm value
type SmokeClassifier interface {
	Predict(ppm float64) (SmokeClass, error)
	PredictProba(ppm float64) ([]float64, error)
}

// ArtifactRepository defines how model artifacts are obtained.
// The domain defines the interface, storage packages implement it.
type ArtifactRepository interface {
	// LoadAirQuality loads the MQ-135 artifact
	LoadAirQuality() (AirQualityArtifact, error)

	// LoadMQ2 loads the MQ-2 smoke classifier
	LoadMQ2() (SmokeClassifier, error)

	// LoadMQ7 loads the MQ-7 smoke classifier
	LoadMQ7() (SmokeClassifier, error)
}
