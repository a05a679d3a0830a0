package artifact

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/labmonitor/gas-inference/internal/domain"
)

// Paths locates the three artifact files
type Paths struct {
	MQ135 string
	MQ2   string
	MQ7   string
}

// FileRepository implements domain.ArtifactRepository over local JSON files
type FileRepository struct {
	paths Paths
}

// NewFileRepository creates a new file-backed artifact repository
func NewFileRepository(paths Paths) *FileRepository {
	return &FileRepository{paths: paths}
}

// LoadAirQuality reads and validates the MQ-135 artifact
func (r *FileRepository) LoadAirQuality() (domain.AirQualityArtifact, error) {
	var file airQualityFile
	if err := readJSON(r.paths.MQ135, &file); err != nil {
		return domain.AirQualityArtifact{}, err
	}

	artifact, err := file.toDomain()
	if err != nil {
		return domain.AirQualityArtifact{}, fmt.Errorf("artifact: invalid mq135 artifact %s: %w", r.paths.MQ135, err)
	}
	return artifact, nil
}

// LoadMQ2 reads and validates the MQ-2 artifact
func (r *FileRepository) LoadMQ2() (domain.SmokeClassifier, error) {
	return loadSmoke("mq2", r.paths.MQ2)
}

// LoadMQ7 reads and validates the MQ-7 artifact
func (r *FileRepository) LoadMQ7() (domain.SmokeClassifier, error) {
	return loadSmoke("mq7", r.paths.MQ7)
}

func loadSmoke(name, path string) (domain.SmokeClassifier, error) {
	var file smokeFile
	if err := readJSON(path, &file); err != nil {
		return nil, err
	}

	model, err := file.toModel()
	if err != nil {
		return nil, fmt.Errorf("artifact: invalid %s artifact %s: %w", name, path, err)
	}
	return model, nil
}

func readJSON(path string, v interface{}) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("artifact: failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("artifact: failed to decode %s: %w", path, err)
	}
	return nil
}
