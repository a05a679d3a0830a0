package artifact

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/labmonitor/gas-inference/internal/domain"
)

const stumpJSON = `{"n_features": 1, "n_classes": 2, "trees": [{"nodes": [
	{"feature": 0, "threshold": 70, "left": 1, "right": 2},
	{"feature": -1, "left": -1, "right": -1, "value": [9, 1]},
	{"feature": -1, "left": -1, "right": -1, "value": [1, 9]}
]}]}`

const airQualityJSON = `{
	"features": ["humidity", "temperature", "mq135_ppm"],
	"label_encoder": {"classes": ["Baik", "Sedang"]},
	"model": {"n_features": 3, "n_classes": 2, "trees": [{"nodes": [
		{"feature": 2, "threshold": 200, "left": 1, "right": 2},
		{"feature": -1, "left": -1, "right": -1, "value": [4, 1]},
		{"feature": -1, "left": -1, "right": -1, "value": [1, 4]}
	]}]}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestFileRepositoryLoadsArtifacts(t *testing.T) {
	dir := t.TempDir()
	smoke := `{"classes": ["smoke", "no_smoke"], "model": ` + stumpJSON + `}`
	repo := NewFileRepository(Paths{
		MQ135: writeFile(t, dir, "mq135.json", airQualityJSON),
		MQ2:   writeFile(t, dir, "mq2.json", smoke),
		MQ7:   writeFile(t, dir, "mq7.json", smoke),
	})

	aq, err := repo.LoadAirQuality()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(aq.FeatureOrder, []string{"humidity", "temperature", "mq135_ppm"}) {
		t.Fatalf("unexpected feature order: %v", aq.FeatureOrder)
	}
	idx, err := aq.Model.Predict([]float64{70, 25, 150})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	label, err := aq.Decoder.InverseTransform(idx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "Baik" {
		t.Fatalf("expected Baik, got %s", label)
	}

	mq2, err := repo.LoadMQ2()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// class order in the file is reversed, index 0 means smoke
	class, err := mq2.Predict(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if class != domain.Smoke {
		t.Fatalf("expected smoke, got %s", class)
	}

	if _, err := repo.LoadMQ7(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFileRepositoryRejectsInvalidArtifacts(t *testing.T) {
	dir := t.TempDir()

	airQuality := []struct {
		name    string
		content string
	}{
		{"not json", `{`},
		{"missing model", `{"features": ["temperature"], "label_encoder": {"classes": ["Baik"]}}`},
		{"missing encoder", `{"features": ["temperature"], "model": ` + stumpJSON + `}`},
		{"missing features", `{"label_encoder": {"classes": ["Baik"]}, "model": ` + stumpJSON + `}`},
		{"feature count mismatch", `{"features": ["temperature", "humidity"], "label_encoder": {"classes": ["Baik", "Sedang"]}, "model": ` + stumpJSON + `}`},
		{"class count mismatch", `{"features": ["mq135_ppm"], "label_encoder": {"classes": ["Baik", "Buruk", "Sedang"]}, "model": ` + stumpJSON + `}`},
		{"single class encoder", `{"features": ["mq135_ppm"], "label_encoder": {"classes": ["Baik"]}, "model": ` + stumpJSON + `}`},
	}
	for _, tt := range airQuality {
		t.Run("mq135 "+tt.name, func(t *testing.T) {
			repo := NewFileRepository(Paths{MQ135: writeFile(t, dir, "mq135.json", tt.content)})
			if _, err := repo.LoadAirQuality(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	smoke := []struct {
		name    string
		content string
	}{
		{"missing model", `{"classes": ["no_smoke", "smoke"]}`},
		{"unknown class", `{"classes": ["no_smoke", "fire"], "model": ` + stumpJSON + `}`},
		{"duplicate class", `{"classes": ["smoke", "smoke"], "model": ` + stumpJSON + `}`},
		{"three classes", `{"classes": ["no_smoke", "smoke", "fire"], "model": ` + stumpJSON + `}`},
	}
	for _, tt := range smoke {
		t.Run("mq2 "+tt.name, func(t *testing.T) {
			repo := NewFileRepository(Paths{MQ2: writeFile(t, dir, "mq2.json", tt.content)})
			if _, err := repo.LoadMQ2(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		repo := NewFileRepository(Paths{MQ7: filepath.Join(dir, "does-not-exist.json")})
		if _, err := repo.LoadMQ7(); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestShippedArtifacts(t *testing.T) {
	repo := NewFileRepository(Paths{
		MQ135: "../../../models/air_quality_rf_model.json",
		MQ2:   "../../../models/model_mq2.json",
		MQ7:   "../../../models/model_mq7.json",
	})

	if _, err := repo.LoadAirQuality(); err != nil {
		t.Fatalf("mq135: %v", err)
	}

	mq2, err := repo.LoadMQ2()
	if err != nil {
		t.Fatalf("mq2: %v", err)
	}
	// the overlap zone of the shipped MQ-2 model classifies as smoke
	if class, _ := mq2.Predict(67); class != domain.Smoke {
		t.Fatalf("expected smoke at 67 ppm, got %s", class)
	}
	if class, _ := mq2.Predict(50); class != domain.NoSmoke {
		t.Fatalf("expected no_smoke at 50 ppm, got %s", class)
	}

	if _, err := repo.LoadMQ7(); err != nil {
		t.Fatalf("mq7: %v", err)
	}
}
