package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"CONFIG_FILE", "PORT", "MODEL_MQ2_PATH", "MQTT_BROKER", "PREDICTION_CACHE_SIZE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "5000" || cfg.Addr() != ":5000" {
		t.Fatalf("unexpected port %s", cfg.Server.Port)
	}
	if cfg.Models.MQ2Path != "models/model_mq2.json" {
		t.Fatalf("unexpected mq2 path %s", cfg.Models.MQ2Path)
	}
	if cfg.MQTT.Enabled() {
		t.Fatalf("mqtt should be disabled without a broker")
	}
	if cfg.Models.CacheSize != 256 {
		t.Fatalf("unexpected cache size %d", cfg.Models.CacheSize)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
env: production
server:
  port: "8080"
  read_timeout: 3s
models:
  mq135_path: /srv/models/mq135.json
mqtt:
  broker: tcp://broker:1883
  qos: 0
logging:
  level: debug
`)
	t.Setenv("PORT", "9090")
	t.Setenv("MODEL_MQ7_PATH", "/srv/models/mq7.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Env != "production" || cfg.Logging.Level != "debug" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("env should override file port, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 3*time.Second || cfg.Server.WriteTimeout != 10*time.Second {
		t.Fatalf("unexpected timeouts %v/%v", cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	}
	if cfg.Models.MQ135Path != "/srv/models/mq135.json" || cfg.Models.MQ7Path != "/srv/models/mq7.json" {
		t.Fatalf("unexpected model paths %+v", cfg.Models)
	}
	if cfg.Models.MQ2Path != "models/model_mq2.json" {
		t.Fatalf("unset model path should keep its default, got %s", cfg.Models.MQ2Path)
	}
	if !cfg.MQTT.Enabled() || cfg.MQTT.QoS != 0 || cfg.MQTT.SensorTopic != "net4think/lab_monitor/sensor" {
		t.Fatalf("unexpected mqtt config %+v", cfg.MQTT)
	}
}

func TestLoadConfigFileFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfig(t, "server:\n  port: \"7000\"\n"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "7000" {
		t.Fatalf("expected port from CONFIG_FILE, got %s", cfg.Server.Port)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "bad port", env: map[string]string{"PORT": "http"}},
		{name: "port out of range", env: map[string]string{"PORT": "70000"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "verbose"}},
		{name: "bad qos", env: map[string]string{"MQTT_QOS": "3"}},
		{name: "qos wrapping to zero", env: map[string]string{"MQTT_QOS": "256"}},
		{name: "negative qos", env: map[string]string{"MQTT_QOS": "-1"}},
		{name: "yaml qos overflow", content: "mqtt:\n  qos: 300\n"},
		{name: "negative cache size", env: map[string]string{"PREDICTION_CACHE_SIZE": "-1"}},
		{name: "malformed yaml", content: "server: [port"},
		{name: "empty model path", content: "models:\n  mq2_path: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
