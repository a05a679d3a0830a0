package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	AllowOrigins string        `yaml:"allow_origins"`
}

// ModelsConfig locates the model artifacts
type ModelsConfig struct {
	MQ135Path string `yaml:"mq135_path"`
	MQ2Path   string `yaml:"mq2_path"`
	MQ7Path   string `yaml:"mq7_path"`
	// CacheSize bounds the prediction cache, 0 disables it
	CacheSize int    `yaml:"cache_size"`
}

// MQTTConfig holds the optional MQTT bridge settings.
// The bridge is disabled when Broker is empty.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	SensorTopic string `yaml:"sensor_topic"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
}

// Enabled reports whether the MQTT bridge should run
func (m MQTTConfig) Enabled() bool {
	return m.Broker != ""
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Config holds the complete application configuration
type Config struct {
	Env     string        `yaml:"env"`
	Server  ServerConfig  `yaml:"server"`
	Models  ModelsConfig  `yaml:"models"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Port:         "5000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			AllowOrigins: "*",
		},
		Models: ModelsConfig{
			MQ135Path: "models/air_quality_rf_model.json",
			MQ2Path:   "models/model_mq2.json",
			MQ7Path:   "models/model_mq7.json",
			CacheSize: 256,
		},
		MQTT: MQTTConfig{
			ClientID:    "gas-inference",
			SensorTopic: "net4think/lab_monitor/sensor",
			TopicPrefix: "net4think/lab_monitor",
			QoS:         1,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence (env wins).
// An empty path falls back to CONFIG_FILE, then to config.yaml if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("CONFIG_FILE")
		explicit = path != ""
	}
	if !explicit {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no config file, defaults and env only
	default:
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("config: invalid environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Env = getEnv("GO_ENV", c.Env)

	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", c.Server.AllowOrigins)
	c.Server.ReadTimeout = getEnvAsDuration("READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsDuration("WRITE_TIMEOUT", c.Server.WriteTimeout)

	c.Models.MQ135Path = getEnv("MODEL_MQ135_PATH", c.Models.MQ135Path)
	c.Models.MQ2Path = getEnv("MODEL_MQ2_PATH", c.Models.MQ2Path)
	c.Models.MQ7Path = getEnv("MODEL_MQ7_PATH", c.Models.MQ7Path)
	c.Models.CacheSize = getEnvAsInt("PREDICTION_CACHE_SIZE", c.Models.CacheSize)

	c.MQTT.Broker = getEnv("MQTT_BROKER", c.MQTT.Broker)
	c.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", c.MQTT.ClientID)
	c.MQTT.Username = getEnv("MQTT_USERNAME", c.MQTT.Username)
	c.MQTT.Password = getEnv("MQTT_PASSWORD", c.MQTT.Password)
	c.MQTT.SensorTopic = getEnv("MQTT_SENSOR_TOPIC", c.MQTT.SensorTopic)
	c.MQTT.TopicPrefix = getEnv("MQTT_TOPIC_PREFIX", c.MQTT.TopicPrefix)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.File = getEnv("LOG_FILE", c.Logging.File)

	// range-checked before narrowing to byte
	qos := getEnvAsInt("MQTT_QOS", int(c.MQTT.QoS))
	if qos < 0 || qos > 2 {
		return fmt.Errorf("invalid mqtt qos %d", qos)
	}
	c.MQTT.QoS = byte(qos)
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Server.Port)
	}
	if c.Models.MQ135Path == "" || c.Models.MQ2Path == "" || c.Models.MQ7Path == "" {
		return errors.New("all three model paths are required")
	}
	if c.Models.CacheSize < 0 {
		return fmt.Errorf("invalid prediction cache size %d", c.Models.CacheSize)
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("invalid mqtt qos %d", c.MQTT.QoS)
	}
	if c.MQTT.Enabled() && (c.MQTT.SensorTopic == "" || c.MQTT.TopicPrefix == "") {
		return errors.New("mqtt sensor topic and topic prefix are required when a broker is set")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", c.Logging.Level)
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
