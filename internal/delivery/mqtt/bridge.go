package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/labmonitor/gas-inference/internal/config"
	"github.com/labmonitor/gas-inference/internal/domain"
	"github.com/labmonitor/gas-inference/internal/metrics"
	"github.com/labmonitor/gas-inference/internal/service"
)

// Publisher is the part of paho.Client the bridge publishes through
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Predictor classifies a reading
type Predictor interface {
	Predict(reading domain.SensorReading) (domain.PredictionResult, error)
}

const publishTimeout = 5 * time.Second

// Bridge consumes raw sensor readings from MQTT and publishes predictions back
type Bridge struct {
	predictor Predictor
	publisher Publisher
	cfg       config.MQTTConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewBridge creates a bridge that publishes through publisher
func NewBridge(predictor Predictor, publisher Publisher, cfg config.MQTTConfig, logger *zap.Logger) *Bridge {
	return &Bridge{
		predictor: predictor,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Connect dials the broker and subscribes the bridge to the sensor topic.
// The returned client must be disconnected by the caller.
func Connect(predictor Predictor, cfg config.MQTTConfig, logger *zap.Logger) (paho.Client, error) {
	bridge := NewBridge(predictor, nil, cfg, logger)
	client := paho.NewClient(bridge.clientOptions())
	bridge.publisher = client

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt: failed to connect to %s: %w", cfg.Broker, token.Error())
	}
	return client, nil
}

// clientOptions configures the paho client for the bridge. HandleMessage
// waits for publish acks, so messages are not routed in order: each one gets
// its own goroutine and the incoming loop keeps processing acks.
func (b *Bridge) clientOptions() *paho.ClientOptions {
	opts := paho.NewClientOptions().
		AddBroker(b.cfg.Broker).
		SetClientID(b.cfg.ClientID).
		SetUsername(b.cfg.Username).
		SetPassword(b.cfg.Password).
		SetAutoReconnect(true).
		SetOrderMatters(false).
		SetConnectTimeout(10 * time.Second)

	// resubscribe on every (re)connect, the session is not persistent
	opts.SetOnConnectHandler(func(c paho.Client) {
		token := c.Subscribe(b.cfg.SensorTopic, b.cfg.QoS, b.messageHandler)
		if !token.WaitTimeout(publishTimeout) || token.Error() != nil {
			b.logger.Error("Failed to subscribe", zap.String("topic", b.cfg.SensorTopic), zap.Error(token.Error()))
			return
		}
		b.logger.Info("Subscribed to sensor topic", zap.String("topic", b.cfg.SensorTopic))
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		b.logger.Warn("MQTT connection lost", zap.Error(err))
	})
	return opts
}

func (b *Bridge) messageHandler(_ paho.Client, msg paho.Message) {
	if err := b.HandleMessage(msg.Payload()); err != nil {
		b.logger.Error("Failed to handle sensor message", zap.String("topic", msg.Topic()), zap.Error(err))
	}
}

// HandleMessage classifies one sensor payload and publishes the per-sensor
// predictions and the consolidated processed message. When the predictor
// fails, the threshold estimate is published instead.
func (b *Bridge) HandleMessage(payload []byte) error {
	reading, err := domain.ParseReading(payload)
	if err != nil {
		metrics.MQTTMessages.WithLabelValues("invalid").Inc()
		return fmt.Errorf("mqtt: failed to parse reading: %w", err)
	}

	source := "model"
	prediction, err := b.predictor.Predict(reading)
	if err != nil {
		b.logger.Warn("Predictor unavailable, publishing threshold estimate", zap.Error(err))
		prediction = service.ThresholdEstimate(reading)
		source = "fallback"
	}
	metrics.MQTTMessages.WithLabelValues(source).Inc()

	outcomes := map[domain.Sensor]domain.PredictionOutcome{
		domain.SensorMQ135: prediction.MQ135,
		domain.SensorMQ2:   prediction.MQ2,
		domain.SensorMQ7:   prediction.MQ7,
	}
	for _, sensor := range []domain.Sensor{domain.SensorMQ135, domain.SensorMQ2, domain.SensorMQ7} {
		if err := b.publish(b.PredictionTopic(sensor), outcomes[sensor]); err != nil {
			return err
		}
	}

	processed := domain.ProcessedReading{
		ID:          uuid.NewString(),
		Timestamp:   b.now().UTC(),
		SensorData:  reading,
		Predictions: prediction,
		Source:      source,
	}
	return b.publish(b.ProcessedTopic(), processed)
}

// PredictionTopic is the topic a sensor's prediction is published on
func (b *Bridge) PredictionTopic(sensor domain.Sensor) string {
	return fmt.Sprintf("%s/pred_%s", b.cfg.TopicPrefix, sensor)
}

// ProcessedTopic is the topic of the consolidated message
func (b *Bridge) ProcessedTopic() string {
	return b.cfg.TopicPrefix + "/processed"
}

func (b *Bridge) publish(topic string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("mqtt: failed to marshal %s: %w", topic, err)
	}

	token := b.publisher.Publish(topic, b.cfg.QoS, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt: publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: failed to publish to %s: %w", topic, err)
	}
	return nil
}
