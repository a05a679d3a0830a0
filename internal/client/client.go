package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labmonitor/gas-inference/internal/domain"
	"github.com/labmonitor/gas-inference/internal/service"
)

// Result is a prediction returned by the service, or the local estimate when
// the service could not be reached
type Result struct {
	domain.PredictionResult
	IsFallback bool `json:"is_fallback"`
}

// Client handles communication with a running inference service
type Client struct {
	serviceURL string
	httpClient *http.Client
}

// New creates a new client
func New(serviceURL string, timeout time.Duration) *Client {
	return &Client{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict calls POST /predict. Transport failures and non-200 answers yield
// the threshold estimate instead of an error.
func (c *Client) Predict(ctx context.Context, reading domain.SensorReading) (Result, error) {
	body, err := json.Marshal(reading)
	if err != nil {
		return Result{}, fmt.Errorf("client: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/predict", c.serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("client: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fallback(reading), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fallback(reading), nil
	}

	var prediction domain.PredictionResult
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return Result{}, fmt.Errorf("client: failed to decode response: %w", err)
	}

	return Result{PredictionResult: prediction}, nil
}

// Health calls GET /health
func (c *Client) Health(ctx context.Context) (domain.HealthStatus, error) {
	url := fmt.Sprintf("%s/health", c.serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.HealthStatus{}, fmt.Errorf("client: failed to create health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.HealthStatus{}, fmt.Errorf("client: health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.HealthStatus{}, fmt.Errorf("client: health check returned status %d", resp.StatusCode)
	}

	var status domain.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return domain.HealthStatus{}, fmt.Errorf("client: failed to decode health response: %w", err)
	}
	return status, nil
}

func fallback(reading domain.SensorReading) Result {
	return Result{
		PredictionResult: service.ThresholdEstimate(reading),
		IsFallback:       true,
	}
}
