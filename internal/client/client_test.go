package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labmonitor/gas-inference/internal/domain"
)

func TestPredict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var reading domain.SensorReading
		if err := json.NewDecoder(r.Body).Decode(&reading); err != nil || reading.MQ2PPM != 67 {
			t.Errorf("unexpected body %+v (%v)", reading, err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"mq135":{"label":"Baik","confidence":95.2},"mq2":{"label":"AMAN","confidence":85},"mq7":{"label":"NORMAL","confidence":99.3}}`))
	}))
	defer server.Close()

	c := New(server.URL, time.Second)
	got, err := c.Predict(context.Background(), domain.SensorReading{Temperature: 25, Humidity: 70, MQ2PPM: 67})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsFallback {
		t.Fatalf("expected service result")
	}
	if got.MQ2.Label != "AMAN" || got.MQ2.Confidence != 85 || got.MQ135.Label != "Baik" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestPredictFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"models not loaded"}`))
	}))
	defer server.Close()

	c := New(server.URL, time.Second)
	got, err := c.Predict(context.Background(), domain.SensorReading{MQ135PPM: 150, MQ2PPM: 80, MQ7PPM: 120})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsFallback {
		t.Fatalf("expected fallback result")
	}
	if got.MQ135.Label != "Baik" || got.MQ2.Label != "BAHAYA!" || got.MQ7.Label != "BERBAHAYA!" {
		t.Fatalf("unexpected labels %+v", got)
	}
}

func TestPredictFallsBackWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := New(url, 200*time.Millisecond)
	got, err := c.Predict(context.Background(), domain.SensorReading{MQ2PPM: 10, MQ7PPM: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsFallback || got.MQ2.Label != "AMAN" || got.MQ7.Label != "NORMAL" || got.MQ2.Confidence != 90 {
		t.Fatalf("unexpected fallback %+v", got)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status":"ok","models_loaded":false,"models":{"mq2":"Smoke Detection"}}`))
	}))
	defer server.Close()

	c := New(server.URL, time.Second)
	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != "ok" || status.ModelsLoaded || status.Models[domain.SensorMQ2] != "Smoke Detection" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestHealthUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	if _, err := New(url, 200*time.Millisecond).Health(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
