package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/labmonitor/gas-inference/internal/cache"
	"github.com/labmonitor/gas-inference/internal/config"
	"github.com/labmonitor/gas-inference/internal/delivery/http"
	"github.com/labmonitor/gas-inference/internal/delivery/mqtt"
	"github.com/labmonitor/gas-inference/internal/logger"
	"github.com/labmonitor/gas-inference/internal/metrics"
	"github.com/labmonitor/gas-inference/internal/repository/artifact"
	"github.com/labmonitor/gas-inference/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Logging, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	// Models are loaded exactly once; on failure the service keeps running
	// and reports models_loaded=false until restarted.
	zl.Info("Loading pre-trained ML models...")
	repo := artifact.NewFileRepository(artifact.Paths{
		MQ135: cfg.Models.MQ135Path,
		MQ2:   cfg.Models.MQ2Path,
		MQ7:   cfg.Models.MQ7Path,
	})
	registry := service.LoadModelRegistry(repo, zl)
	if registry.Ready() {
		metrics.ModelsLoaded.Set(1)
	} else {
		metrics.ModelsLoaded.Set(0)
	}

	var predictor http.Predictor = service.NewPredictor(registry, zl)
	if cfg.Models.CacheSize > 0 {
		cached, err := cache.NewPredictionCache(predictor, cfg.Models.CacheSize)
		if err != nil {
			zl.Fatal("Failed to create prediction cache", zap.Error(err))
		}
		predictor = cached
	}

	// Optional MQTT bridge
	if cfg.MQTT.Enabled() {
		client, err := mqtt.Connect(predictor, cfg.MQTT, zl)
		if err != nil {
			zl.Error("MQTT bridge disabled", zap.Error(err))
		} else {
			defer client.Disconnect(250)
			zl.Info("MQTT bridge connected", zap.String("broker", cfg.MQTT.Broker))
		}
	}

	handler := http.NewHandler(predictor, registry, zl)
	app := http.NewApp(cfg.Server, handler, zl)

	// Graceful shutdown
	go func() {
		zl.Info("Server starting",
			zap.String("addr", cfg.Addr()),
			zap.Bool("models_loaded", registry.Ready()),
		)
		if err := app.Listen(cfg.Addr()); err != nil {
			zl.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
	}
	zl.Info("Server exited gracefully")
}
