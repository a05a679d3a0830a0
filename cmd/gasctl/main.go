package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/labmonitor/gas-inference/internal/client"
	"github.com/labmonitor/gas-inference/internal/domain"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "predict":
		runPredict(os.Args[2:])
	case "health":
		runHealth(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: gasctl <predict|health> [flags]")
}

func runPredict(args []string) {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	url := fs.String("url", envOr("ML_SERVICE_URL", "http://127.0.0.1:5000"), "inference service URL")
	timeout := fs.Duration("timeout", 2*time.Second, "request timeout")
	temperature := fs.Float64("temperature", domain.DefaultTemperature, "temperature in °C")
	humidity := fs.Float64("humidity", domain.DefaultHumidity, "relative humidity in %")
	mq135 := fs.Float64("mq135", domain.DefaultPPM, "MQ-135 reading in ppm")
	mq2 := fs.Float64("mq2", domain.DefaultPPM, "MQ-2 reading in ppm")
	mq7 := fs.Float64("mq7", domain.DefaultPPM, "MQ-7 reading in ppm")
	fs.Parse(args)

	c := client.New(*url, *timeout)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := c.Predict(ctx, domain.SensorReading{
		Temperature: *temperature,
		Humidity:    *humidity,
		MQ135PPM:    *mq135,
		MQ2PPM:      *mq2,
		MQ7PPM:      *mq7,
	})
	if err != nil {
		log.Fatalf("predict failed: %v", err)
	}
	printJSON(result)
}

func runHealth(args []string) {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	url := fs.String("url", envOr("ML_SERVICE_URL", "http://127.0.0.1:5000"), "inference service URL")
	timeout := fs.Duration("timeout", 2*time.Second, "request timeout")
	fs.Parse(args)

	c := client.New(*url, *timeout)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	status, err := c.Health(ctx)
	if err != nil {
		log.Fatalf("health failed: %v", err)
	}
	printJSON(status)
	if !status.ModelsLoaded {
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("failed to encode output: %v", err)
	}
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
