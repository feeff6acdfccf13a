package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything surplusctl needs to talk to the marketplace.
// Values resolve in three layers: built-in defaults, then an optional YAML
// file, then environment variables (highest priority).
type Config struct {
	APIBaseURL string        `yaml:"api_base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	// RedisURL enables the durable session vault; empty keeps the session
	// in memory for the lifetime of the process.
	RedisURL string `yaml:"redis_url"`
	LogLevel string `yaml:"log_level"`

	Breaker   BreakerConfig   `yaml:"breaker"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// BreakerConfig tunes the circuit breaker in front of the API.
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	SleepWindow      time.Duration `yaml:"sleep_window"`
}

// TelemetryConfig selects the trace exporter.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Stdout       bool   `yaml:"stdout"`
}

// loadConfig resolves the configuration. A .env file in the working
// directory is folded into the environment first; SURPLUS_CONFIG_FILE names
// an optional YAML file applied between defaults and environment.
func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL: "http://localhost:5000/api",
		Timeout:    30 * time.Second,
		LogLevel:   "info",
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			SleepWindow:      10 * time.Second,
		},
	}

	if path := os.Getenv("SURPLUS_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.APIBaseURL = getEnv("SURPLUS_API_URL", cfg.APIBaseURL)
	cfg.Timeout = getEnvAsDuration("SURPLUS_TIMEOUT", cfg.Timeout)
	cfg.RedisURL = getEnv("SURPLUS_REDIS_URL", cfg.RedisURL)
	cfg.LogLevel = getEnv("SURPLUS_LOG_LEVEL", cfg.LogLevel)
	cfg.Breaker.FailureThreshold = getEnvAsInt("SURPLUS_BREAKER_THRESHOLD", cfg.Breaker.FailureThreshold)
	cfg.Breaker.SleepWindow = getEnvAsDuration("SURPLUS_BREAKER_SLEEP", cfg.Breaker.SleepWindow)
	cfg.Telemetry.OTLPEndpoint = getEnv("SURPLUS_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
	cfg.Telemetry.Stdout = getEnvAsBool("SURPLUS_TRACE_STDOUT", cfg.Telemetry.Stdout)

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("api base URL must not be empty")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
