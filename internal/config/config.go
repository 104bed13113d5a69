// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port           string
	AllowedOrigins []string
	MaxBodyBytes   int64
	DBPath         string
	Retention      RetentionConfig
	LogLevel       slog.Level
	MetricsEnabled bool
	LLM            LLMConfig
	RateLimit      RateLimitConfig
	Push           PushConfig
	Telemetry      TelemetryConfig
}

// LLMConfig describes the local model backend.
type LLMConfig struct {
	BaseURL       string
	Model         string
	FallbackModel string // empty disables the fallback hop
	Temperature   float64
	Timeout       time.Duration
}

// RateLimitConfig bounds chat requests per client address.
type RateLimitConfig struct {
	RequestsPerWindow int
	WindowDuration    time.Duration
}

// PushConfig configures the announcement relay. There is no default server
// key: without FCM_SERVER_KEY the relay is disabled.
type PushConfig struct {
	ServerKey string
	Topic     string
	Endpoint  string
	Timeout   time.Duration
}

// Enabled reports whether a server key was supplied.
func (p PushConfig) Enabled() bool {
	return p.ServerKey != ""
}

// RetentionConfig bounds how long announcement records are kept.
type RetentionConfig struct {
	Announcements time.Duration // 0 disables pruning
	Interval      time.Duration
}

// TelemetryConfig selects the trace exporter.
type TelemetryConfig struct {
	TraceExporter string // "none", "stdout" or "otlp"
	OTLPEndpoint  string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	logLevel, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Config{
		Port:           getEnv("PORT", "3001"),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		DBPath:         getEnv("DB_PATH", "./data/calmcampus.db"),
		Retention: RetentionConfig{
			Announcements: getEnvDuration("ANNOUNCEMENT_RETENTION", 720*time.Hour),
			Interval:      getEnvDuration("RETENTION_INTERVAL", time.Hour),
		},
		LogLevel:       logLevel,
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		LLM: LLMConfig{
			BaseURL:       getEnv("OLLAMA_URL", "http://127.0.0.1:11434"),
			Model:         getEnv("LLM_MODEL", "gemma3:4b"),
			FallbackModel: getEnv("LLM_MODEL_FALLBACK", "gemma3:1b"),
			Temperature:   getEnvFloat("LLM_TEMP", 0.5),
			Timeout:       getEnvMillis("LLM_TIMEOUT_MS", 40*time.Second),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: getEnvInt("RATE_LIMIT_REQUESTS", 30),
			WindowDuration:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Push: PushConfig{
			ServerKey: strings.TrimSpace(getEnv("FCM_SERVER_KEY", "")),
			Topic:     getEnv("FCM_TOPIC", "announcements"),
			Endpoint:  getEnv("FCM_ENDPOINT", "https://fcm.googleapis.com/fcm/send"),
			Timeout:   getEnvMillis("PUSH_TIMEOUT_MS", 10*time.Second),
		},
		Telemetry: TelemetryConfig{
			TraceExporter: strings.ToLower(getEnv("OTEL_TRACES_EXPORTER", "none")),
			OTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return errors.New("DB_PATH cannot be empty")
	}
	if c.Retention.Announcements < 0 {
		return errors.New("ANNOUNCEMENT_RETENTION cannot be negative")
	}
	if c.Retention.Announcements > 0 && c.Retention.Interval <= 0 {
		return errors.New("RETENTION_INTERVAL must be > 0")
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be > 0")
	}
	if len(c.AllowedOrigins) == 0 {
		return errors.New("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if err := validateHTTPURL("OLLAMA_URL", c.LLM.BaseURL); err != nil {
		return err
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("LLM_MODEL cannot be empty")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("LLM_TEMP must be between 0 and 2, got %v", c.LLM.Temperature)
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("LLM_TIMEOUT_MS must be > 0")
	}
	if c.RateLimit.RequestsPerWindow <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS must be > 0")
	}
	if c.RateLimit.WindowDuration <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be > 0")
	}
	if c.Push.Topic == "" {
		return errors.New("FCM_TOPIC cannot be empty")
	}
	if c.Push.Timeout <= 0 {
		return errors.New("PUSH_TIMEOUT_MS must be > 0")
	}
	if c.Push.Enabled() {
		if err := validateHTTPURL("FCM_ENDPOINT", c.Push.Endpoint); err != nil {
			return err
		}
	}
	switch c.Telemetry.TraceExporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("OTEL_TRACES_EXPORTER must be none, stdout or otlp, got %q", c.Telemetry.TraceExporter)
	}
	return nil
}

func validateHTTPURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", key)
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

// getEnvDuration accepts Go duration syntax ("90s", "1m").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

// getEnvMillis reads an integer number of milliseconds.
func getEnvMillis(key string, fallback time.Duration) time.Duration {
	ms := getEnvInt(key, -1)
	if ms < 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
