package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "CORS_ALLOWED_ORIGINS", "MAX_BODY_BYTES", "DB_PATH", "LOG_LEVEL", "METRICS_ENABLED",
		"OLLAMA_URL", "LLM_MODEL", "LLM_MODEL_FALLBACK", "LLM_TEMP", "LLM_TIMEOUT_MS",
		"RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW",
		"FCM_SERVER_KEY", "FCM_TOPIC", "FCM_ENDPOINT", "PUSH_TIMEOUT_MS",
		"OTEL_TRACES_EXPORTER", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"ANNOUNCEMENT_RETENTION", "RETENTION_INTERVAL",
	} {
		unsetEnv(t, key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, "./data/calmcampus.db", cfg.DBPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, LLMConfig{
		BaseURL:       "http://127.0.0.1:11434",
		Model:         "gemma3:4b",
		FallbackModel: "gemma3:1b",
		Temperature:   0.5,
		Timeout:       40 * time.Second,
	}, cfg.LLM)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerWindow)
	assert.Equal(t, time.Minute, cfg.RateLimit.WindowDuration)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
	assert.Equal(t, 720*time.Hour, cfg.Retention.Announcements)
	assert.Equal(t, time.Hour, cfg.Retention.Interval)
}

func TestLoadPushFailsClosed(t *testing.T) {
	unsetEnv(t, "FCM_SERVER_KEY")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Push.ServerKey)
	assert.False(t, cfg.Push.Enabled())
	assert.Equal(t, "announcements", cfg.Push.Topic)
	assert.Equal(t, 10*time.Second, cfg.Push.Timeout)

	t.Setenv("FCM_SERVER_KEY", "  test-key  ")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.Push.Enabled())
	assert.Equal(t, "test-key", cfg.Push.ServerKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example, http://localhost:5173 ,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ENABLED", "off")
	t.Setenv("LLM_MODEL_FALLBACK", "")
	t.Setenv("LLM_TEMP", "0.2")
	t.Setenv("LLM_TIMEOUT_MS", "1500")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://app.example", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.LLM.FallbackModel)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 1500*time.Millisecond, cfg.LLM.Timeout)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.WindowDuration)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "empty port", key: "PORT", value: ""},
		{name: "bad log level", key: "LOG_LEVEL", value: "loud"},
		{name: "bad ollama url", key: "OLLAMA_URL", value: "127.0.0.1:11434"},
		{name: "empty model", key: "LLM_MODEL", value: " "},
		{name: "temperature out of range", key: "LLM_TEMP", value: "3"},
		{name: "zero timeout", key: "LLM_TIMEOUT_MS", value: "0"},
		{name: "zero rate limit", key: "RATE_LIMIT_REQUESTS", value: "0"},
		{name: "empty origins", key: "CORS_ALLOWED_ORIGINS", value: " , "},
		{name: "unknown exporter", key: "OTEL_TRACES_EXPORTER", value: "zipkin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidatePushEndpointOnlyWhenEnabled(t *testing.T) {
	t.Setenv("FCM_ENDPOINT", "not a url")
	unsetEnv(t, "FCM_SERVER_KEY")

	_, err := Load()
	require.NoError(t, err)

	t.Setenv("FCM_SERVER_KEY", "k")
	_, err = Load()
	assert.Error(t, err)
}
