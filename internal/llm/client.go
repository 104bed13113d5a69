// Package llm invokes the local model backend with a primary/fallback policy.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Brian-C69/calm-campus/internal/domain"
	"github.com/Brian-C69/calm-campus/internal/metrics"
)

// ErrNoModels is returned by NewClient when no primary model is configured.
var ErrNoModels = errors.New("no model configured")

// jsonFormat asks the backend for structured JSON output.
var jsonFormat = json.RawMessage(`"json"`)

// Options configures a Client.
type Options struct {
	BaseURL       string
	Model         string
	FallbackModel string
	Temperature   float64
	Timeout       time.Duration
	HTTPClient    *http.Client
	Logger        *slog.Logger
}

// Reply is the outcome of an invocation. Failures are values, never panics:
// when OK is false, Err says why.
type Reply struct {
	OK      bool
	Content string
	Model   string
	Err     error
}

// Client calls the primary model and, if that attempt fails, the fallback
// model once. It is safe for concurrent use.
type Client struct {
	client      *api.Client
	models      []string
	temperature float64
	timeout     time.Duration
	logger      *slog.Logger
}

// NewClient validates opts and builds a Client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Model) == "" {
		return nil, ErrNoModels
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "http://127.0.0.1:11434"
	}
	parsedURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid model backend URL: %w", err)
	}
	if opts.Timeout <= 0 {
		return nil, fmt.Errorf("model timeout must be positive, got %s", opts.Timeout)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	models := []string{opts.Model}
	if fb := strings.TrimSpace(opts.FallbackModel); fb != "" && fb != opts.Model {
		models = append(models, fb)
	}

	return &Client{
		client:      api.NewClient(parsedURL, httpClient),
		models:      models,
		temperature: opts.Temperature,
		timeout:     opts.Timeout,
		logger:      logger.With("component", "llm"),
	}, nil
}

// Models returns the candidate models in call order.
func (c *Client) Models() []string {
	return append([]string(nil), c.models...)
}

// Ping checks that the backend is reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.client.Heartbeat(ctx)
}

// Invoke sends msgs to the primary model and falls back once on failure.
// Any success wins. When every attempt fails the primary's error is returned,
// wrapped together with the fallback's.
func (c *Client) Invoke(ctx context.Context, msgs []domain.PromptMessage) Reply {
	primary := c.attempt(ctx, c.models[0], msgs)
	if primary.OK || len(c.models) < 2 {
		return primary
	}
	// The caller is gone; a second attempt would only burn backend time.
	if ctx.Err() != nil {
		return primary
	}

	c.logger.Warn("Primary model failed, trying fallback",
		"model", c.models[0], "fallback", c.models[1], "error", primary.Err)

	fallback := c.attempt(ctx, c.models[1], msgs)
	if fallback.OK {
		return fallback
	}
	return Reply{
		Model: primary.Model,
		Err:   fmt.Errorf("primary: %w; fallback: %w", primary.Err, fallback.Err),
	}
}

func (c *Client) attempt(ctx context.Context, model string, msgs []domain.PromptMessage) Reply {
	ctx, span := otel.Tracer("calmcampus.llm").Start(ctx, "llm.Client.attempt")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", model),
		attribute.Int("llm.messages", len(msgs)),
	)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &api.ChatRequest{
		Model:    model,
		Messages: toAPIMessages(msgs),
		Stream:   func(b bool) *bool { return &b }(false),
		Format:   jsonFormat,
		Options:  map[string]any{"temperature": c.temperature},
	}

	var content strings.Builder
	start := time.Now()
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	elapsed := time.Since(start)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			outcome = metrics.OutcomeTimeout
			err = fmt.Errorf("model %s timed out after %s: %w", model, c.timeout, err)
		} else {
			if code := statusCode(err); code != 0 {
				span.SetAttributes(attribute.Int("http.status_code", code))
			}
			err = fmt.Errorf("model %s: %w", model, err)
		}
		metrics.ObserveModelCall(model, outcome, elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		span.SetAttributes(attribute.String("llm.outcome", outcome))
		c.logger.Warn("Model call failed", "model", model, "outcome", outcome,
			"duration_ms", elapsed.Milliseconds(), "error", err)
		return Reply{Model: model, Err: err}
	}

	metrics.ObserveModelCall(model, metrics.OutcomeSuccess, elapsed)
	span.SetAttributes(
		attribute.String("llm.outcome", metrics.OutcomeSuccess),
		attribute.Int("llm.response_bytes", content.Len()),
	)
	span.SetStatus(codes.Ok, "")
	c.logger.Debug("Model call succeeded", "model", model,
		"duration_ms", elapsed.Milliseconds(), "response_bytes", content.Len())

	return Reply{OK: true, Content: content.String(), Model: model}
}

// statusCode returns the backend's HTTP status for err, or 0 for transport
// failures.
func statusCode(err error) int {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

func toAPIMessages(msgs []domain.PromptMessage) []api.Message {
	out := make([]api.Message, len(msgs))
	for i, m := range msgs {
		out[i] = api.Message{Role: m.Role, Content: m.Content}
	}
	return out
}
