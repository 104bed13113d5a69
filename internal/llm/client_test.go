package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brian-C69/calm-campus/internal/domain"
)

// fakeBackend speaks /api/chat. Each model name maps to a behaviour.
type fakeBackend struct {
	mu       sync.Mutex
	calls    []string
	requests []api.ChatRequest
	behave   map[string]func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/chat" {
		http.NotFound(w, r)
		return
	}
	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.calls = append(f.calls, req.Model)
	f.requests = append(f.requests, req)
	fn := f.behave[req.Model]
	f.mu.Unlock()

	if fn == nil {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
		return
	}
	fn(w, r)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func reply(content string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "m",
			"message": map[string]string{"role": "assistant", "content": content},
			"done":    true,
		})
	}
}

func fail(status int, msg string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
	}
}

func hang(w http.ResponseWriter, r *http.Request) {
	select {
	case <-r.Context().Done():
	case <-time.After(5 * time.Second):
	}
}

func newTestClient(t *testing.T, backend *fakeBackend, fallback string, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{
		BaseURL:       srv.URL,
		Model:         "primary",
		FallbackModel: fallback,
		Temperature:   0.5,
		Timeout:       timeout,
		HTTPClient:    srv.Client(),
	})
	require.NoError(t, err)
	return c
}

var testMessages = []domain.PromptMessage{
	{Role: domain.RoleSystem, Content: "sys"},
	{Role: domain.RoleUser, Content: "User: hi"},
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Options{Timeout: time.Second})
	assert.ErrorIs(t, err, ErrNoModels)

	_, err = NewClient(Options{Model: "m", BaseURL: "http://[::1", Timeout: time.Second})
	assert.Error(t, err)

	_, err = NewClient(Options{Model: "m"})
	assert.Error(t, err)

	c, err := NewClient(Options{Model: "m", FallbackModel: "m", Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, []string{"m"}, c.Models(), "fallback equal to primary is dropped")
}

func TestInvokePrimarySuccess(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{behave: map[string]func(http.ResponseWriter, *http.Request){
		"primary":  reply(`{"mode":"support"}`),
		"fallback": reply("unused"),
	}}
	c := newTestClient(t, backend, "fallback", time.Second)

	got := c.Invoke(t.Context(), testMessages)

	require.True(t, got.OK)
	assert.NoError(t, got.Err)
	assert.Equal(t, `{"mode":"support"}`, got.Content)
	assert.Equal(t, "primary", got.Model)
	assert.Equal(t, []string{"primary"}, backend.Calls())
}

func TestInvokeRequestShape(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{behave: map[string]func(http.ResponseWriter, *http.Request){
		"primary": reply("{}"),
	}}
	c := newTestClient(t, backend, "", time.Second)

	require.True(t, c.Invoke(t.Context(), testMessages).OK)

	backend.mu.Lock()
	require.Len(t, backend.requests, 1)
	req := backend.requests[0]
	backend.mu.Unlock()
	require.NotNil(t, req.Stream)
	assert.False(t, *req.Stream)
	assert.JSONEq(t, `"json"`, string(req.Format))
	assert.InDelta(t, 0.5, req.Options["temperature"], 0.0001)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "User: hi", req.Messages[1].Content)
}

func TestInvokeFallsBackOnError(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{behave: map[string]func(http.ResponseWriter, *http.Request){
		"primary":  fail(http.StatusInternalServerError, "out of memory"),
		"fallback": reply("from fallback"),
	}}
	c := newTestClient(t, backend, "fallback", time.Second)

	got := c.Invoke(t.Context(), testMessages)

	require.True(t, got.OK)
	assert.Equal(t, "from fallback", got.Content)
	assert.Equal(t, "fallback", got.Model)
	assert.Equal(t, []string{"primary", "fallback"}, backend.Calls())
}

func TestInvokeFallsBackOnTimeout(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{behave: map[string]func(http.ResponseWriter, *http.Request){
		"primary":  hang,
		"fallback": reply("quick"),
	}}
	c := newTestClient(t, backend, "fallback", 100*time.Millisecond)

	got := c.Invoke(t.Context(), testMessages)

	require.True(t, got.OK)
	assert.Equal(t, "quick", got.Content)
}

func TestInvokeBothFail(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{behave: map[string]func(http.ResponseWriter, *http.Request){
		"primary":  fail(http.StatusInternalServerError, "primary broke"),
		"fallback": fail(http.StatusServiceUnavailable, "fallback broke"),
	}}
	c := newTestClient(t, backend, "fallback", time.Second)

	got := c.Invoke(t.Context(), testMessages)

	assert.False(t, got.OK)
	assert.Empty(t, got.Content)
	assert.Equal(t, "primary", got.Model)
	require.Error(t, got.Err)
	assert.Contains(t, got.Err.Error(), "primary: ")
	assert.Contains(t, got.Err.Error(), "primary broke")
	assert.Contains(t, got.Err.Error(), "; fallback: ")
	assert.Contains(t, got.Err.Error(), "fallback broke")

	var statusErr api.StatusError
	require.True(t, errors.As(got.Err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode, "primary error comes first")
}

func TestInvokeNoFallbackConfigured(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{behave: map[string]func(http.ResponseWriter, *http.Request){
		"primary": fail(http.StatusInternalServerError, "boom"),
	}}
	c := newTestClient(t, backend, "", time.Second)

	got := c.Invoke(t.Context(), testMessages)

	assert.False(t, got.OK)
	require.Error(t, got.Err)
	assert.Contains(t, got.Err.Error(), "boom")
	assert.Equal(t, []string{"primary"}, backend.Calls())
}

func TestInvokeTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(Options{BaseURL: url, Model: "primary", FallbackModel: "fallback", Timeout: time.Second})
	require.NoError(t, err)

	got := c.Invoke(t.Context(), testMessages)
	assert.False(t, got.OK)
	require.Error(t, got.Err)
	assert.Contains(t, got.Err.Error(), "fallback: ")
}

func TestInvokeSkipsFallbackWhenCallerCancelled(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{behave: map[string]func(http.ResponseWriter, *http.Request){
		"primary":  hang,
		"fallback": reply("unused"),
	}}
	c := newTestClient(t, backend, "fallback", 5*time.Second)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	got := c.Invoke(ctx, testMessages)

	assert.False(t, got.OK)
	assert.Equal(t, []string{"primary"}, backend.Calls())
}
