// Package push relays announcements to the app's FCM topic.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Brian-C69/calm-campus/internal/config"
)

var (
	// ErrDisabled is returned when no FCM server key is configured.
	ErrDisabled = errors.New("push relay disabled: FCM_SERVER_KEY not set")

	// ErrInvalidAnnouncement wraps announcement validation failures.
	ErrInvalidAnnouncement = errors.New("invalid announcement")
)

// maxErrorBody bounds how much of an FCM error body is kept.
const maxErrorBody = 1024

// Sender delivers a notification to a topic.
type Sender interface {
	Send(ctx context.Context, topic, title, body string) error
}

// FCMClient posts to the legacy FCM HTTP endpoint.
type FCMClient struct {
	serverKey  string
	endpoint   string
	httpClient *http.Client
}

// NewFCMClient returns ErrDisabled when cfg carries no server key.
func NewFCMClient(cfg config.PushConfig, httpClient *http.Client) (*FCMClient, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &FCMClient{
		serverKey:  cfg.ServerKey,
		endpoint:   cfg.Endpoint,
		httpClient: httpClient,
	}, nil
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmMessage struct {
	To           string          `json:"to"`
	Notification fcmNotification `json:"notification"`
}

// Send broadcasts one notification. A non-2xx reply is returned as an error
// carrying the provider's response text.
func (c *FCMClient) Send(ctx context.Context, topic, title, body string) error {
	payload, err := json.Marshal(fcmMessage{
		To:           "/topics/" + topic,
		Notification: fcmNotification{Title: title, Body: body},
	})
	if err != nil {
		return fmt.Errorf("marshal fcm message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build fcm request: %w", err)
	}
	req.Header.Set("Authorization", "key="+c.serverKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send fcm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(text))
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("fcm rejected announcement (status %d): %s", resp.StatusCode, msg)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
