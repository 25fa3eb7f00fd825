package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ExpoClient sends push messages through the hosted Expo relay. The
// endpoint is public; no credential is required. One call submits the whole
// batch and the response carries a per-message outcome ticket.
type ExpoClient struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewExpoClient creates a relay client. An empty endpoint falls back to the
// public Expo push URL.
func NewExpoClient(endpoint string, timeout time.Duration, logger *slog.Logger) *ExpoClient {
	if endpoint == "" {
		endpoint = "https://exp.host/--/api/v2/push/send"
	}
	if timeout <= 0 {
		timeout = defaultTransportTimeout
	}
	return &ExpoClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type expoMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

type expoResponse struct {
	Data []struct {
		Status  string `json:"status"` // "ok" | "error"
		Message string `json:"message,omitempty"`
	} `json:"data"`
}

// SendBatch submits one message per token in a single request and counts
// outcomes from the per-message tickets. Tokens whose ticket is missing or
// not "ok" count as failures, so success+failed always equals len(tokens).
func (c *ExpoClient) SendBatch(ctx context.Context, tokens []string, title, body string, data map[string]string) (success, failed int, err error) {
	if data == nil {
		data = map[string]string{}
	}
	messages := make([]expoMessage, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, expoMessage{
			To:    token,
			Sound: "default",
			Title: title,
			Body:  body,
			Data:  data,
		})
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return 0, 0, fmt.Errorf("expo: marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, 0, fmt.Errorf("expo: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("expo: send batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, 0, fmt.Errorf("expo: received status %d", resp.StatusCode)
	}

	var result expoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, 0, fmt.Errorf("expo: decode response: %w", err)
	}

	for _, ticket := range result.Data {
		if ticket.Status == "ok" {
			success++
		} else if ticket.Message != "" {
			c.logger.Warn("expo ticket error", "message", ticket.Message)
		}
	}
	failed = len(tokens) - success
	return success, failed, nil
}
