package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultEndpoint = "https://fcm.googleapis.com/fcm/send"

// Notification is a push payload delivered to devices.
type Notification struct {
	Title string
	Body  string
}

// Client exposes push broadcast operations. A client without a configured
// server key reports Enabled() == false and broadcasts are silent no-ops.
type Client interface {
	Broadcast(ctx context.Context, tokens []string, n Notification) error
	Enabled() bool
}

// HTTPClient implements Client via the FCM legacy HTTP API.
type HTTPClient struct {
	endpoint   string
	serverKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

// request mirrors the JSON payload of the legacy send endpoint.
type request struct {
	RegistrationIDs []string          `json:"registration_ids"`
	Data            map[string]string `json:"data"`
	TimeToLive      int               `json:"time_to_live"`
}

// NewHTTPClient creates FCM client with default timeout. An empty serverKey
// yields a disabled client.
func NewHTTPClient(serverKey string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		endpoint:  defaultEndpoint,
		serverKey: serverKey,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether a server key is configured.
func (c *HTTPClient) Enabled() bool {
	return c.serverKey != ""
}

// Broadcast sends one push message to the given device tokens. Callers are
// responsible for keeping len(tokens) within the endpoint's 1000-token limit.
func (c *HTTPClient) Broadcast(ctx context.Context, tokens []string, n Notification) error {
	if !c.Enabled() || len(tokens) == 0 {
		return nil
	}

	payload, err := json.Marshal(request{
		RegistrationIDs: tokens,
		Data: map[string]string{
			"title":   n.Title,
			"content": n.Body,
		},
		TimeToLive: 0,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("fcm broadcast failed",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return fmt.Errorf("fcm error: %s", resp.Status)
	}
	return nil
}
