package wagateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Endpoint is a tenant-scoped gateway address. Every tenant runs its own
// messaging line with its own API URL and token.
type Endpoint struct {
	APIURL string
	Token  string
}

// Sender pushes a text message to an employee's phone through the tenant's
// messaging gateway. Delivery is fire-and-forget; the caller logs failures
// and owns no retry.
type Sender interface {
	Send(ctx context.Context, ep Endpoint, targetPhone, text string) error
}

type client struct {
	httpClient *http.Client
}

func NewClient() Sender {
	return &client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type sendRequest struct {
	Target  string `json:"target"`
	Message string `json:"message"`
}

func (c *client) Send(ctx context.Context, ep Endpoint, targetPhone, text string) error {
	if ep.APIURL == "" {
		return fmt.Errorf("gateway endpoint is not configured")
	}

	body, err := json.Marshal(sendRequest{Target: targetPhone, Message: text})
	if err != nil {
		return fmt.Errorf("marshal gateway payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if ep.Token != "" {
		req.Header.Set("Authorization", ep.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway request: unexpected status %d", resp.StatusCode)
	}

	return nil
}
