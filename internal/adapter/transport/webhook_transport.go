// Package transport adapts outbound HTTP delivery to ports.WebhookTransport.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// HTTPWebhookTransport delivers webhook notifications over plain
// net/http. It is the only concrete implementation of
// ports.WebhookTransport; kept deliberately thin since the retry
// policy and delivery bookkeeping live in internal/webhook.Engine.
type HTTPWebhookTransport struct {
	client *http.Client
}

// NewHTTPWebhookTransport creates a transport backed by a dedicated
// http.Client. The client has no per-request timeout of its own —
// every call supplies its own deadline via ctx/timeout, since retry
// budgets differ per notification type.
func NewHTTPWebhookTransport() *HTTPWebhookTransport {
	return &HTTPWebhookTransport{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Deliver is ports.WebhookTransport. It POSTs body to endpoint with
// the given headers, enforcing timeout via a derived context.
func (t *HTTPWebhookTransport) Deliver(ctx context.Context, endpoint string, headers map[string]string, body []byte, timeout time.Duration) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return resp.StatusCode, nil, err
	}

	return resp.StatusCode, respBody, nil
}
