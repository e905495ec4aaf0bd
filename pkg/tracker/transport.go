package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Transport delivers a batch of events to the ingestion endpoint.
// Implementations must be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, events []Event) error
}

// HTTPTransport posts batches as JSON to a beacon track endpoint.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
}

// NewHTTPTransport creates a transport targeting the given track endpoint URL.
func NewHTTPTransport(endpoint string) *HTTPTransport {
	return &HTTPTransport{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *HTTPTransport) Send(ctx context.Context, events []Event) error {
	payload, err := json.Marshal(map[string]any{"events": events})
	if err != nil {
		return fmt.Errorf("failed to marshal event batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build track request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("track request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("track endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
