package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/janmyrvold/fieldmap/internal/domain"
)

// HTTPDeliverer posts queued mutations to a remote sync endpoint as JSON.
// Any non-2xx response counts as a failed delivery attempt.
type HTTPDeliverer struct {
	endpoint string
	client   *http.Client
}

func NewHTTPDeliverer(endpoint string) *HTTPDeliverer {
	return &HTTPDeliverer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// syncEnvelope is the wire shape of one delivered mutation.
type syncEnvelope struct {
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Operation  string          `json:"operation"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	QueuedAt   time.Time       `json:"queuedAt"`
}

func (d *HTTPDeliverer) Deliver(ctx context.Context, item *domain.SyncQueueItem) error {
	body, err := json.Marshal(syncEnvelope{
		EntityType: item.EntityType,
		EntityID:   item.EntityID,
		Operation:  string(item.Operation),
		Payload:    item.Payload,
		QueuedAt:   item.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encoding sync envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting sync item: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("sync endpoint returned %d: %s", resp.StatusCode, snippet)
	}
	return nil
}
