package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"infa-monitor/internal/core/notify"
)

// Notifier posts the raw event as JSON, for consumers that do their own
// formatting.
type Notifier struct {
	NameValue string
	URL       string
	Timeout   time.Duration
}

type payload struct {
	Service    string   `json:"service"`
	Status     string   `json:"status"`
	Summary    string   `json:"summary"`
	Details    string   `json:"details,omitempty"`
	AlertNames []string `json:"alert_names,omitempty"`
	OccurredAt string   `json:"occurred_at"`
}

func (n *Notifier) Name() string {
	return n.NameValue
}

func (n *Notifier) Send(ctx context.Context, event notify.Event) error {
	body, err := json.Marshal(payload{
		Service:    event.Service,
		Status:     event.Status,
		Summary:    event.Summary,
		Details:    event.Details,
		AlertNames: event.AlertNames,
		OccurredAt: event.OccurredAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	timeout := n.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
