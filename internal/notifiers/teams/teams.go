package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"infa-monitor/internal/core/notify"
)

// Notifier posts to a Microsoft Teams incoming webhook. Detailed channels
// get the full report appended below the summary; plain channels only see
// the summary plus the alert list.
type Notifier struct {
	NameValue string
	URL       string
	Timeout   time.Duration
	Detailed  bool
}

type payload struct {
	Text string `json:"text"`
}

func (n *Notifier) Name() string {
	return n.NameValue
}

func (n *Notifier) Send(ctx context.Context, event notify.Event) error {
	text := event.Summary
	if n.Detailed && event.Details != "" {
		text = text + "\n\n" + event.Details
	}
	body, err := json.Marshal(payload{Text: text})
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

	// Teams counts anything outside 2xx as a failed delivery.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("teams status %d", resp.StatusCode)
	}
	return nil
}
