package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"infa-monitor/internal/core/notify"
)

func TestSend(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}))
	defer srv.Close()

	occurred := time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)
	n := &Notifier{NameValue: "hook", URL: srv.URL}
	err := n.Send(context.Background(), notify.Event{
		Service:    "infa-monitor",
		Status:     "ALERT",
		Summary:    "summary",
		AlertNames: []string{"wf_load_customers"},
		OccurredAt: occurred,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if got.Service != "infa-monitor" || got.Status != "ALERT" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if len(got.AlertNames) != 1 || got.AlertNames[0] != "wf_load_customers" {
		t.Fatalf("unexpected alert names: %v", got.AlertNames)
	}
	if got.OccurredAt != "2026-03-14T06:00:00Z" {
		t.Fatalf("unexpected timestamp: %s", got.OccurredAt)
	}
}

func TestSendNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := &Notifier{NameValue: "hook", URL: srv.URL}
	if err := n.Send(context.Background(), notify.Event{Service: "x"}); err == nil {
		t.Fatal("expected error for 502 response")
	}
}
