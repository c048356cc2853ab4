//go:build !windows

package pcservice

import (
	"context"
	"testing"

	"infa-monitor/internal/core/check"
)

func TestCollectAlive(t *testing.T) {
	s := &Source{NameValue: "PRD Integration Service", Command: "echo '" + AliveMarker + "'"}

	items, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].State != StateAlive {
		t.Fatalf("unexpected state: %s", items[0].State)
	}
	if items[0].Kind != check.KindServiceState {
		t.Fatalf("unexpected kind: %s", items[0].Kind)
	}
}

func TestCollectDown(t *testing.T) {
	s := &Source{NameValue: "PRD Integration Service", Command: "echo 'Integration Service could not be contacted'"}

	items, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if items[0].State != StateDown {
		t.Fatalf("unexpected state: %s", items[0].State)
	}
}

func TestCollectCommandFails(t *testing.T) {
	s := &Source{NameValue: "PRD Integration Service", Command: "exit 3"}

	items, err := s.Collect(context.Background())
	if err == nil {
		t.Fatal("expected error from failing command")
	}
	if len(items) != 1 || items[0].Status != check.StatusUnknown {
		t.Fatalf("expected single unknown item, got %+v", items)
	}
}

func TestCollectFailsWithOutput(t *testing.T) {
	// pmcmd exits non-zero on some probes but still prints the marker.
	s := &Source{NameValue: "PRD Integration Service", Command: "echo '" + AliveMarker + "'; exit 1"}

	items, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if items[0].State != StateAlive {
		t.Fatalf("unexpected state: %s", items[0].State)
	}
}
