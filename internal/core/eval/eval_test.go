package eval

import (
	"strings"
	"testing"
	"time"

	"infa-monitor/internal/core/check"
)

func TestEvaluateDiskBelowThreshold(t *testing.T) {
	snap := check.Snapshot{TakenAt: time.Now(), Items: []check.Item{
		{Name: "pc-host /data Free Space", Kind: check.KindDisk, Value: 5, Threshold: 10},
	}}

	out := Evaluate(snap)
	if out.Items[0].Status != check.StatusAlert {
		t.Fatalf("unexpected status: %s", out.Items[0].Status)
	}
	if !strings.Contains(out.Items[0].Detail, "disk") {
		t.Fatalf("expected disk in detail, got: %q", out.Items[0].Detail)
	}
}

func TestEvaluateDiskAboveThreshold(t *testing.T) {
	snap := check.Snapshot{Items: []check.Item{
		{Name: "d", Kind: check.KindDisk, Value: 40, Threshold: 15},
	}}
	if out := Evaluate(snap); out.Items[0].Status != check.StatusOK {
		t.Fatalf("unexpected status: %s", out.Items[0].Status)
	}
}

func TestEvaluateCPUDirection(t *testing.T) {
	snap := check.Snapshot{Items: []check.Item{
		{Name: "cpu-high", Kind: check.KindCPU, Value: 92, Threshold: 85},
		{Name: "cpu-ok", Kind: check.KindCPU, Value: 40, Threshold: 85},
		{Name: "mem-high", Kind: check.KindMemory, Value: 90, Threshold: 85},
	}}

	out := Evaluate(snap)
	want := []check.Status{check.StatusAlert, check.StatusOK, check.StatusAlert}
	for i, st := range want {
		if out.Items[i].Status != st {
			t.Fatalf("item %d: got %s, want %s", i, out.Items[i].Status, st)
		}
	}
}

func TestEvaluateStateMatch(t *testing.T) {
	snap := check.Snapshot{Items: []check.Item{
		{Name: "svc", Kind: check.KindServiceState, State: "running", Healthy: []string{"Running"}},
		{Name: "wf", Kind: check.KindWorkflowState, State: "Failed", Healthy: []string{"Succeeded"}},
		{Name: "job", Kind: check.KindBatchJob, State: "Completed", Healthy: []string{"Completed"}},
	}}

	out := Evaluate(snap)
	if out.Items[0].Status != check.StatusOK {
		t.Fatalf("case-insensitive match failed: %s", out.Items[0].Status)
	}
	if out.Items[1].Status != check.StatusAlert {
		t.Fatalf("failed workflow not alerted: %s", out.Items[1].Status)
	}
	if out.Items[2].Status != check.StatusOK {
		t.Fatalf("completed job not ok: %s", out.Items[2].Status)
	}
}

func TestEvaluateUnknownPassthrough(t *testing.T) {
	snap := check.Snapshot{Items: []check.Item{
		{Name: "down", Kind: check.KindAppState, Status: check.StatusUnknown, Detail: "unreachable"},
		{Name: "up", Kind: check.KindAppState, State: "OK", Healthy: []string{"OK"}},
	}}

	out := Evaluate(snap)
	if out.Items[0].Status != check.StatusUnknown {
		t.Fatalf("unknown overwritten: %s", out.Items[0].Status)
	}
	if out.Items[0].Detail != "unreachable" {
		t.Fatalf("unknown detail changed: %q", out.Items[0].Detail)
	}
	if out.Items[1].Status != check.StatusOK {
		t.Fatalf("sibling item affected: %s", out.Items[1].Status)
	}
}

func TestEvaluateEmptyState(t *testing.T) {
	snap := check.Snapshot{Items: []check.Item{
		{Name: "blank", Kind: check.KindSessionState, Healthy: []string{"Succeeded"}},
	}}
	if out := Evaluate(snap); out.Items[0].Status != check.StatusUnknown {
		t.Fatalf("empty state should be unknown, got %s", out.Items[0].Status)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	snap := check.Snapshot{Items: []check.Item{
		{Name: "cpu", Kind: check.KindCPU, Value: 92, Threshold: 85},
	}}

	first := Evaluate(snap)
	second := Evaluate(snap)
	if first.Items[0].Status != second.Items[0].Status || first.Items[0].Detail != second.Items[0].Detail {
		t.Fatalf("evaluation not deterministic")
	}
	if snap.Items[0].Status != "" {
		t.Fatalf("input snapshot mutated: %s", snap.Items[0].Status)
	}
}
