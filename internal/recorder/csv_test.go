package recorder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"infa-monitor/internal/core/check"
)

func sampleSnapshot() check.Snapshot {
	return check.Snapshot{
		TakenAt: time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC),
		Items: []check.Item{
			{Name: "pc-host CPU Usage", Kind: check.KindCPU, Value: 42.5, Threshold: 85, Status: check.StatusOK},
			{Name: "pc-host / Free Space", Kind: check.KindDisk, Value: 8.25, Threshold: 15, Status: check.StatusAlert},
			{Name: "pc-host Memory Usage", Kind: check.KindMemory, Status: check.StatusUnknown},
			{Name: "wf_load_customers", Kind: check.KindWorkflowState, Status: check.StatusAlert},
		},
	}
}

func TestRecord(t *testing.T) {
	file := filepath.Join(t.TempDir(), "usage.csv")
	r := &Recorder{File: file}

	if err := r.Record(sampleSnapshot()); err != nil {
		t.Fatalf("record: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), data)
	}
	if lines[0] != "Timestamp|Metric|Value|Threshold" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[1] != "2026.03.14 06:00:00|pc-host CPU Usage|42.50|85.00" {
		t.Fatalf("unexpected row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "pc-host / Free Space|8.25|15.00") {
		t.Fatalf("unexpected row: %s", lines[2])
	}
}

func TestRecordAppendsWithoutSecondHeader(t *testing.T) {
	file := filepath.Join(t.TempDir(), "usage.csv")
	r := &Recorder{File: file}

	if err := r.Record(sampleSnapshot()); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := r.Record(sampleSnapshot()); err != nil {
		t.Fatalf("second record: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n := strings.Count(string(data), "Timestamp|"); n != 1 {
		t.Fatalf("header written %d times", n)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines after append, got %d", len(lines))
	}
}

func TestRecordNoFileConfigured(t *testing.T) {
	r := &Recorder{}
	if err := r.Record(sampleSnapshot()); err != nil {
		t.Fatalf("record without file should be a no-op, got %v", err)
	}
}
