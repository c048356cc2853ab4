package pcrepo

import (
	"testing"
	"time"
)

func TestRunStatus(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{1, "Succeeded"},
		{3, "Failed"},
		{5, "Aborted"},
		{6, "Running"},
		{15, "Terminated"},
		{99, "Unknown"},
	}
	for _, c := range cases {
		if got := RunStatus(c.code); got != c.want {
			t.Fatalf("RunStatus(%d) = %s, want %s", c.code, got, c.want)
		}
	}
}

func TestReportingWindowDefault(t *testing.T) {
	now := time.Date(2026, 3, 14, 6, 30, 0, 0, time.UTC)
	start, end := ReportingWindow(now, 0)

	if !end.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end: %s", end)
	}
	if !start.Equal(time.Date(2026, 3, 13, 22, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %s", start)
	}
}

func TestReportingWindowCustom(t *testing.T) {
	now := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	start, end := ReportingWindow(now, 6*time.Hour)

	if !end.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end: %s", end)
	}
	if end.Sub(start) != 6*time.Hour {
		t.Fatalf("unexpected window length: %s", end.Sub(start))
	}
}

func TestHealthyStates(t *testing.T) {
	s := &Source{Tolerate: []string{"Running", "Stopped"}}
	got := s.healthyStates()
	want := []string{"Succeeded", "Running", "Stopped"}
	if len(got) != len(want) {
		t.Fatalf("unexpected states: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected states: %v", got)
		}
	}
}
