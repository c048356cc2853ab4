package check

import (
	"context"
	"time"
)

type Status string

const (
	StatusOK      Status = "OK"
	StatusAlert   Status = "ALERT"
	StatusUnknown Status = "UNKNOWN"
)

// Kind identifies what a collected item measures. Numeric kinds carry a
// Value/Threshold pair, state kinds carry a State and a healthy-state set.
type Kind string

const (
	KindServiceState  Kind = "service_state"
	KindWorkflowState Kind = "workflow_state"
	KindSessionState  Kind = "session_state"
	KindAppState      Kind = "app_state"
	KindBatchJob      Kind = "batch_job"
	KindCPU           Kind = "cpu"
	KindMemory        Kind = "memory"
	KindDisk          Kind = "disk"
)

func (k Kind) Numeric() bool {
	switch k {
	case KindCPU, KindMemory, KindDisk:
		return true
	}
	return false
}

// AlertBelow reports whether a numeric kind alerts when the value drops
// below its threshold. Disk tracks free space; CPU and memory track usage.
func (k Kind) AlertBelow() bool {
	return k == KindDisk
}

type Item struct {
	Name      string
	Kind      Kind
	Value     float64
	Threshold float64
	State     string
	Healthy   []string
	Status    Status
	Detail    string
	CheckedAt time.Time
}

// Snapshot is the complete result of one collection pass. Items are in
// collection order and the snapshot is not mutated after evaluation returns
// a new one.
type Snapshot struct {
	TakenAt time.Time
	Items   []Item
}

func (s Snapshot) WithStatus(statuses ...Status) []Item {
	var out []Item
	for _, it := range s.Items {
		for _, st := range statuses {
			if it.Status == st {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Source is one monitored target kind. A source that cannot reach its target
// reports that through UNKNOWN items (or a non-nil error with no items);
// collection of the other sources carries on regardless.
type Source interface {
	Name() string
	Collect(ctx context.Context) ([]Item, error)
}
