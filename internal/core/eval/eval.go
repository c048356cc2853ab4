package eval

import (
	"fmt"
	"strings"

	"infa-monitor/internal/core/check"
)

// Evaluate assigns a status to every item of the snapshot and returns the
// evaluated copy. It is a pure function: no I/O, no clock reads, and the same
// snapshot always evaluates to the same statuses. Items already marked
// UNKNOWN by their source pass through untouched.
func Evaluate(snap check.Snapshot) check.Snapshot {
	out := check.Snapshot{TakenAt: snap.TakenAt, Items: make([]check.Item, len(snap.Items))}
	for i, it := range snap.Items {
		out.Items[i] = evaluateItem(it)
	}
	return out
}

func evaluateItem(it check.Item) check.Item {
	if it.Status == check.StatusUnknown {
		return it
	}

	if it.Kind.Numeric() {
		it.Status = numericStatus(it)
		if it.Status == check.StatusAlert && it.Detail == "" {
			it.Detail = numericDetail(it)
		}
		return it
	}

	it.Status = stateStatus(it)
	if it.Status == check.StatusAlert && it.Detail == "" {
		it.Detail = fmt.Sprintf("state %q, expected %s", it.State, strings.Join(it.Healthy, "/"))
	}
	return it
}

func numericStatus(it check.Item) check.Status {
	if it.Kind.AlertBelow() {
		if it.Value < it.Threshold {
			return check.StatusAlert
		}
		return check.StatusOK
	}
	if it.Value > it.Threshold {
		return check.StatusAlert
	}
	return check.StatusOK
}

func numericDetail(it check.Item) string {
	word := map[check.Kind]string{
		check.KindCPU:    "cpu",
		check.KindMemory: "memory",
		check.KindDisk:   "disk free",
	}[it.Kind]
	if it.Kind.AlertBelow() {
		return fmt.Sprintf("%s at %.1f%%, below threshold %.1f%%", word, it.Value, it.Threshold)
	}
	return fmt.Sprintf("%s at %.1f%%, above threshold %.1f%%", word, it.Value, it.Threshold)
}

func stateStatus(it check.Item) check.Status {
	if it.State == "" {
		return check.StatusUnknown
	}
	for _, h := range it.Healthy {
		if strings.EqualFold(it.State, h) {
			return check.StatusOK
		}
	}
	return check.StatusAlert
}
