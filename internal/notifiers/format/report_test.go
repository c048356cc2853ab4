package format

import (
	"strings"
	"testing"
	"time"

	"infa-monitor/internal/core/check"
)

func sampleSnapshot() check.Snapshot {
	return check.Snapshot{
		TakenAt: time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC),
		Items: []check.Item{
			{Name: "PRD Integration Service", Kind: check.KindServiceState, Status: check.StatusOK},
			{Name: "wf_load_customers", Kind: check.KindWorkflowState, Status: check.StatusAlert, Detail: "run Failed"},
			{Name: "wf_load_orders", Kind: check.KindWorkflowState, Status: check.StatusOK},
			{Name: "pc-host CPU Usage", Kind: check.KindCPU, Status: check.StatusOK},
		},
	}
}

func TestSummary(t *testing.T) {
	out := Summary(sampleSnapshot())

	if !strings.Contains(out, "March 14, 2026") {
		t.Fatalf("missing date line:\n%s", out)
	}
	if !strings.Contains(out, "PRD Integration Service ✅") {
		t.Fatalf("missing service line:\n%s", out)
	}
	if !strings.Contains(out, "**Workflows Failed:** 1 / 2") {
		t.Fatalf("missing workflow count:\n%s", out)
	}
	if !strings.Contains(out, "**Host Resources Failed:** 0 / 1") {
		t.Fatalf("missing host count:\n%s", out)
	}
	if strings.Contains(out, "Sessions") {
		t.Fatalf("empty group rendered:\n%s", out)
	}
}

func TestDetails(t *testing.T) {
	out := Details(sampleSnapshot())

	if !strings.Contains(out, "📊 **Workflows:**") {
		t.Fatalf("missing workflow section:\n%s", out)
	}
	if !strings.Contains(out, "wf_load_customers | ❌") {
		t.Fatalf("missing alert row:\n%s", out)
	}
	if !strings.Contains(out, "wf_load_orders | ✅") {
		t.Fatalf("missing ok row:\n%s", out)
	}
	if strings.Contains(out, "Batch Jobs") {
		t.Fatalf("empty group rendered:\n%s", out)
	}
}

func TestAlertDetailsNamesEveryItem(t *testing.T) {
	items := []check.Item{
		{Name: "wf_load_customers", Status: check.StatusAlert, Detail: "run Failed"},
		{Name: "mdm-prd/cmx", Status: check.StatusUnknown},
	}

	out := AlertDetails(items)
	if !strings.Contains(out, "- [ALERT] wf_load_customers: run Failed") {
		t.Fatalf("missing alert bullet:\n%s", out)
	}
	if !strings.Contains(out, "- [UNKNOWN] mdm-prd/cmx") {
		t.Fatalf("missing unknown bullet:\n%s", out)
	}
}

func TestAlertNames(t *testing.T) {
	items := []check.Item{
		{Name: "a", Status: check.StatusAlert},
		{Name: "b", Status: check.StatusAlert},
	}
	names := AlertNames(items)
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected names: %v", names)
	}
}
