package format

import (
	"fmt"
	"strings"

	"infa-monitor/internal/core/check"
)

func Icon(st check.Status) string {
	switch st {
	case check.StatusOK:
		return "✅"
	case check.StatusAlert:
		return "❌"
	default:
		return "❓"
	}
}

type section struct {
	kinds  []check.Kind
	title  string
	header string
}

var sections = []section{
	{[]check.Kind{check.KindServiceState}, "Services", "Service | Status"},
	{[]check.Kind{check.KindWorkflowState}, "Workflows", "Workflow Name | Status"},
	{[]check.Kind{check.KindSessionState}, "Sessions", "Session Name | Status"},
	{[]check.Kind{check.KindAppState}, "Applications", "Deployment | Status"},
	{[]check.Kind{check.KindBatchJob}, "Batch Jobs", "Job Name | Status"},
	{[]check.Kind{check.KindCPU, check.KindMemory, check.KindDisk}, "Host Resources", "Metric | Status"},
}

// Summary renders the short chat message: service status lines plus a
// failed/total count per group that has items.
func Summary(snap check.Snapshot) string {
	var b strings.Builder
	b.WriteString(snap.TakenAt.Format("January 2, 2006"))
	b.WriteString("\n\n**🔍 Monitoring Summary**\n")

	services := itemsOfKinds(snap, check.KindServiceState)
	if len(services) > 0 {
		b.WriteString("\n**Service Status:**\n")
		for _, it := range services {
			fmt.Fprintf(&b, "%s %s\n", it.Name, Icon(it.Status))
		}
	}

	for _, sec := range sections {
		if sec.kinds[0] == check.KindServiceState {
			continue
		}
		items := itemsOfKinds(snap, sec.kinds...)
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n**%s Failed:** %d / %d\n", sec.title, countUnhealthy(items), len(items))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Details renders the full report: one fenced table per group, every item
// listed with its status icon.
func Details(snap check.Snapshot) string {
	var parts []string
	for _, sec := range sections {
		items := itemsOfKinds(snap, sec.kinds...)
		if len(items) == 0 {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "📊 **%s:**\n```\n%s\n", sec.title, sec.header)
		b.WriteString(strings.Repeat("-", len(sec.header)+2))
		b.WriteString("\n")
		for _, it := range items {
			fmt.Fprintf(&b, "%s | %s\n", it.Name, Icon(it.Status))
		}
		b.WriteString("```")
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n")
}

// AlertDetails lists the detail line of every alerting item, one bullet per
// item, for channels that only want the problems.
func AlertDetails(items []check.Item) string {
	var lines []string
	for _, it := range items {
		line := fmt.Sprintf("- [%s] %s", it.Status, it.Name)
		if it.Detail != "" {
			line = fmt.Sprintf("%s: %s", line, it.Detail)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func AlertNames(items []check.Item) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

func itemsOfKinds(snap check.Snapshot, kinds ...check.Kind) []check.Item {
	var out []check.Item
	for _, it := range snap.Items {
		for _, k := range kinds {
			if it.Kind == k {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

func countUnhealthy(items []check.Item) int {
	n := 0
	for _, it := range items {
		if it.Status != check.StatusOK {
			n++
		}
	}
	return n
}
