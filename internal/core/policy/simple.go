package policy

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"infa-monitor/internal/core/notify"
)

// SimplePolicy suppresses repeat notifications for scheduled runs. State is
// kept per alerting item: an item stays quiet while its cooldown lasts, and
// items that return to OK produce one recovery notification when
// NotifyOnRecovery is set. One-shot runs skip the policy entirely since
// every invocation is independent.
type SimplePolicy struct {
	Cooldown         time.Duration
	NotifyOnRecovery bool

	mu           sync.Mutex
	alerting     map[string]bool
	lastNotified map[string]time.Time
}

func NewSimplePolicy(cooldown time.Duration, notifyOnRecovery bool) *SimplePolicy {
	return &SimplePolicy{
		Cooldown:         cooldown,
		NotifyOnRecovery: notifyOnRecovery,
		alerting:         make(map[string]bool),
		lastNotified:     make(map[string]time.Time),
	}
}

func (p *SimplePolicy) Evaluate(ctx context.Context, event notify.Event) (*notify.Event, error) {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(event.AlertNames) == 0 {
		recovered := p.drainAlerting()
		if len(recovered) == 0 || !p.NotifyOnRecovery {
			return nil, nil
		}
		out := event
		out.Summary = fmt.Sprintf("Recovered: %s", strings.Join(recovered, ", "))
		out.AlertNames = recovered
		return &out, nil
	}

	now := time.Now()
	fresh := false
	current := make(map[string]bool, len(event.AlertNames))
	for _, name := range event.AlertNames {
		current[name] = true
		last, seen := p.lastNotified[name]
		if p.Cooldown > 0 && seen && now.Sub(last) < p.Cooldown {
			continue
		}
		fresh = true
	}
	// Items that dropped out of the alert set are no longer tracked; a full
	// recovery is announced only once everything is healthy.
	p.alerting = current
	if !fresh {
		return nil, nil
	}
	for _, name := range event.AlertNames {
		p.lastNotified[name] = now
	}
	return &event, nil
}

func (p *SimplePolicy) drainAlerting() []string {
	names := make([]string, 0, len(p.alerting))
	for name := range p.alerting {
		names = append(names, name)
		delete(p.lastNotified, name)
	}
	sort.Strings(names)
	p.alerting = make(map[string]bool)
	return names
}
