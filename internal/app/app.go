package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"infa-monitor/internal/collectors/host"
	"infa-monitor/internal/collectors/mdmapps"
	"infa-monitor/internal/collectors/mdmjobs"
	"infa-monitor/internal/collectors/pcrepo"
	"infa-monitor/internal/collectors/pcservice"
	"infa-monitor/internal/config"
	"infa-monitor/internal/core/check"
	"infa-monitor/internal/core/eval"
	"infa-monitor/internal/core/notify"
	"infa-monitor/internal/core/policy"
	"infa-monitor/internal/notifiers/format"
	"infa-monitor/internal/notifiers/teams"
	"infa-monitor/internal/notifiers/webhook"
	"infa-monitor/internal/recorder"
	"infa-monitor/internal/utils/logger"
)

// Run executes the monitoring pipeline. Without a schedule the pipeline runs
// exactly once and returns; with a cron schedule it reruns until the context
// is cancelled. Only configuration problems produce an error: delivery
// failures and unreachable targets are logged and the run still completes.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closeLog, err := buildLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if closeLog != nil {
		defer closeLog()
	}
	log.Infof("config loaded: %s", configPath)

	sources, err := buildSources(cfg)
	if err != nil {
		return fmt.Errorf("build sources: %w", err)
	}
	log.Infof("sources ready: %d", len(sources))

	notifiers, err := buildNotifiers(cfg)
	if err != nil {
		return fmt.Errorf("build notifiers: %w", err)
	}
	log.Infof("notifiers ready: %d", len(notifiers))

	rec := &recorder.Recorder{File: cfg.Usage.File}

	if cfg.Schedule == "" {
		runOnce(ctx, cfg, sources, notifiers, rec, nil, log)
		return nil
	}

	pol := buildPolicy(cfg)
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser))
	_, err = c.AddFunc(cfg.Schedule, func() {
		runOnce(ctx, cfg, sources, notifiers, rec, pol, log)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
	}
	log.Infof("scheduled runs: %q", cfg.Schedule)
	c.Start()
	defer c.Stop()

	<-ctx.Done()
	return nil
}

// runOnce is one collect, evaluate, record, notify pass.
func runOnce(ctx context.Context, cfg *config.Config, sources []check.Source, notifiers map[string]notify.Notifier, rec *recorder.Recorder, pol policy.Policy, log *logger.Logger) {
	snap := collect(ctx, sources, log)
	snap = eval.Evaluate(snap)

	for _, it := range snap.Items {
		logItem(log, it)
	}

	if err := rec.Record(snap); err != nil {
		log.Errorf("usage record: %v", err)
	}

	statuses := []check.Status{check.StatusAlert}
	if cfg.Notify.IncludeUnknown {
		statuses = append(statuses, check.StatusUnknown)
	}
	problems := snap.WithStatus(statuses...)
	if len(problems) == 0 {
		log.Infof("all %d checks healthy", len(snap.Items))
		// Scheduled runs still show the healthy pass to the policy so it can
		// emit recoveries; one-shot runs are done here.
		if pol == nil {
			return
		}
	}

	event := buildEvent(snap, problems)
	if pol != nil {
		filtered, err := pol.Evaluate(ctx, event)
		if err != nil || filtered == nil {
			return
		}
		event = *filtered
	}
	dispatch(ctx, cfg, event, notifiers, log)
}

// collect walks the sources in order; a failing source degrades to its own
// UNKNOWN items and never stops the pass.
func collect(ctx context.Context, sources []check.Source, log *logger.Logger) check.Snapshot {
	snap := check.Snapshot{TakenAt: time.Now()}
	for _, src := range sources {
		if ctx.Err() != nil {
			break
		}
		items, err := src.Collect(ctx)
		if err != nil {
			log.Warnf("source %s degraded: %v", src.Name(), err)
		}
		snap.Items = append(snap.Items, items...)
	}
	return snap
}

func buildEvent(snap check.Snapshot, problems []check.Item) notify.Event {
	status := check.StatusOK
	summary := format.Summary(snap)
	if len(problems) > 0 {
		status = check.StatusUnknown
		if anyWithStatus(problems, check.StatusAlert) {
			status = check.StatusAlert
		}
		summary = summary + "\n\n" + format.AlertDetails(problems)
	}
	return notify.Event{
		Service:    "infa-monitor",
		Status:     string(status),
		Summary:    summary,
		Details:    format.Details(snap),
		AlertNames: format.AlertNames(problems),
		OccurredAt: snap.TakenAt,
	}
}

func anyWithStatus(items []check.Item, st check.Status) bool {
	for _, it := range items {
		if it.Status == st {
			return true
		}
	}
	return false
}

func dispatch(ctx context.Context, cfg *config.Config, event notify.Event, notifiers map[string]notify.Notifier, log *logger.Logger) {
	for _, name := range routedChannels(cfg, event) {
		n, ok := notifiers[name]
		if !ok {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		if err := n.Send(ctx, event); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			log.Errorf("notify %s: %v", name, err)
			continue
		}
		log.Infof("notify %s: %s (%d problems)", name, event.Status, len(event.AlertNames))
	}
}

// routedChannels resolves the route table; with no routes configured every
// channel receives the event.
func routedChannels(cfg *config.Config, event notify.Event) []string {
	if len(cfg.Routes) == 0 {
		names := make([]string, 0, len(cfg.Channels))
		for _, ch := range cfg.Channels {
			names = append(names, ch.Name)
		}
		return names
	}

	var names []string
	seen := make(map[string]bool)
	for _, route := range cfg.Routes {
		if !matchRoute(route.Match, event) {
			continue
		}
		for _, name := range route.To {
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func matchRoute(match config.RouteMatch, event notify.Event) bool {
	if match.Name != "" && match.Name != event.Service {
		return false
	}
	if match.Status != "" && match.Status != event.Status {
		return false
	}
	return true
}

func buildSources(cfg *config.Config) ([]check.Source, error) {
	var sources []check.Source
	for i, s := range cfg.Sources {
		switch s.Type {
		case "pc_service":
			sources = append(sources, &pcservice.Source{
				NameValue: s.Name,
				Command:   s.Command,
				Timeout:   s.Timeout,
			})
		case "pc_repository":
			sources = append(sources, &pcrepo.Source{
				NameValue: s.Name,
				DSN:       s.DSN,
				Folder:    s.Folder,
				Window:    s.Window,
				Tolerate:  s.Tolerate,
			})
		case "mdm_apps":
			sources = append(sources, &mdmapps.Source{
				NameValue:  s.Name,
				URL:        s.URL,
				Username:   s.Username,
				Password:   s.Password,
				Timeout:    s.Timeout,
				SkipVerify: s.SkipVerify,
			})
		case "mdm_jobs":
			sources = append(sources, &mdmjobs.Source{
				NameValue: s.Name,
				DSN:       s.DSN,
				Groups:    s.Groups,
				Window:    s.Window,
			})
		case "host":
			sources = append(sources, &host.Source{
				NameValue:       s.Name,
				CPUThreshold:    s.CPUThreshold,
				MemoryThreshold: s.MemoryThreshold,
				DiskFreePercent: s.DiskFreePercent,
				Paths:           s.Paths,
			})
		default:
			return nil, fmt.Errorf("unknown source type at index %d (name=%q): %q", i, s.Name, s.Type)
		}
	}
	return sources, nil
}

func buildNotifiers(cfg *config.Config) (map[string]notify.Notifier, error) {
	notifiers := make(map[string]notify.Notifier)
	for i, c := range cfg.Channels {
		switch c.Type {
		case "teams":
			notifiers[c.Name] = &teams.Notifier{
				NameValue: c.Name,
				URL:       c.URL,
				Timeout:   c.Timeout,
				Detailed:  c.Detailed,
			}
		case "webhook":
			notifiers[c.Name] = &webhook.Notifier{
				NameValue: c.Name,
				URL:       c.URL,
				Timeout:   c.Timeout,
			}
		default:
			return nil, fmt.Errorf("unknown channel type at index %d (name=%q): %q", i, c.Name, c.Type)
		}
	}
	return notifiers, nil
}

func buildPolicy(cfg *config.Config) *policy.SimplePolicy {
	var polCfg config.PolicyConfig
	if len(cfg.Policies) > 0 {
		polCfg = cfg.Policies[0]
	}
	return policy.NewSimplePolicy(polCfg.Cooldown, polCfg.NotifyOnRecovery)
}

func buildLogger(cfg config.LogConfig) (*logger.Logger, func(), error) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}

	if cfg.File == "" {
		return logger.New(logger.Config{Level: cfg.Level, Format: cfg.Format}), nil, nil
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		_ = file.Close()
	}
	return logger.New(logger.Config{Level: cfg.Level, Format: cfg.Format, Output: file}), closeFn, nil
}

func logItem(log *logger.Logger, it check.Item) {
	switch it.Status {
	case check.StatusAlert:
		log.Errorf("check %s [%s]: %s", it.Name, it.Kind, it.Detail)
	case check.StatusUnknown:
		log.Warnf("check %s [%s]: %s", it.Name, it.Kind, it.Detail)
	default:
		log.Debugf("check %s [%s]: %s", it.Name, it.Kind, it.Detail)
	}
}
