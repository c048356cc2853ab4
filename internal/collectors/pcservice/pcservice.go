package pcservice

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"infa-monitor/internal/core/check"
)

// AliveMarker is printed by pmcmd pingservice when the Integration Service
// responds.
const AliveMarker = "Integration Service is alive"

const (
	StateAlive = "alive"
	StateDown  = "down"
)

// Source probes one PowerCenter environment by running its pmcmd wrapper
// script and scanning the output for the liveness marker.
type Source struct {
	NameValue string
	Command   string
	Timeout   time.Duration
}

func (s *Source) Name() string {
	return s.NameValue
}

func (s *Source) Collect(ctx context.Context) ([]check.Item, error) {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := runShell(cctx, s.Command)
	now := time.Now()
	if err != nil && out == "" {
		return []check.Item{{
			Name:      s.NameValue,
			Kind:      check.KindServiceState,
			Status:    check.StatusUnknown,
			Detail:    fmt.Sprintf("pmcmd probe failed: %v", err),
			CheckedAt: now,
		}}, err
	}

	state := StateDown
	if strings.Contains(out, AliveMarker) {
		state = StateAlive
	}
	return []check.Item{{
		Name:      s.NameValue,
		Kind:      check.KindServiceState,
		State:     state,
		Healthy:   []string{StateAlive},
		Detail:    fmt.Sprintf("integration service %s", state),
		CheckedAt: now,
	}}, nil
}

func runShell(ctx context.Context, command string) (string, error) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/c", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	out, err := cmd.CombinedOutput()
	return string(out), err
}
