package host

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"infa-monitor/internal/core/check"
)

// Default thresholds match the ones the reporting dashboard draws: CPU and
// memory alert above 85% used, disks alert below 15% free.
const (
	DefaultCPUThreshold    = 85.0
	DefaultMemoryThreshold = 85.0
	DefaultDiskFreePercent = 15.0
)

// Source samples CPU, memory and per-mount disk usage of the local host.
// Nil thresholds fall back to the defaults; an explicit 0 is honored.
type Source struct {
	NameValue       string
	CPUThreshold    *float64
	MemoryThreshold *float64
	DiskFreePercent *float64
	Paths           []string
}

func (s *Source) Name() string {
	return s.NameValue
}

func (s *Source) Collect(ctx context.Context) ([]check.Item, error) {
	var items []check.Item
	now := time.Now()

	cpuThreshold := threshold(s.CPUThreshold, DefaultCPUThreshold)
	percents, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil || len(percents) == 0 {
		items = append(items, check.Item{
			Name:      s.NameValue + " CPU Usage",
			Kind:      check.KindCPU,
			Status:    check.StatusUnknown,
			Detail:    fmt.Sprintf("cpu sample failed: %v", err),
			CheckedAt: now,
		})
	} else {
		items = append(items, check.Item{
			Name:      s.NameValue + " CPU Usage",
			Kind:      check.KindCPU,
			Value:     percents[0],
			Threshold: cpuThreshold,
			Detail:    fmt.Sprintf("cpu at %.1f%%", percents[0]),
			CheckedAt: now,
		})
	}

	memThreshold := threshold(s.MemoryThreshold, DefaultMemoryThreshold)
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		items = append(items, check.Item{
			Name:      s.NameValue + " Memory Usage",
			Kind:      check.KindMemory,
			Status:    check.StatusUnknown,
			Detail:    fmt.Sprintf("memory sample failed: %v", err),
			CheckedAt: now,
		})
	} else {
		items = append(items, check.Item{
			Name:      s.NameValue + " Memory Usage",
			Kind:      check.KindMemory,
			Value:     vm.UsedPercent,
			Threshold: memThreshold,
			Detail:    fmt.Sprintf("memory at %.1f%% (%.1f/%.1f GB)", vm.UsedPercent, gb(vm.Used), gb(vm.Total)),
			CheckedAt: now,
		})
	}

	freeThreshold := threshold(s.DiskFreePercent, DefaultDiskFreePercent)
	paths := s.Paths
	if len(paths) == 0 {
		paths = []string{"/"}
	}
	for _, path := range paths {
		usage, err := disk.UsageWithContext(ctx, path)
		if err != nil {
			items = append(items, check.Item{
				Name:      s.NameValue + " " + path + " Free Space",
				Kind:      check.KindDisk,
				Status:    check.StatusUnknown,
				Detail:    fmt.Sprintf("disk sample failed for %s: %v", path, err),
				CheckedAt: now,
			})
			continue
		}
		freePercent := 100 - usage.UsedPercent
		items = append(items, check.Item{
			Name:      s.NameValue + " " + path + " Free Space",
			Kind:      check.KindDisk,
			Value:     freePercent,
			Threshold: freeThreshold,
			Detail:    fmt.Sprintf("disk %s has %.1f%% free (%.1f/%.1f GB)", path, freePercent, gb(usage.Free), gb(usage.Total)),
			CheckedAt: now,
		})
	}

	return items, nil
}

func threshold(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func gb(b uint64) float64 {
	return float64(b) / (1024 * 1024 * 1024)
}
