// Package sysinfo gathers the host statistics shown on the status panel.
package sysinfo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot is one reading of the host.
type Snapshot struct {
	Hostname    string
	Uptime      time.Duration
	CPUPercent  float64
	CoreCount   int
	Load1       float64
	Load5       float64
	Load15      float64
	Temp        float64 // Celsius, 0 if unavailable
	MemTotal    uint64
	MemUsed     uint64
	MemPercent  float64
	SwapTotal   uint64
	SwapUsed    uint64
	SwapPercent float64
}

// Source produces snapshots.
type Source interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Host reads the local machine through gopsutil.
type Host struct{}

// Snapshot reads CPU, load, memory and host details. Only the CPU and memory
// readings are required; the rest are left zero when unavailable.
func (Host) Snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot

	overall, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return s, fmt.Errorf("cpu percent: %w", err)
	}
	if len(overall) > 0 {
		s.CPUPercent = overall[0]
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		s.CoreCount = n
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return s, fmt.Errorf("virtual memory: %w", err)
	}
	s.MemTotal = vm.Total
	s.MemUsed = vm.Used
	s.MemPercent = vm.UsedPercent

	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		s.SwapTotal = swap.Total
		s.SwapUsed = swap.Used
		if swap.Total > 0 {
			s.SwapPercent = swap.UsedPercent
		}
	}

	if avg, err := load.AvgWithContext(ctx); err == nil {
		s.Load1, s.Load5, s.Load15 = avg.Load1, avg.Load5, avg.Load15
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		s.Hostname = info.Hostname
		s.Uptime = time.Duration(info.Uptime) * time.Second
	}

	if temps, err := host.SensorsTemperaturesWithContext(ctx); err == nil {
		s.Temp = cpuTemp(temps)
	}

	return s, nil
}

// cpuTemp prefers a known CPU sensor and falls back to the first reading.
func cpuTemp(temps []host.TemperatureStat) float64 {
	for _, t := range temps {
		switch t.SensorKey {
		case "coretemp", "k10temp", "cpu_thermal", "zenpower":
			return t.Temperature
		}
	}
	if len(temps) > 0 {
		return temps[0].Temperature
	}
	return 0
}

// FormatBytes formats a byte count with a binary unit: "512B", "12K",
// "340M", "7.6G".
func FormatBytes(b uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case b >= GB:
		return strconv.FormatFloat(float64(b)/GB, 'f', 1, 64) + "G"
	case b >= MB:
		return strconv.Itoa(int(float64(b)/MB+0.5)) + "M"
	case b >= KB:
		return strconv.Itoa(int(float64(b)/KB+0.5)) + "K"
	default:
		return strconv.FormatUint(b, 10) + "B"
	}
}

// FormatUptime formats d as "3d 04:05" or "04:05".
func FormatUptime(d time.Duration) string {
	d = d.Truncate(time.Minute)
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hm := fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
	if days > 0 {
		return fmt.Sprintf("%dd %s", days, hm)
	}
	return hm
}
