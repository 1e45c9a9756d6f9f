package rslimiter

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// cpuSampleWindow is how long a CPU sample is measured over.
const cpuSampleWindow = 200 * time.Millisecond

// ResourceUsage is a snapshot of process and host resource consumption.
// Host figures are percentages in [0,100]; they are zero when sampling failed.
type ResourceUsage struct {
	AllocMB              int64
	SysMB                int64
	Goroutines           int
	GCCount              int64
	SystemMemUsedPercent float64
	SystemMemTotalMB     uint64
	CPUUsagePercent      float64
}

// Sampler produces a resource usage snapshot.
type Sampler func(ctx context.Context) (ResourceUsage, error)

// GetResourceUsage samples runtime statistics and host memory and CPU.
// The runtime fields are always filled; the returned error reports a host sampling failure.
func GetResourceUsage(ctx context.Context) (ResourceUsage, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := ResourceUsage{
		AllocMB:    int64(m.Alloc / 1024 / 1024),
		SysMB:      int64(m.Sys / 1024 / 1024),
		Goroutines: runtime.NumGoroutine(),
		GCCount:    int64(m.NumGC),
	}

	vmStat, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return usage, err
	}
	usage.SystemMemUsedPercent = vmStat.UsedPercent
	usage.SystemMemTotalMB = vmStat.Total / 1024 / 1024

	cpuPercents, err := cpu.PercentWithContext(ctx, cpuSampleWindow, false)
	if err != nil {
		return usage, err
	}
	if len(cpuPercents) > 0 {
		usage.CPUUsagePercent = cpuPercents[0]
	}
	return usage, nil
}
