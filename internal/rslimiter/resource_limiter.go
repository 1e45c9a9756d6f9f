package rslimiter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aleister1102/expirywatch/internal/config"
	"github.com/rs/zerolog"
)

// ErrHostUnderPressure is matched by every PressureError.
var ErrHostUnderPressure = errors.New("host under resource pressure")

// PressureError describes which limit denied a pass.
type PressureError struct {
	Reason string
	Usage  ResourceUsage
}

func (e *PressureError) Error() string {
	return fmt.Sprintf("%s: %s", ErrHostUnderPressure.Error(), e.Reason)
}

func (e *PressureError) Unwrap() error {
	return ErrHostUnderPressure
}

// ResourceLimiter admits reconciliation passes only while the process and host
// are within the configured limits. A zero limit disables that check.
type ResourceLimiter struct {
	config    config.ResourceLimiterConfig
	logger    zerolog.Logger
	sample    Sampler
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	mu        sync.Mutex
}

// NewResourceLimiter creates a new resource limiter backed by GetResourceUsage.
func NewResourceLimiter(cfg config.ResourceLimiterConfig, logger zerolog.Logger) *ResourceLimiter {
	return NewResourceLimiterWithSampler(cfg, GetResourceUsage, logger)
}

// NewResourceLimiterWithSampler creates a resource limiter with a custom sampler.
func NewResourceLimiterWithSampler(cfg config.ResourceLimiterConfig, sample Sampler, logger zerolog.Logger) *ResourceLimiter {
	if cfg.CheckIntervalSeconds <= 0 {
		cfg.CheckIntervalSeconds = config.NewDefaultResourceLimiterConfig().CheckIntervalSeconds
	}
	return &ResourceLimiter{
		config: cfg,
		logger: logger.With().Str("module", "ResourceLimiter").Logger(),
		sample: sample,
	}
}

// Admit returns nil when a pass may run now, or a *PressureError naming the exceeded limit.
// Host sampling failures are logged and do not deny the pass.
func (rl *ResourceLimiter) Admit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	usage, err := rl.sample(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rl.logger.Warn().Err(err).Msg("Failed to sample host resources, admitting pass")
	}

	if reason := rl.exceeded(usage); reason != "" {
		rl.logger.Warn().
			Str("reason", reason).
			Int64("alloc_mb", usage.AllocMB).
			Int("goroutines", usage.Goroutines).
			Float64("system_mem_percent", usage.SystemMemUsedPercent).
			Float64("cpu_percent", usage.CPUUsagePercent).
			Msg("Resource limits exceeded, denying pass")
		return &PressureError{Reason: reason, Usage: usage}
	}
	return nil
}

func (rl *ResourceLimiter) exceeded(usage ResourceUsage) string {
	cfg := rl.config
	switch {
	case cfg.MaxMemoryMB > 0 && usage.AllocMB > cfg.MaxMemoryMB:
		return fmt.Sprintf("application memory %dMB > limit %dMB", usage.AllocMB, cfg.MaxMemoryMB)
	case cfg.MaxGoroutines > 0 && usage.Goroutines > cfg.MaxGoroutines:
		return fmt.Sprintf("goroutines %d > limit %d", usage.Goroutines, cfg.MaxGoroutines)
	case cfg.SystemMemThreshold > 0 && usage.SystemMemUsedPercent/100.0 > cfg.SystemMemThreshold:
		return fmt.Sprintf("system memory %.1f%% > threshold %.1f%%", usage.SystemMemUsedPercent, cfg.SystemMemThreshold*100)
	case cfg.CPUThreshold > 0 && usage.CPUUsagePercent/100.0 > cfg.CPUThreshold:
		return fmt.Sprintf("cpu %.1f%% > threshold %.1f%%", usage.CPUUsagePercent, cfg.CPUThreshold*100)
	}
	return ""
}

// Start begins periodic resource usage logging. It is a no-op when already running.
func (rl *ResourceLimiter) Start(ctx context.Context) {
	rl.mu.Lock()
	if rl.isRunning {
		rl.mu.Unlock()
		return
	}
	monitorCtx, cancel := context.WithCancel(ctx)
	rl.cancel = cancel
	rl.isRunning = true
	rl.mu.Unlock()

	rl.wg.Add(1)
	go rl.monitorResources(monitorCtx)

	rl.logger.Info().
		Int64("max_memory_mb", rl.config.MaxMemoryMB).
		Int("max_goroutines", rl.config.MaxGoroutines).
		Dur("check_interval", rl.config.CheckInterval()).
		Float64("system_mem_threshold", rl.config.SystemMemThreshold).
		Float64("cpu_threshold", rl.config.CPUThreshold).
		Msg("Resource limiter started")
}

// Stop stops the resource monitor and waits for it to exit.
func (rl *ResourceLimiter) Stop() {
	rl.mu.Lock()
	if !rl.isRunning {
		rl.mu.Unlock()
		return
	}
	rl.isRunning = false
	cancel := rl.cancel
	rl.mu.Unlock()

	cancel()
	rl.wg.Wait()
	rl.logger.Info().Msg("Resource limiter stopped")
}

func (rl *ResourceLimiter) monitorResources(ctx context.Context) {
	defer rl.wg.Done()

	ticker := time.NewTicker(rl.config.CheckInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.logUsage(ctx)
		}
	}
}

func (rl *ResourceLimiter) logUsage(ctx context.Context) {
	usage, err := rl.sample(ctx)
	if err != nil && ctx.Err() == nil {
		rl.logger.Debug().Err(err).Msg("Host resource sampling failed")
	}
	if reason := rl.exceeded(usage); reason != "" {
		rl.logger.Warn().Str("reason", reason).Msg("Resource usage above limit")
		return
	}
	rl.logger.Debug().
		Int64("alloc_mb", usage.AllocMB).
		Int64("sys_mb", usage.SysMB).
		Int("goroutines", usage.Goroutines).
		Int64("gc_count", usage.GCCount).
		Float64("system_mem_percent", usage.SystemMemUsedPercent).
		Float64("cpu_percent", usage.CPUUsagePercent).
		Msg("Current resource usage")
}
