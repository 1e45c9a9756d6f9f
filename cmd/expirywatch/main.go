package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aleister1102/expirywatch/internal/config"
	"github.com/aleister1102/expirywatch/internal/datastore"
	"github.com/aleister1102/expirywatch/internal/logger"
	"github.com/aleister1102/expirywatch/internal/metrics"
	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/aleister1102/expirywatch/internal/notifier"
	"github.com/aleister1102/expirywatch/internal/resolver"
	"github.com/aleister1102/expirywatch/internal/rslimiter"
	"github.com/aleister1102/expirywatch/internal/scheduler"
	"github.com/aleister1102/expirywatch/internal/trigger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

func main() {
	flags := ParseFlags()

	bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, bootLogger)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}

	if flags.Mode != "" {
		gCfg.Mode = flags.Mode
		zLogger.Info().Str("mode", gCfg.Mode).Msg("Mode overridden by command line flag")
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, gCfg, flags, zLogger); err != nil {
		zLogger.Error().Err(err).Msg("expirywatch exited with error")
		cancel()
		os.Exit(1)
	}
	zLogger.Info().Msg("Application finished")
}

type app struct {
	store    *datastore.SQLiteStore
	service  *scheduler.Service
	metrics  *metrics.Metrics
	registry *prometheus.Registry
}

func run(ctx context.Context, gCfg *config.GlobalConfig, flags AppFlags, zLogger zerolog.Logger) error {
	a, err := buildApp(gCfg, zLogger)
	if err != nil {
		return err
	}
	defer a.store.Close()

	if flags.ImportFile != "" {
		summary, err := a.store.ImportFile(ctx, flags.ImportFile)
		zLogger.Info().
			Int("domains", summary.Domains).
			Int("channels", summary.Channels).
			Str("file", flags.ImportFile).
			Msg("Import finished")
		if err != nil {
			zLogger.Warn().Err(err).Msg("Some import records were rejected")
		}
	}

	if flags.History > 0 {
		return printPassHistory(ctx, a.store, flags.History, zLogger)
	}

	switch gCfg.Mode {
	case config.ModeAutomated:
		return runAutomated(ctx, gCfg, a, zLogger)
	default:
		result, err := a.service.RunPass(ctx, models.PassSourceManual)
		if err != nil {
			return err
		}
		zLogger.Info().
			Int("checked", result.Checked).
			Int("warnings", result.Warnings).
			Int("expired", result.Expired).
			Msg("Onetime pass finished")
		return nil
	}
}

func buildApp(gCfg *config.GlobalConfig, zLogger zerolog.Logger) (*app, error) {
	store, err := datastore.NewSQLiteStore(gCfg.StorageConfig.SQLiteDBPath, zLogger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	rdap, err := resolver.NewRDAPResolver(gCfg.ResolverConfig, zLogger)
	if err != nil {
		store.Close()
		return nil, err
	}

	client, err := notifier.NewHTTPClient(gCfg.NotificationConfig, zLogger)
	if err != nil {
		store.Close()
		return nil, err
	}
	senders := notifier.NewDefaultRegistry(gCfg.NotificationConfig, client, zLogger)
	dispatcher := notifier.NewDispatcher(store, senders, gCfg.NotificationConfig.SendTimeout(), m, zLogger)

	runner := scheduler.NewRunner(store, rdap, dispatcher, scheduler.RunnerConfig{
		WarnThresholdDays:        gCfg.SchedulerConfig.WarnThresholdDays,
		DefaultCheckIntervalDays: gCfg.SchedulerConfig.DefaultCheckIntervalDays,
		ResolverTimeout:          gCfg.ResolverConfig.Timeout(),
	}, m, zLogger)

	return &app{
		store:    store,
		service:  scheduler.NewService(runner, store, time.Now, m, zLogger),
		metrics:  m,
		registry: registry,
	}, nil
}

func runAutomated(ctx context.Context, gCfg *config.GlobalConfig, a *app, zLogger zerolog.Logger) error {
	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	if gCfg.TriggerConfig.Enabled {
		server := trigger.NewServer(gCfg.TriggerConfig, a.service, a.metrics, a.registry, zLogger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.Start(); err != nil {
				errCh <- err
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				zLogger.Warn().Err(err).Msg("Trigger server shutdown failed")
			}
			wg.Wait()
		}()
	}

	schedCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()

	s := scheduler.NewScheduler(a.service, gCfg.SchedulerConfig, zLogger)
	if gCfg.ResourceLimiter.Enabled {
		limiter := rslimiter.NewResourceLimiter(gCfg.ResourceLimiter, zLogger)
		limiter.Start(schedCtx)
		defer limiter.Stop()
		s.SetGate(limiter)
	}
	schedDone := make(chan error, 1)
	go func() { schedDone <- s.Start(schedCtx) }()

	select {
	case err := <-errCh:
		stopScheduler()
		<-schedDone
		return err
	case err := <-schedDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}
