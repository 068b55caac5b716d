package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cpme_monitor/pkg/checkpoint"
	"cpme_monitor/pkg/config"
	"cpme_monitor/pkg/health"
	"cpme_monitor/pkg/heartbeat"
	"cpme_monitor/pkg/obs"
	"cpme_monitor/pkg/serv"

	"go.uber.org/zap"
)

// Serves liveness of a worker running elsewhere against the same storage.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := obs.NewLogger(obs.LogConfig{Level: cfg.LogLevel, Pretty: cfg.LogPretty, App: "cpme-health", Ver: "dev"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err = run(cfg, log); err != nil {
		log.Error("health server failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	cp, err := checkpoint.Open(checkpoint.Config{
		Driver:   cfg.CheckpointDriver,
		Path:     cfg.LastCountFile,
		RedisURL: cfg.RedisURL,
	})
	if err != nil {
		return err
	}

	hb, err := heartbeat.Open(checkpoint.Config{
		Driver:   cfg.CheckpointDriver,
		Path:     cfg.HeartbeatFile,
		RedisURL: cfg.RedisURL,
	})
	if err != nil {
		_ = cp.Close()
		return err
	}

	reporter := health.NewReporter(hb, cp, cfg.StaleAfter(), log)
	srv := health.BootstrapServer(fmt.Sprintf(":%d", cfg.HealthPort), health.NewRouter(reporter, nil), log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// block until we receive our signal.
	<-ctx.Done()

	serv.ShutdownAll(cfg.GracefulShutdownTimeout, log,
		srv,
		serv.ShutdownerFunc(func(context.Context) error { return cp.Close() }),
		serv.ShutdownerFunc(func(context.Context) error { return hb.Close() }),
	)

	return nil
}
