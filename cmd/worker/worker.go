package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cpme_monitor/pkg/checkpoint"
	"cpme_monitor/pkg/config"
	webcrawler "cpme_monitor/pkg/crawler/web_crawler"
	"cpme_monitor/pkg/health"
	"cpme_monitor/pkg/heartbeat"
	"cpme_monitor/pkg/metrics"
	"cpme_monitor/pkg/monitor"
	"cpme_monitor/pkg/notifier"
	"cpme_monitor/pkg/obs"
	"cpme_monitor/pkg/parser/cpme"
	"cpme_monitor/pkg/serv"
	"cpme_monitor/pkg/source"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const appName = "cpme-monitor"

var version = "dev"

type Application struct {
	config  *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics

	checkpoint checkpoint.Store
	heartbeat  heartbeat.Store

	source     *source.Source
	dispatcher *notifier.Dispatcher
	monitor    *monitor.Monitor

	healthSrv *http.Server

	shutdowners []serv.Shutdowner
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Loads config and logger, the part every command needs.
func newApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := obs.NewLogger(obs.LogConfig{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		App:    appName,
		Ver:    version,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}

	return &Application{config: cfg, log: log}, nil
}

func runDaemon(app *Application) error {
	defer func() { _ = app.log.Sync() }()

	setupMetrics(app, prometheus.DefaultRegisterer)
	setupSource(app)
	setupDispatcher(app)

	if err := setupStores(app); err != nil {
		app.log.Error("failed to open storage", zap.Error(err))
		return err
	}
	if err := setupMonitor(app); err != nil {
		return err
	}

	setupHealth(app)
	setupShutdowners(app)

	return startWithGS(app)
}

func setupMetrics(app *Application, reg prometheus.Registerer) {
	app.metrics = metrics.New(reg)
}

func setupSource(app *Application) {
	crawler := webcrawler.NewCrawler(&webcrawler.Config[int]{
		URL:    app.config.TargetURL,
		Parser: &cpme.Parser{Prefix: app.config.CountPrefix},
	}, &http.Client{Timeout: app.config.FetchTimeout})

	app.source = source.New(crawler, app.log)
}

func setupDispatcher(app *Application) {
	app.dispatcher = notifier.NewDispatcher(app.log, app.metrics, notifier.FromConfig(app.config)...)
}

func setupStores(app *Application) error {
	var err error

	if app.checkpoint, err = checkpoint.Open(checkpoint.Config{
		Driver:   app.config.CheckpointDriver,
		Path:     app.config.LastCountFile,
		RedisURL: app.config.RedisURL,
	}); err != nil {
		return err
	}

	if app.heartbeat, err = heartbeat.Open(checkpoint.Config{
		Driver:   app.config.CheckpointDriver,
		Path:     app.config.HeartbeatFile,
		RedisURL: app.config.RedisURL,
	}); err != nil {
		_ = app.checkpoint.Close()
		return err
	}

	return nil
}

func setupMonitor(app *Application) error {
	seed, seeded := app.config.Seed()

	var err error
	app.monitor, err = monitor.New(&monitor.Config{
		TargetURL:       app.config.TargetURL,
		Interval:        app.config.Interval(),
		InitialCount:    seed,
		HasInitialCount: seeded,
	}, monitor.Deps{
		Checkpoint: app.checkpoint,
		Source:     app.source,
		Dispatcher: app.dispatcher,
		Heartbeat:  app.heartbeat,
		Log:        app.log,
		Metrics:    app.metrics,
	})

	return err
}

// Liveness reporter is served in-process unless disabled.
func setupHealth(app *Application) {
	if !app.config.EnableHealthServer {
		app.log.Info("health server disabled")
		return
	}

	reporter := health.NewReporter(app.heartbeat, app.checkpoint, app.config.StaleAfter(), app.log)
	addr := fmt.Sprintf(":%d", app.config.HealthPort)

	app.healthSrv = health.BootstrapServer(addr, health.NewRouter(reporter, nil), app.log)
}

func setupShutdowners(app *Application) {
	if app.healthSrv != nil {
		app.shutdowners = append(app.shutdowners, app.healthSrv)
	}

	app.shutdowners = append(app.shutdowners,
		serv.ShutdownerFunc(func(context.Context) error {
			app.log.Info("closing checkpoint store")
			return app.checkpoint.Close()
		}),
		serv.ShutdownerFunc(func(context.Context) error {
			app.log.Info("closing heartbeat store")
			return app.heartbeat.Close()
		}),
	)
}

func startWithGS(app *Application) error {
	// graceful shutdown
	// when SIGINT (Ctrl+C)
	// when SIGTERM
	// except SIGKILL, SIGQUIT will not be caught
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// blocks until a signal arrives and the current iteration completes
	err := app.monitor.Run(ctx)
	if err != nil {
		app.log.Error("monitor failed to start", zap.Error(err))
	} else {
		app.log.Info("monitor stopped gracefully")
	}

	serv.ShutdownAll(app.config.GracefulShutdownTimeout, app.log, app.shutdowners...)

	return err
}
