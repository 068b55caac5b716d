// Package monitor runs the poll, compare, notify and checkpoint cycle.
//
// The loop is the only writer of the checkpoint and heartbeat stores.
// Shutdown is observed before each fetch and during the sleep between
// iterations; an iteration that already started (fetch, dispatch, save)
// always runs to completion.
package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"cpme_monitor/pkg/checkpoint"
	"cpme_monitor/pkg/heartbeat"
	"cpme_monitor/pkg/metrics"
	"cpme_monitor/pkg/notifier"
	"cpme_monitor/pkg/source"
	"cpme_monitor/pkg/utils"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultInterval = 30 * time.Second

var ErrMissingDependency = errors.New("missing monitor dependency")

type Dispatcher interface {
	DispatchAll(ctx context.Context, msg notifier.Message) notifier.Report
}

type Config struct {
	TargetURL string
	Interval  time.Duration
	// Seed checkpoint used instead of a fetch when none is persisted.
	InitialCount    int
	HasInitialCount bool
}

// Collaborators. Checkpoint, Source and Dispatcher are mandatory.
type Deps struct {
	Checkpoint checkpoint.Store
	Source     source.Counter
	Dispatcher Dispatcher
	Heartbeat  heartbeat.Store // not mandatory
	Log        *zap.Logger
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

type Monitor struct {
	config *Config
	deps   Deps
	log    *zap.Logger
	state  atomic.Int32
	last   int
}

func New(config *Config, deps Deps) (*Monitor, error) {
	if deps.Checkpoint == nil || deps.Source == nil || deps.Dispatcher == nil {
		return nil, ErrMissingDependency
	}

	cfg := &Config{}
	*cfg = *config
	cfg.Interval = utils.DefOr(cfg.Interval, DefaultInterval)

	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(nil)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Monitor{
		config: cfg,
		deps:   deps,
		log:    deps.Log.With(zap.String("component", "monitor")),
	}, nil
}

func (m *Monitor) State() State {
	return State(m.state.Load())
}

func (m *Monitor) setState(s State) {
	m.state.Store(int32(s))
}

// Last count known to the loop.
// Only meaningful once Run has returned.
func (m *Monitor) Last() int {
	return m.last
}

// Initializes the checkpoint and polls until ctx is done.
// Returns an error only when the checkpoint cannot be initialized.
func (m *Monitor) Run(ctx context.Context) error {
	m.setState(StateInitializing)

	last, err := m.initialize(ctx)
	if err != nil {
		m.setState(StateStopped)
		return err
	}
	m.last = last
	m.deps.Metrics.LastCount.Set(float64(last))

	m.log.Info("starting monitor loop",
		zap.Duration("interval", m.config.Interval),
		zap.Int("last_count", last),
	)
	m.setState(StatePolling)

	retry := time.NewTimer(0)
	defer retry.Stop()

	for {
		select {
		case <-ctx.Done():
			return m.stop()
		case <-retry.C:
		}

		// shutdown wins over a due tick
		if ctx.Err() != nil {
			return m.stop()
		}

		m.iterate(context.WithoutCancel(ctx))

		retry.Reset(m.config.Interval)
	}
}

func (m *Monitor) stop() error {
	m.setState(StateShuttingDown)
	m.log.Info("shutdown requested, monitor loop exiting", zap.Int("last_count", m.last))
	m.setState(StateStopped)

	return nil
}

// Loads the checkpoint, seeding it when absent. No notification is sent.
func (m *Monitor) initialize(ctx context.Context) (int, error) {
	count, found, err := m.deps.Checkpoint.Load(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to load checkpoint")
	}
	if found {
		m.log.Info("loaded checkpoint", zap.Int("last_count", count))
		return count, nil
	}

	if m.config.HasInitialCount {
		count = m.config.InitialCount
		m.log.Info("no checkpoint, seeding from initial count", zap.Int("last_count", count))
	} else {
		count, err = m.fetch(context.WithoutCancel(ctx))
		if err != nil {
			m.log.Error("seed fetch failed, seeding with 0", zap.Error(err))
			count = 0
		}
		m.log.Info("no checkpoint, seeding from page", zap.Int("last_count", count))
	}

	// a shutdown during the seed fetch must not lose the seed
	if err = m.deps.Checkpoint.Save(context.WithoutCancel(ctx), count); err != nil {
		return 0, errors.Wrap(err, "failed to save seed checkpoint")
	}

	return count, nil
}

// Single poll. Never panics; failures are logged and the iteration skipped.
func (m *Monitor) iterate(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.deps.Metrics.IterationErrors.Inc()
			m.log.Error("error in monitor loop", zap.Any("panic", r))
		}
		m.setState(StatePolling)
	}()

	m.beat(ctx)

	m.deps.Metrics.Polls.Inc()

	current, err := m.fetch(ctx)
	if err != nil {
		m.deps.Metrics.IterationErrors.Inc()
		m.log.Error("error in monitor loop", zap.Error(err))
		return
	}
	if current == 0 {
		m.deps.Metrics.ZeroReadings.Inc()
	}
	m.deps.Metrics.LastCount.Set(float64(current))

	m.log.Info("fetched count", zap.Int("count", current), zap.Int("last_count", m.last))

	if current == m.last {
		return
	}

	m.setState(StateNotifying)
	m.deps.Metrics.Changes.Inc()
	m.log.Info("listing count changed", zap.Int("from", m.last), zap.Int("to", current))

	m.deps.Dispatcher.DispatchAll(ctx, Compose(m.last, current, m.config.TargetURL))

	// delivery failures never roll the checkpoint back
	m.last = current
	if err = m.deps.Checkpoint.Save(ctx, current); err != nil {
		m.deps.Metrics.SaveErrors.Inc()
		m.log.Error("failed to save checkpoint", zap.Int("count", current), zap.Error(err))
		return
	}

	m.log.Info("updated last count", zap.Int("last_count", current))
}

func (m *Monitor) fetch(ctx context.Context) (count int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("fetch panic: %v", r)
		}
	}()

	return m.deps.Source.Fetch(ctx)
}

func (m *Monitor) beat(ctx context.Context) {
	if m.deps.Heartbeat == nil {
		return
	}

	now := m.deps.Now()
	if err := m.deps.Heartbeat.Beat(ctx, now); err != nil {
		m.log.Warn("failed to write heartbeat", zap.Error(err))
		return
	}
	m.deps.Metrics.LastHeartbeat.Set(float64(now.Unix()))
}
