package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Monitor loop and dispatcher instruments.
type Metrics struct {
	Polls           prometheus.Counter
	ZeroReadings    prometheus.Counter
	IterationErrors prometheus.Counter
	Changes         prometheus.Counter
	SaveErrors      prometheus.Counter
	Notifications   *prometheus.CounterVec
	LastCount       prometheus.Gauge
	LastHeartbeat   prometheus.Gauge
}

// Registers instruments in reg. A nil reg gets a private registry,
// which keeps tests independent from the default one.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		Polls: f.NewCounter(prometheus.CounterOpts{
			Name: "cpme_monitor_polls_total", Help: "Listing count polls performed",
		}),
		ZeroReadings: f.NewCounter(prometheus.CounterOpts{
			Name: "cpme_monitor_zero_readings_total", Help: "Polls that observed a count of 0",
		}),
		IterationErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "cpme_monitor_iteration_errors_total", Help: "Loop iterations skipped on unexpected errors",
		}),
		Changes: f.NewCounter(prometheus.CounterOpts{
			Name: "cpme_monitor_changes_total", Help: "Listing count changes detected",
		}),
		SaveErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "cpme_monitor_checkpoint_save_errors_total", Help: "Checkpoint writes that failed",
		}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cpme_monitor_notifications_total", Help: "Notification outcomes per channel",
		}, []string{"channel", "status"}),
		LastCount: f.NewGauge(prometheus.GaugeOpts{
			Name: "cpme_monitor_last_count", Help: "Last observed listing count",
		}),
		LastHeartbeat: f.NewGauge(prometheus.GaugeOpts{
			Name: "cpme_monitor_last_heartbeat_seconds", Help: "Unix time of the latest loop iteration",
		}),
	}
}
