package notifier

import (
	"context"

	"cpme_monitor/pkg/metrics"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Delivers messages through channels in the order they were given.
type Dispatcher struct {
	channels []Channel
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewDispatcher(log *zap.Logger, m *metrics.Metrics, channels ...Channel) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.New(nil)
	}

	return &Dispatcher{
		channels: channels,
		log:      log.With(zap.String("component", "dispatcher")),
		metrics:  m,
	}
}

// Sends msg to every recipient of every configured channel.
// Never fails; per recipient results are returned in delivery order.
func (d *Dispatcher) DispatchAll(ctx context.Context, msg Message) Report {
	report := make(Report, 0, len(d.channels))

	d.log.Info("sending notifications", zap.Int("channels", len(d.channels)))

	for _, ch := range d.channels {
		report = append(report, d.dispatch(ctx, ch, msg)...)
	}

	d.log.Info("notifications done",
		zap.Int(string(StatusSent), report.Count(StatusSent)),
		zap.Int(string(StatusFailed), report.Count(StatusFailed)),
		zap.Int(string(StatusSkipped), report.Count(StatusSkipped)),
	)

	return report
}

// Delivers msg through a single channel. A panic anywhere in the channel
// ends up as a failed outcome, siblings are still attempted.
func (d *Dispatcher) dispatch(ctx context.Context, ch Channel, msg Message) (report Report) {
	name := "unknown"

	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("panic: %v", r)
			d.log.Error("channel failed", zap.String("channel", name), zap.Error(err))
			d.record(name, StatusFailed)
			report = append(report, Outcome{Channel: name, Status: StatusFailed, Err: err})
		}
	}()

	name = ch.Name()

	if !ch.Configured() {
		d.log.Info("channel not configured, skipping", zap.String("channel", name))
		d.record(name, StatusSkipped)

		return Report{{Channel: name, Status: StatusSkipped}}
	}

	recipients := ch.Recipients()
	report = make(Report, 0, len(recipients))

	for _, recipient := range recipients {
		outcome := Outcome{Channel: name, Recipient: recipient, Status: StatusSent}

		if err := safeSend(ctx, ch, recipient, msg); err != nil {
			outcome.Status, outcome.Err = StatusFailed, err
			d.log.Error("failed to send notification",
				zap.String("channel", name),
				zap.String("recipient", recipient),
				zap.Error(err),
			)
		} else {
			d.log.Info("notification sent",
				zap.String("channel", name),
				zap.String("recipient", recipient),
			)
		}

		d.record(name, outcome.Status)
		report = append(report, outcome)
	}

	return report
}

func (d *Dispatcher) record(channel string, status Status) {
	d.metrics.Notifications.WithLabelValues(channel, string(status)).Inc()
}

// Converts a panic inside Send into an error.
func safeSend(ctx context.Context, ch Channel, recipient string, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()

	return ch.Send(ctx, recipient, msg)
}
