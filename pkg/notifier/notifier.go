// Package notifier fans a single message out to every configured delivery
// channel.
//
// Channels are independent: a disabled channel is skipped quietly, and a
// failure (error or panic) while delivering to one recipient is logged and
// never stops delivery to the remaining recipients or channels.
package notifier

import (
	"context"

	"github.com/pkg/errors"
)

const (
	ChannelPush     = "push"
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
	ChannelTelegram = "telegram"
)

var ErrNotConfigured = errors.New("channel is not configured")

// Message is delivered as is to every recipient.
type Message struct {
	Subject string
	Body    string
}

// Delivery channel.
type Channel interface {
	Name() string
	Recipients() []string
	// False when credentials or recipients are missing.
	Configured() bool
	Send(ctx context.Context, recipient string, msg Message) error
}

type Status string

const (
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result of a single delivery attempt.
// Recipient is empty for skipped channels.
type Outcome struct {
	Channel   string
	Recipient string
	Status    Status
	Err       error
}

type Report []Outcome

// Number of outcomes with the given status.
func (r Report) Count(status Status) int {
	n := 0
	for _, o := range r {
		if o.Status == status {
			n++
		}
	}

	return n
}

// Outcomes of the named channel.
func (r Report) Channel(name string) Report {
	var res Report
	for _, o := range r {
		if o.Channel == name {
			res = append(res, o)
		}
	}

	return res
}
