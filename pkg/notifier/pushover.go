package notifier

import (
	"context"

	"github.com/gregdel/pushover"
	"github.com/pkg/errors"
)

type pushoverSender interface {
	SendMessage(message *pushover.Message, recipient *pushover.Recipient) (*pushover.Response, error)
}

// Push notifications through the Pushover API.
// Recipients are Pushover user (or group) keys.
type PushoverChannel struct {
	token string
	users []string
	app   pushoverSender
}

func NewPushoverChannel(token string, users []string) *PushoverChannel {
	return &PushoverChannel{
		token: token,
		users: users,
		app:   pushover.New(token),
	}
}

func (c *PushoverChannel) Name() string { return ChannelPush }

func (c *PushoverChannel) Recipients() []string { return c.users }

func (c *PushoverChannel) Configured() bool {
	return c.token != "" && len(c.users) > 0
}

func (c *PushoverChannel) Send(_ context.Context, recipient string, msg Message) error {
	resp, err := c.app.SendMessage(
		pushover.NewMessageWithTitle(msg.Body, msg.Subject),
		pushover.NewRecipient(recipient),
	)
	if err != nil {
		return errors.Wrap(err, "pushover")
	}
	if resp != nil && resp.Status != 1 {
		return errors.Errorf("pushover: unexpected status %d, request %s", resp.Status, resp.ID)
	}

	return nil
}
