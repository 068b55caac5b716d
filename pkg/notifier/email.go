package notifier

import (
	"context"

	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"
)

const (
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Sends a composed message, replaced in tests.
type deliverFunc func(ctx context.Context, cfg SMTPConfig, m *mail.Msg) error

// Plain text email, one message per recipient.
// Username doubles as the sender address.
type EmailChannel struct {
	config     SMTPConfig
	recipients []string
	deliver    deliverFunc
}

func NewEmailChannel(config SMTPConfig, recipients []string) *EmailChannel {
	if config.Host == "" {
		config.Host = DefaultSMTPHost
	}
	if config.Port == 0 {
		config.Port = DefaultSMTPPort
	}

	return &EmailChannel{
		config:     config,
		recipients: recipients,
		deliver:    dialAndSend,
	}
}

func (c *EmailChannel) Name() string { return ChannelEmail }

func (c *EmailChannel) Recipients() []string { return c.recipients }

func (c *EmailChannel) Configured() bool {
	return c.config.Username != "" && c.config.Password != "" && len(c.recipients) > 0
}

func (c *EmailChannel) Send(ctx context.Context, recipient string, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(c.config.Username); err != nil {
		return errors.Wrapf(err, "invalid from address %q", c.config.Username)
	}
	if err := m.To(recipient); err != nil {
		return errors.Wrapf(err, "invalid recipient %q", recipient)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	return c.deliver(ctx, c.config, m)
}

// STARTTLS submission with PLAIN auth.
func dialAndSend(ctx context.Context, cfg SMTPConfig, m *mail.Msg) error {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create mail client")
	}

	if err = client.DialAndSendWithContext(ctx, m); err != nil {
		return errors.Wrapf(err, "failed to send mail via %s:%d", cfg.Host, cfg.Port)
	}

	return nil
}
