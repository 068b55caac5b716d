package notifier

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const (
	whatsAppPrefix = "whatsapp:"
	// Sample numbers shipped in env templates.
	placeholderNumber = "XXX"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// SMS or WhatsApp messages through the Twilio REST API.
type TwilioChannel struct {
	name       string
	prefix     string
	config     TwilioConfig
	recipients []string
	api        messageCreator
}

func NewSMSChannel(config TwilioConfig, recipients []string) *TwilioChannel {
	return newTwilioChannel(ChannelSMS, "", config, recipients)
}

// Numbers are given without the "whatsapp:" prefix.
func NewWhatsAppChannel(config TwilioConfig, recipients []string) *TwilioChannel {
	return newTwilioChannel(ChannelWhatsApp, whatsAppPrefix, config, recipients)
}

func newTwilioChannel(name, prefix string, config TwilioConfig, recipients []string) *TwilioChannel {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: config.AccountSID,
		Password: config.AuthToken,
	})

	return &TwilioChannel{
		name:       name,
		prefix:     prefix,
		config:     config,
		recipients: recipients,
		api:        client.Api,
	}
}

func (c *TwilioChannel) Name() string { return c.name }

func (c *TwilioChannel) Recipients() []string { return c.recipients }

func (c *TwilioChannel) Configured() bool {
	if c.config.AccountSID == "" || c.config.AuthToken == "" || c.config.From == "" {
		return false
	}
	if strings.Contains(c.config.From, placeholderNumber) {
		return false
	}

	return len(c.recipients) > 0
}

func (c *TwilioChannel) Send(_ context.Context, recipient string, msg Message) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(c.address(c.config.From))
	params.SetTo(c.address(recipient))
	params.SetBody(msg.Body)

	// accepted only, delivery is asynchronous
	if _, err := c.api.CreateMessage(params); err != nil {
		return errors.Wrapf(err, "twilio %s", c.name)
	}

	return nil
}

func (c *TwilioChannel) address(number string) string {
	if c.prefix == "" || strings.HasPrefix(number, c.prefix) {
		return number
	}

	return c.prefix + number
}
