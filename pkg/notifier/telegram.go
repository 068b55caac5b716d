package notifier

import (
	"context"
	"sync"

	"cpme_monitor/pkg/id"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

func newBotAPI(token string) (botSender, error) {
	return tgbotapi.NewBotAPI(token)
}

// Telegram bot messages, recipients are chat ids.
// The bot API is created on the first Send, since creating it calls getMe.
type TelegramChannel struct {
	token      string
	recipients []string
	// Recipients that parsed as chat ids; the rest fail on Send.
	chats map[string]id.ChatID

	newBot func(token string) (botSender, error)
	bot    botSender
	mx     sync.Mutex
}

func NewTelegramChannel(token string, chatIDs []string) *TelegramChannel {
	chats := make(map[string]id.ChatID, len(chatIDs))
	for _, raw := range chatIDs {
		if chatID, err := id.ParseChatID(raw); err == nil {
			chats[raw] = chatID
		}
	}

	return &TelegramChannel{
		token:      token,
		recipients: chatIDs,
		chats:      chats,
		newBot:     newBotAPI,
	}
}

func (c *TelegramChannel) Name() string { return ChannelTelegram }

func (c *TelegramChannel) Recipients() []string { return c.recipients }

func (c *TelegramChannel) Configured() bool {
	return c.token != "" && len(c.recipients) > 0
}

func (c *TelegramChannel) Send(_ context.Context, recipient string, msg Message) error {
	chatID, ok := c.chats[recipient]
	if !ok {
		return id.UnsupportedData([]byte(recipient))
	}

	bot, err := c.api()
	if err != nil {
		return err
	}

	text := msg.Body
	if msg.Subject != "" {
		text = msg.Subject + "\n" + msg.Body
	}

	if _, err = bot.Send(tgbotapi.NewMessage(int64(chatID), text)); err != nil {
		return errors.Wrapf(err, "failed to send message to %s", chatID)
	}

	return nil
}

func (c *TelegramChannel) api() (botSender, error) {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.bot != nil {
		return c.bot, nil
	}

	bot, err := c.newBot(c.token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}
	c.bot = bot

	return bot, nil
}
