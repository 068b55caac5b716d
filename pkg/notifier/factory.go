package notifier

import (
	"cpme_monitor/pkg/config"
)

// Builds channels from config in delivery order:
// push, email, sms, whatsapp, telegram.
func FromConfig(cfg *config.Config) []Channel {
	return []Channel{
		NewPushoverChannel(cfg.PushoverAPIToken, cfg.PushoverUserKey),
		NewEmailChannel(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.GmailEmail,
			Password: cfg.GmailPassword,
		}, cfg.EmailRecipients),
		NewSMSChannel(TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			From:       cfg.TwilioFromSMS,
		}, cfg.SMSRecipients),
		NewWhatsAppChannel(TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			From:       cfg.TwilioFromWhatsApp,
		}, cfg.WhatsAppRecipients),
		NewTelegramChannel(cfg.TelegramBotToken, cfg.TelegramChatIDs),
	}
}
