// Package config loads the monitor configuration from the environment once
// at startup, after applying an optional .env file. Components receive the parts they need through their
// constructors; nothing reads the environment after Load returns.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"cpme_monitor/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const (
	DefaultEnvFile      = ".env"
	DefaultPollInterval = 30 * time.Second
	MinPollInterval     = time.Second
)

// Interval accepts plain seconds ("30") or a Go duration ("45s", "2m").
type Interval time.Duration

func (i *Interval) Decode(value string) error {
	d, err := utils.ParseSecondsOrDuration(value)
	if err != nil {
		return err
	}

	*i = Interval(d)

	return nil
}

// List is a comma separated list with blanks trimmed and empties dropped.
type List []string

func (l *List) Decode(value string) error {
	*l = utils.SplitList(value)

	return nil
}

// OptionalInt tracks whether a value was supplied at all.
type OptionalInt struct {
	Value int
	Set   bool
}

func (o *OptionalInt) Decode(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	v, err := strconv.Atoi(value)
	if err != nil || v < 0 {
		return errors.Errorf("invalid non-negative integer %q", value)
	}

	o.Value, o.Set = v, true

	return nil
}

type Config struct {
	// Page to poll and the text prefix preceding the listing count.
	TargetURL    string        `envconfig:"TARGET_URL" default:"https://cpme.fyidigital.pt/arrendamento"`
	CountPrefix  string        `envconfig:"COUNT_PREFIX" default:"Andares disponíveis"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
	PollInterval Interval      `envconfig:"POLL_INTERVAL" default:"30"`

	// Seed used when no checkpoint exists yet; a fetch is used otherwise.
	InitialCount OptionalInt `envconfig:"INITIAL_COUNT"`

	CheckpointDriver string `envconfig:"CHECKPOINT_DRIVER" default:"file"`
	LastCountFile    string `envconfig:"LAST_COUNT_FILE" default:"last_count.txt"`
	HeartbeatFile    string `envconfig:"HEARTBEAT_FILE" default:"heartbeat.txt"`
	RedisURL         string `envconfig:"REDIS_URL"`

	EnableHealthServer bool          `envconfig:"ENABLE_HEALTH_SERVER" default:"true"`
	HealthPort         int           `envconfig:"HEALTH_PORT" default:"8080"`
	HealthStaleAfter   time.Duration `envconfig:"HEALTH_STALE_AFTER" default:"5m"`

	PushoverUserKey  List   `envconfig:"PUSHOVER_USER_KEY"`
	PushoverAPIToken string `envconfig:"PUSHOVER_API_TOKEN"`

	GmailEmail      string `envconfig:"GMAIL_EMAIL"`
	GmailPassword   string `envconfig:"GMAIL_PASSWORD"`
	EmailRecipients List   `envconfig:"EMAIL_RECIPIENTS"`
	SMTPHost        string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort        int    `envconfig:"SMTP_PORT" default:"587"`

	TwilioAccountSID   string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken    string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFromSMS      string `envconfig:"TWILIO_FROM_SMS"`
	SMSRecipients      List   `envconfig:"SMS_RECIPIENTS"`
	TwilioFromWhatsApp string `envconfig:"TWILIO_FROM_WHATSAPP"`
	WhatsAppRecipients List   `envconfig:"WHATSAPP_RECIPIENTS"`

	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatIDs  List   `envconfig:"TELEGRAM_CHAT_IDS"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`

	GracefulShutdownTimeout time.Duration `envconfig:"GRACEFUL_SHUTDOWN_TIMEOUT" default:"15s"`
}

// Loads Config from DefaultEnvFile and environment variables.
func Load() (*Config, error) {
	return LoadFile(DefaultEnvFile)
}

// Loads Config from environment variables. Values in the env file, when it
// exists, override the process environment.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Overload(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(err, "loading %s", path)
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, errors.Wrap(err, "loading config")
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) validate() error {
	if c.Interval() < MinPollInterval {
		return errors.Errorf("POLL_INTERVAL must be at least %s, got %s", MinPollInterval, c.Interval())
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return errors.Errorf("HEALTH_PORT out of range: %d", c.HealthPort)
	}
	if strings.EqualFold(c.CheckpointDriver, "redis") && c.RedisURL == "" {
		return errors.New("REDIS_URL is required for the redis checkpoint driver")
	}

	return nil
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.PollInterval)
}

// Staleness threshold for liveness, never below two poll intervals.
func (c *Config) StaleAfter() time.Duration {
	return utils.GraterOrEqDefOr(c.HealthStaleAfter, 2*c.Interval())
}

// Initial count supplied by the operator, if any.
func (c *Config) Seed() (int, bool) {
	return c.InitialCount.Value, c.InitialCount.Set
}
