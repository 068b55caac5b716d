package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cpme_monitor/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://cpme.fyidigital.pt/arrendamento", cfg.TargetURL)
	assert.Equal(t, 30*time.Second, cfg.Interval())
	assert.Equal(t, "last_count.txt", cfg.LastCountFile)
	assert.True(t, cfg.EnableHealthServer)
	assert.Equal(t, 8080, cfg.HealthPort)
	assert.Equal(t, 5*time.Minute, cfg.StaleAfter())
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)

	_, seeded := cfg.Seed()
	assert.False(t, seeded)
	assert.Empty(t, cfg.EmailRecipients)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "2m")
	t.Setenv("INITIAL_COUNT", "0")
	t.Setenv("EMAIL_RECIPIENTS", " a@example.com, ,b@example.com ")
	t.Setenv("SMS_RECIPIENTS", "+351910000000")
	t.Setenv("ENABLE_HEALTH_SERVER", "false")
	t.Setenv("HEALTH_STALE_AFTER", "1m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.Interval())
	seed, seeded := cfg.Seed()
	assert.True(t, seeded)
	assert.Equal(t, 0, seed)
	assert.Equal(t, config.List{"a@example.com", "b@example.com"}, cfg.EmailRecipients)
	assert.Equal(t, config.List{"+351910000000"}, cfg.SMSRecipients)
	assert.False(t, cfg.EnableHealthServer)
	// never below two poll intervals
	assert.Equal(t, 4*time.Minute, cfg.StaleAfter())
}

func TestLoad_PlainSeconds(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "45")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Interval())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad interval":      {"POLL_INTERVAL": "often"},
		"zero interval":     {"POLL_INTERVAL": "0"},
		"negative seed":     {"INITIAL_COUNT": "-1"},
		"bad port":          {"HEALTH_PORT": "70000"},
		"redis without url": {"CHECKPOINT_DRIVER": "redis"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_EnvFileOverridesEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("POLL_INTERVAL=90\nTELEGRAM_CHAT_IDS=1,chat:2\n"), 0o600))

	// registers restore of both variables once the test ends
	t.Setenv("POLL_INTERVAL", "45")
	t.Setenv("TELEGRAM_CHAT_IDS", "")

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Interval())
	assert.Equal(t, config.List{"1", "chat:2"}, cfg.TelegramChatIDs)
}

func TestLoadFile_MissingFile(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "45")

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Interval())
}

func TestLoad_ReadsDotEnvFromWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultEnvFile), []byte("HEALTH_PORT=9090\n"), 0o600))

	t.Setenv("HEALTH_PORT", "8080")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HealthPort)
}
