package obs_test

import (
	"testing"

	"cpme_monitor/pkg/obs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Level(t *testing.T) {
	l, err := obs.NewLogger(obs.LogConfig{Level: "debug", App: "cpme-monitor"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = obs.NewLogger(obs.LogConfig{Level: "nonsense", Pretty: true})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}
