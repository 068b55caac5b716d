package heartbeat_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cpme_monitor/pkg/checkpoint"
	"cpme_monitor/pkg/heartbeat"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heartbeat.txt")
	s := heartbeat.NewFileStore(path)
	ctx := context.Background()

	_, ok, err := s.Last(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Date(2026, 10, 19, 12, 30, 0, 123, time.UTC)
	require.NoError(t, s.Beat(ctx, at))

	got, ok, err := heartbeat.NewFileStore(path).Last(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, at.Equal(got), "want %s, got %s", at, got)
}

func TestFileStore_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heartbeat.txt")
	require.NoError(t, os.WriteFile(path, []byte("yesterday"), 0o644))

	_, _, err := heartbeat.NewFileStore(path).Last(context.Background())
	assert.True(t, errors.Is(err, heartbeat.ErrMalformed))
}

func TestFresh(t *testing.T) {
	now := time.Now()

	assert.True(t, heartbeat.Fresh(now.Add(-time.Minute), now, 5*time.Minute))
	assert.False(t, heartbeat.Fresh(now.Add(-6*time.Minute), now, 5*time.Minute))
}

func TestOpen(t *testing.T) {
	s, err := heartbeat.Open(checkpoint.Config{Path: filepath.Join(t.TempDir(), "hb.txt")})
	require.NoError(t, err)
	require.NotNil(t, s)

	_, err = heartbeat.Open(checkpoint.Config{Driver: "etcd"})
	assert.True(t, errors.Is(err, checkpoint.ErrUnknownDriver))
}
