package utils_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cpme_monitor/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraterOrEqDefOr(t *testing.T) {
	assert.Equal(t, 30*time.Second, utils.GraterOrEqDefOr(0, 30*time.Second))
	assert.Equal(t, time.Minute, utils.GraterOrEqDefOr(time.Minute, 30*time.Second))
	assert.Equal(t, 10, utils.GraterOrEqDefOr(-1, 10))
}

func TestDefOr(t *testing.T) {
	assert.Equal(t, "x", utils.DefOr("", "x"))
	assert.Equal(t, "y", utils.DefOr("y", "x"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a@x.pt", "b@x.pt"}, utils.SplitList(" a@x.pt, ,b@x.pt ,"))
	assert.Empty(t, utils.SplitList(""))
	assert.Empty(t, utils.SplitList(" , "))
}

func TestParseSecondsOrDuration(t *testing.T) {
	d, err := utils.ParseSecondsOrDuration("30")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	d, err = utils.ParseSecondsOrDuration("2m")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)

	_, err = utils.ParseSecondsOrDuration("soon")
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "value.txt")

	require.NoError(t, utils.WriteFileAtomic(path, []byte("12"), 0o644))
	require.NoError(t, utils.WriteFileAtomic(path, []byte("15"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "15", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}
