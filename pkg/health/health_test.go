package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cpme_monitor/pkg/checkpoint"
	"cpme_monitor/pkg/heartbeat"
	"cpme_monitor/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type stores struct {
	hb heartbeat.Store
	cp checkpoint.Store
}

func newStores(t *testing.T) stores {
	dir := t.TempDir()
	return stores{
		hb: heartbeat.NewFileStore(filepath.Join(dir, "heartbeat.txt")),
		cp: checkpoint.NewFileStore(filepath.Join(dir, "last_count.txt")),
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var res Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))

	return res
}

func newTestReporter(t *testing.T, s stores) *Reporter {
	r := NewReporter(s.hb, s.cp, 5*time.Minute, zaptest.NewLogger(t))
	r.now = func() time.Time { return now }

	return r
}

func TestReporter_Starting(t *testing.T) {
	s := newStores(t)

	rec := get(t, newTestReporter(t, s), "/health")
	res := decode(t, rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, StatusStarting, res.Status)
	assert.Nil(t, res.LastCount)
	assert.Equal(t, now.Format(time.RFC3339), res.Timestamp)
}

func TestReporter_Healthy(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	require.NoError(t, s.hb.Beat(ctx, now.Add(-90*time.Second)))
	require.NoError(t, s.cp.Save(ctx, 12))

	rec := get(t, newTestReporter(t, s), "/health")
	res := decode(t, rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusHealthy, res.Status)
	require.NotNil(t, res.LastCount)
	assert.Equal(t, 12, *res.LastCount)
	assert.Equal(t, "Monitor running. Last count: 12, updated 1m30s ago", res.Message)
}

func TestReporter_Unhealthy(t *testing.T) {
	s := newStores(t)
	require.NoError(t, s.hb.Beat(context.Background(), now.Add(-10*time.Minute)))

	rec := get(t, newTestReporter(t, s), "/health")
	res := decode(t, rec)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, StatusUnhealthy, res.Status)
	assert.Equal(t, "Monitor not updated for 10m0s", res.Message)
}

func TestReporter_Error(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heartbeat.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a time"), 0o644))

	r := NewReporter(heartbeat.NewFileStore(path), nil, 0, nil)
	rec := get(t, r, "/health")
	res := decode(t, rec)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, StatusError, res.Status)
	assert.NotEmpty(t, res.Message)
}

func TestReporter_MalformedCheckpoint(t *testing.T) {
	s := newStores(t)
	require.NoError(t, s.hb.Beat(context.Background(), now))
	require.NoError(t, os.WriteFile(s.cp.(*checkpoint.FileStore).Path(), []byte("abc"), 0o644))

	rec := get(t, newTestReporter(t, s), "/health")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, StatusError, decode(t, rec).Status)
}

func TestRouter(t *testing.T) {
	s := newStores(t)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Polls.Inc()

	router := NewRouter(newTestReporter(t, s), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	assert.Equal(t, http.StatusOK, get(t, router, "/health").Code)

	rec := get(t, router, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cpme_monitor_polls_total 1")

	assert.Equal(t, http.StatusNotFound, get(t, router, "/").Code)
}
