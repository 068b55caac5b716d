// Package health reports monitor liveness over HTTP.
//
// The reporter only reads the heartbeat and checkpoint stores written by the
// monitor loop, so it can run inside the worker process or as a separate
// process sharing the same storage.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cpme_monitor/pkg/checkpoint"
	"cpme_monitor/pkg/heartbeat"

	"go.uber.org/zap"
)

const (
	StatusStarting  = "starting"
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusError     = "error"

	DefaultStaleAfter = 5 * time.Minute
	checkTimeout      = 2 * time.Second
)

type Response struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	LastCount *int   `json:"last_count,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Reporter struct {
	heartbeat  heartbeat.Store
	checkpoint checkpoint.Store // not mandatory
	staleAfter time.Duration
	now        func() time.Time
	log        *zap.Logger
}

func NewReporter(hb heartbeat.Store, cp checkpoint.Store, staleAfter time.Duration, log *zap.Logger) *Reporter {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Reporter{
		heartbeat:  hb,
		checkpoint: cp,
		staleAfter: staleAfter,
		now:        time.Now,
		log:        log.With(zap.String("component", "health")),
	}
}

// Classifies liveness by the age of the latest heartbeat.
func (r *Reporter) Check(ctx context.Context) (int, Response) {
	now := r.now()
	res := Response{Timestamp: now.UTC().Format(time.RFC3339)}

	last, found, err := r.heartbeat.Last(ctx)
	if err != nil {
		return r.failed(res, err)
	}
	if !found {
		res.Status, res.Message = StatusStarting, "Monitor starting up"
		return http.StatusOK, res
	}

	age := now.Sub(last).Truncate(time.Second)
	if !heartbeat.Fresh(last, now, r.staleAfter) {
		res.Status = StatusUnhealthy
		res.Message = fmt.Sprintf("Monitor not updated for %s", age)
		return http.StatusServiceUnavailable, res
	}

	res.Status = StatusHealthy
	res.Message = fmt.Sprintf("Monitor running, updated %s ago", age)

	if r.checkpoint != nil {
		count, ok, err := r.checkpoint.Load(ctx)
		if err != nil {
			return r.failed(res, err)
		}
		if ok {
			res.LastCount = &count
			res.Message = fmt.Sprintf("Monitor running. Last count: %d, updated %s ago", count, age)
		}
	}

	return http.StatusOK, res
}

func (r *Reporter) failed(res Response, err error) (int, Response) {
	r.log.Error("health check failed", zap.Error(err))

	res.Status, res.Message, res.LastCount = StatusError, err.Error(), nil

	return http.StatusServiceUnavailable, res
}

func (r *Reporter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), checkTimeout)
	defer cancel()

	code, res := r.Check(ctx)
	writeJSON(w, code, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
