package health

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Routes /health to the reporter and /metrics to the metrics handler,
// the default Prometheus registry when nil.
func NewRouter(reporter *Reporter, metrics http.Handler) http.Handler {
	if metrics == nil {
		metrics = promhttp.Handler()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/health", reporter)
	r.Method(http.MethodGet, "/metrics", metrics)

	return r
}

// Starts serving handler in background.
func BootstrapServer(addr string, handler http.Handler, l *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		l.Info("health server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("health server error", zap.Error(err))
		}
	}()

	return srv
}

