package serv

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultGSTimeout = 15 * time.Second

type Shutdowner interface {
	Shutdown(context.Context) error
}

type ShutdownerFunc func(context.Context) error

func (fnc ShutdownerFunc) Shutdown(ctx context.Context) error {
	return fnc(ctx)
}

// Shuts down all services concurrently and waits until they complete
// or timeout expires. Returns false on timeout.
func ShutdownAll(timeout time.Duration, log *zap.Logger, shutdowners ...Shutdowner) bool {
	if timeout <= 0 {
		timeout = DefaultGSTimeout
	}

	log.Info("starting shut down", zap.Duration("timeout", timeout))
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(len(shutdowners))

	for _, shutdowner := range shutdowners {
		go func(shutdowner Shutdowner) {
			defer wg.Done()

			if e := shutdowner.Shutdown(ctx); e != nil {
				log.Error("shutdown failed", zap.Error(e))
			}
		}(shutdowner)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	// block until all services completed their work or timeout
	select {
	case <-done:
		log.Info("ending shut down")
		return true
	case <-ctx.Done():
		log.Error("shut down timed out", zap.Error(ctx.Err()))
		return false
	}
}
