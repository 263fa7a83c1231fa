// Package background holds long-running goroutines that run alongside the HTTP server.
// Each one is started from main and shut down gracefully when its stop channel
// is closed, much like a scheduled provider in Nest.js (`@nestjs/schedule`).
package background

import (
	"log/slog"
	"sync"
	"time"
)

// SessionSweeper is the part of the auth gate the sweeper needs.
// *auth.AuthService satisfies it.
type SessionSweeper interface {
	SweepExpiredSessions(now time.Time) int
}

// Sweeper is a running session sweeper. Wait blocks until it has stopped.
type Sweeper struct {
	wg sync.WaitGroup
}

// Wait blocks until the sweeper goroutine has exited.
func (s *Sweeper) Wait() {
	s.wg.Wait()
}

// StartSessionSweeper purges expired sessions every interval until stopChan is
// closed. `stopChan <-chan struct{}` is a read-only channel: the sweeper can
// only listen for the stop signal, never send one.
func StartSessionSweeper(sweeper SessionSweeper, interval time.Duration, logger *slog.Logger, stopChan <-chan struct{}) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "session_sweeper")

	s := &Sweeper{}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer logger.Info("session sweeper stopped")

		// `time.NewTicker` delivers a value on `ticker.C` every interval.
		// Stopping it on exit releases its resources.
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Info("session sweeper started", "interval", interval)
		for {
			// `select` blocks until either the ticker fires or the stop signal arrives.
			select {
			case now := <-ticker.C:
				if removed := sweeper.SweepExpiredSessions(now); removed > 0 {
					logger.Info("expired sessions purged", "removed", removed)
				} else {
					logger.Debug("no expired sessions")
				}
			case <-stopChan:
				return
			}
		}
	}()
	return s
}
