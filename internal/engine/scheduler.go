package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Scheduler drives periodic refresh passes. Start replaces any running loop;
// Stop is a no-op when nothing runs and guarantees no scheduled pass mutates
// state after it returns.
type Scheduler struct {
	engine   *Engine
	interval time.Duration
	log      *logrus.Entry

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(e *Engine, interval time.Duration, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		engine:   e,
		interval: interval,
		log:      logger.WithField("component", "scheduler"),
	}
}

// Start launches the periodic loop. A loop already running is stopped first,
// so a double start leaves exactly one active timer.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.run(loopCtx, done)
	s.log.WithField("interval", s.interval.String()).Info("scheduler started")
}

// Stop cancels the loop and waits for it to settle. Stopping a stopped
// scheduler does nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
	s.log.Info("scheduler stopped")
}

// Running reports whether the periodic loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.engine.Refresh(ctx); err != nil {
				if errors.Is(err, ErrRefreshInFlight) || errors.Is(err, context.Canceled) {
					continue
				}
				s.log.WithError(err).Warn("scheduled refresh failed")
			}
		}
	}
}
