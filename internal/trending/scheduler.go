package trending

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrRefreshInProgress is returned when a manual refresh is requested while
// a cycle is already executing.
var ErrRefreshInProgress = errors.New("trending refresh already in progress")

// Refresher runs one aggregation cycle.
type Refresher interface {
	Refresh(ctx context.Context, limit int) error
}

// SchedulerConfig carries the aggregation schedule knobs.
type SchedulerConfig struct {
	Enabled   bool
	Interval  time.Duration
	Timeout   time.Duration
	CacheSize int
}

// Status is the externally visible state of the scheduler.
type Status struct {
	Enabled     bool       `json:"enabled"`
	IsRunning   bool       `json:"isRunning"`
	LastRunTime *time.Time `json:"lastRunTime"`
	LastError   string     `json:"lastError,omitempty"`
	Schedule    string     `json:"schedule"`
}

// Scheduler drives the trending Refresher on a fixed interval with one
// immediate cycle at start. A single in-memory flag prevents overlapping
// cycles within the process; storage-level locking is not used. All state
// lives on the instance so tests can construct isolated schedulers.
type Scheduler struct {
	service Refresher
	cfg     SchedulerConfig
	logger  *zap.Logger

	mu          sync.Mutex
	running     bool
	started     bool
	lastRunTime *time.Time
	lastErr     error
	stop        chan struct{}
}

// NewScheduler creates a new Scheduler
func NewScheduler(service Refresher, cfg SchedulerConfig, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		service: service,
		cfg:     cfg,
		logger:  logger,
		stop:    make(chan struct{}),
	}
}

// Start launches the interval loop and kicks off one immediate cycle.
// It is a no-op when the scheduler is disabled or already started.
func (s *Scheduler) Start() {
	if !s.cfg.Enabled {
		s.logger.Info("trending scheduler disabled")
		return
	}

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info("starting trending scheduler", zap.Duration("interval", s.cfg.Interval))

	go func() {
		if err := s.executeRefresh(); err != nil && !errors.Is(err, ErrRefreshInProgress) {
			s.logger.Error("initial trending refresh failed", zap.Error(err))
		}

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				err := s.executeRefresh()
				if errors.Is(err, ErrRefreshInProgress) {
					s.logger.Warn("trending refresh still in progress, skipping cycle")
				} else if err != nil {
					s.logger.Error("scheduled trending refresh failed", zap.Error(err))
				}
			}
		}
	}()
}

// Stop halts the interval loop. An in-flight cycle is not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	close(s.stop)
	s.logger.Info("trending scheduler stopped")
}

// RefreshNow triggers an immediate cycle on behalf of an administrator.
// It fails with ErrRefreshInProgress rather than queueing behind a running
// cycle.
func (s *Scheduler) RefreshNow() error {
	return s.executeRefresh()
}

// Status reports the scheduler's current state
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{
		Enabled:     s.cfg.Enabled && s.started,
		IsRunning:   s.running,
		LastRunTime: s.lastRunTime,
		Schedule:    s.cfg.Interval.String(),
	}
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
	}
	return status
}

// executeRefresh runs one guarded cycle, racing the aggregation work
// against the configured timeout. The timeout only stops the wait: the
// losing cycle is abandoned in place and its writes may still land.
func (s *Scheduler) executeRefresh() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrRefreshInProgress
	}
	s.running = true
	s.lastErr = nil
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- s.service.Refresh(context.Background(), s.cfg.CacheSize)
	}()

	var err error
	select {
	case err = <-done:
	case <-time.After(s.cfg.Timeout):
		err = fmt.Errorf("trending refresh timed out after %s", s.cfg.Timeout)
	}

	s.mu.Lock()
	if err != nil {
		s.lastErr = err
	} else {
		now := time.Now()
		s.lastRunTime = &now
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("trending refresh failed", zap.Error(err))
		return err
	}
	s.logger.Info("trending refresh completed", zap.Duration("duration", time.Since(start)))
	return nil
}
