package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Poller is the unit of work the scheduler drives.
type Poller interface {
	Poll(ctx context.Context) (Result, error)
}

// Scheduler owns the polling timer. Ticks that fire while a previous poll is
// still running are dropped.
type Scheduler struct {
	poller   Poller
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

// NewScheduler builds a stopped scheduler. Intervals below one second are
// rounded up by the underlying cron schedule.
func NewScheduler(poller Poller, interval, timeout time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Scheduler{poller: poller, interval: interval, timeout: timeout, logger: logger}
}

// Start begins polling. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	adapter := cronLogger{s.logger.Sugar()}
	c := cron.New(cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)))
	c.Schedule(cron.Every(s.interval), cron.FuncJob(func() { s.tick(ctx) }))
	c.Start()

	s.cron = c
	s.cancel = cancel
	s.logger.Info("reconciler started", zap.Duration("interval", s.interval))
}

// Stop halts polling, cancels an outstanding fetch and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
	s.logger.Info("reconciler stopped")
}

// Running reports whether the scheduler is started.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

func (s *Scheduler) tick(parent context.Context) {
	ctx := parent
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, s.timeout)
		defer cancel()
	}
	// Background failures stay quiet; the next tick retries.
	if _, err := s.poller.Poll(ctx); err != nil {
		s.logger.Debug("background poll failed", zap.Error(err))
	}
}

type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
