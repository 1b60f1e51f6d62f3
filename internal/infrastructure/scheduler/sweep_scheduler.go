package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appretention "github.com/invoicemonk/backend/internal/application/retention"
)

// SweepRunner runs a single retention sweep pass.
type SweepRunner interface {
	Run(ctx context.Context) (*appretention.SweepSummary, error)
}

// SweepSchedulerConfig holds configuration for the retention sweep scheduler.
type SweepSchedulerConfig struct {
	// SweepHour and SweepMinute are the time of day (24h) the sweep runs.
	SweepHour   int
	SweepMinute int

	// CheckInterval is how often to check if it's time to run.
	CheckInterval time.Duration

	// RunTimeout bounds a single sweep pass.
	RunTimeout time.Duration
}

// DefaultSweepSchedulerConfig returns default sweep scheduler configuration.
func DefaultSweepSchedulerConfig() SweepSchedulerConfig {
	return SweepSchedulerConfig{
		SweepHour:     3, // 3am
		SweepMinute:   0,
		CheckInterval: time.Minute,
		RunTimeout:    30 * time.Minute,
	}
}

// SweepScheduler triggers the daily retention sweep.
type SweepScheduler struct {
	config SweepSchedulerConfig
	runner SweepRunner
	logger *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string // Track which date we last ran for
	now         func() time.Time
}

// NewSweepScheduler creates a new retention sweep scheduler.
func NewSweepScheduler(config SweepSchedulerConfig, runner SweepRunner, logger *zap.Logger) *SweepScheduler {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SweepScheduler{
		config: config,
		runner: runner,
		logger: logger,
		now:    time.Now,
	}
}

// Start starts the sweep scheduler.
func (s *SweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Retention sweep scheduler started",
		zap.Int("sweep_hour", s.config.SweepHour),
		zap.Int("sweep_minute", s.config.SweepMinute),
		zap.Duration("check_interval", s.config.CheckInterval),
	)

	return nil
}

// Stop stops the sweep scheduler.
func (s *SweepScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Retention sweep scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically if it's time to run the sweep.
func (s *SweepScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger runs the sweep if the configured time has arrived and
// it has not already run today.
func (s *SweepScheduler) checkAndTrigger(ctx context.Context) {
	now := s.now()
	currentDate := now.Format("2006-01-02")

	s.mu.Lock()
	if s.lastRunDate == currentDate {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if now.Hour() != s.config.SweepHour || now.Minute() != s.config.SweepMinute {
		return
	}

	s.mu.Lock()
	s.lastRunDate = currentDate
	s.mu.Unlock()

	s.triggerSweep(ctx)
}

// TriggerNow runs a sweep immediately, outside the daily schedule.
func (s *SweepScheduler) TriggerNow(ctx context.Context) (*appretention.SweepSummary, error) {
	runCtx := ctx
	if s.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.config.RunTimeout)
		defer cancel()
	}
	return s.runner.Run(runCtx)
}

func (s *SweepScheduler) triggerSweep(ctx context.Context) {
	s.logger.Info("Triggering retention sweep")

	summary, err := s.TriggerNow(ctx)
	if err != nil {
		s.logger.Error("Retention sweep failed", zap.Error(err))
		return
	}

	s.logger.Info("Retention sweep completed",
		zap.Int("examined", summary.Examined),
		zap.Int64("documents_deleted", summary.Deleted.Documents),
		zap.Int64("line_items_deleted", summary.Deleted.LineItems),
		zap.Int64("credit_notes_deleted", summary.Deleted.CreditNotes),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.CompletedAt.Sub(summary.StartedAt)),
	)
}
