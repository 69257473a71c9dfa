package backup

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-footnotes/internal/logging"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

// Sweeper runs retention pruning at most once per interval. Process is safe
// to call from multiple goroutines; only one caller pays for the prune.
type Sweeper struct {
	service  *Service
	interval time.Duration
	logger   interfaces.Logger
	now      func() time.Time

	mu      sync.Mutex
	lastRun time.Time
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// SweeperWithLogger attaches a logger to the sweeper.
func SweeperWithLogger(logger interfaces.Logger) SweeperOption {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// SweeperWithClock overrides the time source, mainly for tests.
func SweeperWithClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSweeper wraps a backup service with interval gating. A non-positive
// interval disables the gate, so every Process call prunes.
func NewSweeper(service *Service, interval time.Duration, opts ...SweeperOption) (*Sweeper, error) {
	if service == nil {
		return nil, errors.New("backup: sweeper requires a backup service")
	}
	sweeper := &Sweeper{
		service:  service,
		interval: interval,
		logger:   logging.NoOp(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(sweeper)
		}
	}
	return sweeper, nil
}

// Process prunes when the interval has elapsed since the previous run and
// returns the prune report. A skipped run returns a nil report. A failed
// run still counts against the interval so persistent failures do not spin.
func (s *Sweeper) Process(ctx context.Context) (*interfaces.PruneReport, error) {
	s.mu.Lock()
	now := s.now()
	if s.interval > 0 && !s.lastRun.IsZero() && now.Sub(s.lastRun) < s.interval {
		s.mu.Unlock()
		return nil, nil
	}
	s.lastRun = now
	s.mu.Unlock()

	report, err := s.service.Prune(ctx)
	if err != nil {
		s.logger.Error("backup.sweep.failed", "error", err)
		return nil, err
	}
	if report.Removed > 0 || report.BlobsRemoved > 0 {
		s.logger.Info("backup.sweep.completed",
			"examined", report.Examined,
			"removed", report.Removed,
			"blobs_removed", report.BlobsRemoved,
		)
	}
	return report, nil
}

// Run blocks, pruning on every interval tick until the context is done.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("backup: sweep interval must be positive")
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Process(ctx); err != nil && errors.Is(err, context.Canceled) {
				return err
			}
		}
	}
}
