package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SaleFacade exposes the subset of application functionality required by the
// sweeper.
type SaleFacade interface {
	CloseExpiredTimesales(ctx context.Context) (int64, error)
}

// TimesaleSweeper periodically closes time sales whose persisted expiry has
// passed. Running it off the stored expires_at keeps expiry correct across
// process restarts, unlike a one-shot in-memory timer.
type TimesaleSweeper struct {
	facade   SaleFacade
	interval time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewTimesaleSweeper constructs the sweeper.
func NewTimesaleSweeper(facade SaleFacade, interval time.Duration, logger *slog.Logger) *TimesaleSweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &TimesaleSweeper{
		facade:   facade,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the background sweep loop.
func (s *TimesaleSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(runCtx)
}

// Stop waits for the sweep loop to finish.
func (s *TimesaleSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *TimesaleSweeper) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *TimesaleSweeper) sweep(ctx context.Context) {
	closed, err := s.facade.CloseExpiredTimesales(ctx)
	if err != nil {
		s.logger.Error("timesale expiry sweep failed", slog.String("error", err.Error()))
		return
	}
	if closed > 0 {
		s.logger.Info("closed expired timesales", slog.Int64("count", closed))
	}
}
