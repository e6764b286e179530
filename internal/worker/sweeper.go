// Package worker runs background jobs that re-evaluate time-based state.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"campus-market/internal/usecase/commands"
)

const sweepBatchSize = 100

// AcceptanceSweeper periodically cancels pending matches whose acceptance
// window has elapsed. Without it a lapsed match is only resolved when one
// of the parties calls accept.
type AcceptanceSweeper struct {
	matches  commands.MatchCommands
	interval time.Duration
	slogger  *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAcceptanceSweeper(matches commands.MatchCommands, interval time.Duration, slogger *slog.Logger) *AcceptanceSweeper {
	return &AcceptanceSweeper{matches: matches, interval: interval, slogger: slogger}
}

func (s *AcceptanceSweeper) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()
	s.slogger.Info("acceptance sweeper started", slog.Duration("interval", s.interval))
	return nil
}

func (s *AcceptanceSweeper) Stop(_ context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	return nil
}

func (s *AcceptanceSweeper) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce drains every lapsed match, one batch at a time.
func (s *AcceptanceSweeper) RunOnce(ctx context.Context) int {
	total := 0
	for ctx.Err() == nil {
		n, err := s.matches.ExpireStale(ctx, sweepBatchSize)
		total += n
		if err != nil {
			s.slogger.Error("acceptance sweep failed", slog.String("error", err.Error()))
			break
		}
		if n < sweepBatchSize {
			break
		}
	}
	if total > 0 {
		s.slogger.Info("acceptance sweep cancelled matches", slog.Int("count", total))
	}
	return total
}
