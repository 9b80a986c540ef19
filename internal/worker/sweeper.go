package worker

import (
	"context"
	"time"

	"match-backend/internal/domain"
	"match-backend/pkg/logger"
)

type SweeperConfig struct {
	Interval  time.Duration
	BatchSize int
}

// Sweeper periodically removes references to deleted profiles from the
// relation sets of the profiles that remain.
type Sweeper struct {
	sweepUC domain.SweepUsecase
	config  SweeperConfig
}

func NewSweeper(sweepUC domain.SweepUsecase, config SweeperConfig) *Sweeper {
	if config.Interval <= 0 {
		config.Interval = 30 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	return &Sweeper{sweepUC: sweepUC, config: config}
}

// Run sweeps once right away and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	logger.Log.Info("Tombstone sweeper starting", "interval", s.config.Interval.String(), "batch_size", s.config.BatchSize)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		s.drain(ctx)

		select {
		case <-ctx.Done():
			logger.Log.Info("Tombstone sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

// drain keeps sweeping full batches so a backlog clears within one tick.
func (s *Sweeper) drain(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := s.sweepUC.SweepOnce(ctx, s.config.BatchSize)
		if err != nil {
			if ctx.Err() == nil {
				logger.Log.Error("Tombstone sweep failed", "error", err)
			}
			return
		}
		if n > 0 {
			logger.Log.Debug("Swept deleted profiles", "count", n)
		}
		if n < s.config.BatchSize {
			return
		}
	}
}
