package usecase

import (
	"context"
	"fmt"

	"match-backend/internal/domain"
	"match-backend/pkg/logger"
	"match-backend/pkg/metrics"
)

type sweepUsecase struct {
	repo domain.ProfileRepository
}

func NewSweepUsecase(repo domain.ProfileRepository) domain.SweepUsecase {
	return &sweepUsecase{repo: repo}
}

// SweepOnce removes references to deleted profiles. A tombstone is cleared
// only after its references are gone, so an interrupted pass is resumed by
// the next one.
func (u *sweepUsecase) SweepOnce(ctx context.Context, limit int) (int, error) {
	ids, err := u.repo.PendingTombstones(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list tombstones: %w", err)
	}

	swept := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return swept, err
		}
		touched, err := u.repo.RemoveReferences(ctx, id)
		if err != nil {
			return swept, err
		}
		if err := u.repo.ClearTombstone(ctx, id); err != nil {
			return swept, fmt.Errorf("clear tombstone %s: %w", id, err)
		}
		metrics.SweptReferencesTotal.Add(float64(touched))
		logger.Log.Debug("Swept deleted profile", "profile_id", id, "profiles_touched", touched)
		swept++
	}
	return swept, nil
}
