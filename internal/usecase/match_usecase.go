package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"match-backend/internal/domain"
	"match-backend/pkg/logger"
	"match-backend/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

type matchUsecase struct {
	repo domain.ProfileRepository
}

func NewMatchUsecase(repo domain.ProfileRepository) domain.MatchUsecase {
	return &matchUsecase{repo: repo}
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// removals returns the members to drop from current so that it ends up as
// updated, always including the candidates. Members present in updated but
// not in current are ignored: pending edges are only created by reactions.
func removals(current, updated, candidates []string) []string {
	out := slices.Clone(candidates)
	if updated == nil {
		return out
	}
	for _, id := range current {
		if !slices.Contains(updated, id) && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// ResolveMatches promotes res.Candidates to matches on res.ProfileID and on
// every candidate. The owner record and each candidate record are written
// independently; a failure can leave earlier writes in place and a retry
// with the same input completes them.
func (u *matchUsecase) ResolveMatches(ctx context.Context, res domain.MatchResolution) error {
	owner, err := u.repo.GetByID(ctx, res.ProfileID)
	if err != nil {
		return fmt.Errorf("profile %s: %w", res.ProfileID, err)
	}
	if err := requireOwnership(ctx, owner); err != nil {
		return err
	}

	candidates := dedupe(res.Candidates)
	if len(candidates) == 0 {
		return fmt.Errorf("no match candidates: %w", domain.ErrInvalidInput)
	}
	for _, c := range candidates {
		if c == owner.ID {
			return domain.ErrSelfReaction
		}
		if _, err := u.repo.GetByID(ctx, c); err != nil {
			return fmt.Errorf("candidate profile %s: %w", c, err)
		}
		// Already matched pairs are accepted and re-applied idempotently.
		if owner.Has(domain.SetMatched, c) {
			continue
		}
		if !owner.Has(domain.SetLikes, c) || !owner.Has(domain.SetLikedBy, c) {
			return fmt.Errorf("candidate profile %s: %w", c, domain.ErrNotMutual)
		}
	}

	ownerOps := []domain.SetOp{
		{Set: domain.SetLikes, Remove: removals(owner.Likes, res.UpdatedLikes, candidates)},
		{Set: domain.SetLikedBy, Remove: removals(owner.LikedBy, res.UpdatedLikedBy, candidates)},
		{Set: domain.SetDislikes, Remove: candidates},
		{Set: domain.SetDislikedBy, Remove: candidates},
		{Set: domain.SetMatched, Add: candidates},
	}
	if err := u.repo.ApplySetOps(ctx, owner.ID, ownerOps...); err != nil {
		return fmt.Errorf("update profile %s: %w", owner.ID, err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, c := range candidates {
		g.Go(func() error {
			ops := []domain.SetOp{{Set: domain.SetMatched, Add: []string{owner.ID}}}
			for _, set := range domain.PendingSets {
				ops = append(ops, domain.SetOp{Set: set, Remove: []string{owner.ID}})
			}
			if err := u.repo.ApplySetOps(gCtx, c, ops...); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Deleted after the checks above; its tombstone may be
					// swept already, so the owner must not keep the id.
					if dropErr := u.repo.ApplySetOps(ctx, owner.ID, removeFromAllSets(c)...); dropErr != nil {
						logger.Log.Error("Failed to drop reference to deleted profile",
							"profile_id", owner.ID, "deleted_id", c, "error", dropErr)
					}
				}
				return fmt.Errorf("update candidate profile %s: %w", c, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Log.Warn("Match resolution incomplete", "profile_id", owner.ID, "error", err)
		return err
	}

	metrics.MatchesResolvedTotal.Add(float64(len(candidates)))
	if len(candidates) > 0 {
		logger.Log.Info("Matches resolved", "profile_id", owner.ID, "candidates", candidates)
	}
	return nil
}

// Reconcile promotes every profile that both likes and is liked by
// profileID.
func (u *matchUsecase) Reconcile(ctx context.Context, profileID string) ([]string, error) {
	profile, err := u.repo.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", profileID, err)
	}
	if err := requireOwnership(ctx, profile); err != nil {
		return nil, err
	}

	candidates := []string{}
	for _, id := range profile.Likes {
		if profile.Has(domain.SetLikedBy, id) {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return candidates, nil
	}

	err = u.ResolveMatches(ctx, domain.MatchResolution{
		ProfileID:  profileID,
		Candidates: candidates,
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func (u *matchUsecase) ListMatches(ctx context.Context, profileID string) ([]*domain.Profile, error) {
	profile, err := u.repo.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", profileID, err)
	}
	return u.repo.GetByIDs(ctx, profile.Matched)
}
