package usecase

import (
	"context"
	"errors"
	"fmt"

	"match-backend/internal/domain"
	"match-backend/pkg/logger"
	"match-backend/pkg/metrics"
)

type reactionUsecase struct {
	repo domain.ProfileRepository
}

func NewReactionUsecase(repo domain.ProfileRepository) domain.ReactionUsecase {
	return &reactionUsecase{repo: repo}
}

// reactionOps returns the membership changes for both records. A reaction
// always clears the opposite reaction for the pair so a profile is never
// liked and disliked by the same profile at once.
func reactionOps(action domain.Action, actorID, targetID string) (actorOps, targetOps []domain.SetOp) {
	mine, opposite := domain.SetLikes, domain.SetDislikes
	theirs, theirOpposite := domain.SetLikedBy, domain.SetDislikedBy
	if action == domain.ActionDislike {
		mine, opposite = opposite, mine
		theirs, theirOpposite = theirOpposite, theirs
	}

	actorOps = []domain.SetOp{
		{Set: mine, Add: []string{targetID}},
		{Set: opposite, Remove: []string{targetID}},
	}
	targetOps = []domain.SetOp{
		{Set: theirs, Add: []string{actorID}},
		{Set: theirOpposite, Remove: []string{actorID}},
	}
	return actorOps, targetOps
}

// ApplyReaction records action from actorID toward targetID on both
// records. The two writes are independent; if the second fails, re-running
// the same reaction repairs it without duplicating the first.
func (u *reactionUsecase) ApplyReaction(ctx context.Context, actorID, targetID string, action domain.Action) (*domain.ReactionResult, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("%q: %w", action, domain.ErrInvalidAction)
	}
	if actorID == targetID {
		return nil, domain.ErrSelfReaction
	}

	actor, err := u.repo.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("actor profile %s: %w", actorID, err)
	}
	if err := requireOwnership(ctx, actor); err != nil {
		return nil, err
	}
	if _, err := u.repo.GetByID(ctx, targetID); err != nil {
		return nil, fmt.Errorf("target profile %s: %w", targetID, err)
	}

	result := &domain.ReactionResult{ActorID: actorID, TargetID: targetID, Action: action}

	// No un-match path exists, so a matched pair ignores further reactions.
	if actor.Has(domain.SetMatched, targetID) {
		result.AlreadyMatched = true
		return result, nil
	}

	// Both writes re-check the match inside the store, since a resolve can
	// commit after the reads above.
	actorOps, targetOps := reactionOps(action, actorID, targetID)
	applied, err := u.repo.ApplySetOpsUnlessMatched(ctx, actorID, targetID, actorOps...)
	if err != nil {
		return nil, fmt.Errorf("update actor profile %s: %w", actorID, err)
	}
	if !applied {
		result.AlreadyMatched = true
		return result, nil
	}

	applied, err = u.repo.ApplySetOpsUnlessMatched(ctx, targetID, actorID, targetOps...)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The target was deleted after the reads; its tombstone may
			// already be swept, so drop the reference written above.
			u.dropReference(ctx, actorID, targetID)
		} else {
			logger.Log.Warn("Reaction applied to actor only", "actor_id", actorID, "target_id", targetID, "error", err)
		}
		return nil, fmt.Errorf("update target profile %s: %w", targetID, err)
	}
	if !applied {
		// The match committed between the two writes and cleared the
		// actor side as well.
		result.AlreadyMatched = true
		return result, nil
	}
	metrics.ReactionsTotal.WithLabelValues(string(action)).Inc()

	if action == domain.ActionLike {
		fresh, err := u.repo.GetByID(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("actor profile %s: %w", actorID, err)
		}
		result.Mutual = fresh.Has(domain.SetLikes, targetID) && fresh.Has(domain.SetLikedBy, targetID)
	}

	logger.Log.Debug("Reaction applied",
		"actor_id", actorID, "target_id", targetID, "action", action, "mutual", result.Mutual)
	return result, nil
}

// dropReference removes deletedID from every relation set of profileID.
func (u *reactionUsecase) dropReference(ctx context.Context, profileID, deletedID string) {
	if err := u.repo.ApplySetOps(ctx, profileID, removeFromAllSets(deletedID)...); err != nil {
		logger.Log.Error("Failed to drop reference to deleted profile",
			"profile_id", profileID, "deleted_id", deletedID, "error", err)
	}
}

func removeFromAllSets(id string) []domain.SetOp {
	ops := make([]domain.SetOp, 0, len(domain.RelationSets))
	for _, set := range domain.RelationSets {
		ops = append(ops, domain.SetOp{Set: set, Remove: []string{id}})
	}
	return ops
}
