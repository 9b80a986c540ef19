package domain

import (
	"context"
	"strings"
)

type Action string

const (
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
)

func (a Action) Valid() bool {
	return a == ActionLike || a == ActionDislike
}

// ParseAction accepts the action name in any letter case.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", ErrInvalidAction
	}
	return a, nil
}

type ReactionResult struct {
	ActorID        string `json:"actor_id"`
	TargetID       string `json:"target_id"`
	Action         Action `json:"action"`
	Mutual         bool   `json:"mutual"`
	AlreadyMatched bool   `json:"already_matched"`
}

// MatchResolution commits the promotion of Candidates to matches for
// ProfileID. A nil UpdatedLikes or UpdatedLikedBy means "current set minus
// the candidates".
type MatchResolution struct {
	ProfileID      string
	Candidates     []string
	UpdatedLikes   []string
	UpdatedLikedBy []string
}

type ReactionUsecase interface {
	ApplyReaction(ctx context.Context, actorID, targetID string, action Action) (*ReactionResult, error)
}

type MatchUsecase interface {
	ResolveMatches(ctx context.Context, res MatchResolution) error
	// Reconcile detects mutual likes of profileID and resolves them.
	Reconcile(ctx context.Context, profileID string) ([]string, error)
	ListMatches(ctx context.Context, profileID string) ([]*Profile, error)
}

type SweepUsecase interface {
	// SweepOnce processes up to limit tombstones and returns how many
	// deleted profiles were fully cleaned up.
	SweepOnce(ctx context.Context, limit int) (int, error)
}
