package domain

import (
	"context"
	"slices"
	"time"
)

// RelationSet names one of the five relationship sets carried by a profile.
// The values double as storage column names.
type RelationSet string

const (
	SetLikes      RelationSet = "likes"
	SetDislikes   RelationSet = "dislikes"
	SetLikedBy    RelationSet = "liked_by"
	SetDislikedBy RelationSet = "disliked_by"
	SetMatched    RelationSet = "matched"
)

// RelationSets lists every relationship set in a stable order.
var RelationSets = []RelationSet{SetLikes, SetDislikes, SetLikedBy, SetDislikedBy, SetMatched}

func (s RelationSet) Valid() bool {
	return slices.Contains(RelationSets, s)
}

// PendingSets are the sets that collapse into Matched once a pair is resolved.
var PendingSets = []RelationSet{SetLikes, SetDislikes, SetLikedBy, SetDislikedBy}

type Profile struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner"`
	Name        string    `json:"name" validate:"required,max=100"`
	Age         int       `json:"age" validate:"required,min=18,max=99"`
	Gender      string    `json:"gender" validate:"required,oneof=Male Female"`
	Location    string    `json:"location" validate:"required,max=200"`
	Description string    `json:"description" validate:"required,max=2000"`
	Tag         *string   `json:"tag,omitempty" validate:"omitempty,max=50"`
	Likes       []string  `json:"likes"`
	Dislikes    []string  `json:"dislikes"`
	LikedBy     []string  `json:"liked_by"`
	DislikedBy  []string  `json:"disliked_by"`
	Matched     []string  `json:"matched"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Set returns the members of the named relationship set.
func (p *Profile) Set(s RelationSet) []string {
	switch s {
	case SetLikes:
		return p.Likes
	case SetDislikes:
		return p.Dislikes
	case SetLikedBy:
		return p.LikedBy
	case SetDislikedBy:
		return p.DislikedBy
	case SetMatched:
		return p.Matched
	}
	return nil
}

func (p *Profile) setRef(s RelationSet) *[]string {
	switch s {
	case SetLikes:
		return &p.Likes
	case SetDislikes:
		return &p.Dislikes
	case SetLikedBy:
		return &p.LikedBy
	case SetDislikedBy:
		return &p.DislikedBy
	case SetMatched:
		return &p.Matched
	}
	return nil
}

func (p *Profile) Has(s RelationSet, id string) bool {
	return slices.Contains(p.Set(s), id)
}

// Apply mutates the in-memory sets with ops. Additions never introduce
// duplicates and removals of absent members are no-ops.
func (p *Profile) Apply(ops ...SetOp) {
	for _, op := range ops {
		ref := p.setRef(op.Set)
		if ref == nil {
			continue
		}
		members := slices.DeleteFunc(slices.Clone(*ref), func(m string) bool {
			return slices.Contains(op.Remove, m)
		})
		for _, id := range op.Add {
			if !slices.Contains(members, id) {
				members = append(members, id)
			}
		}
		*ref = members
	}
}

// Clone returns a deep copy so callers cannot alias stored slices.
func (p *Profile) Clone() *Profile {
	c := *p
	if p.Tag != nil {
		tag := *p.Tag
		c.Tag = &tag
	}
	c.Likes = slices.Clone(p.Likes)
	c.Dislikes = slices.Clone(p.Dislikes)
	c.LikedBy = slices.Clone(p.LikedBy)
	c.DislikedBy = slices.Clone(p.DislikedBy)
	c.Matched = slices.Clone(p.Matched)
	return &c
}

// Normalize replaces nil sets with empty ones so they serialize as [].
func (p *Profile) Normalize() {
	for _, s := range RelationSets {
		if ref := p.setRef(s); *ref == nil {
			*ref = []string{}
		}
	}
}

// SetOp is a membership change on a single relationship set. Stores apply
// every op of one call against the current persisted record atomically.
type SetOp struct {
	Set    RelationSet
	Add    []string
	Remove []string
}

// ProfilePatch carries a partial update. Nil fields are left untouched.
type ProfilePatch struct {
	OwnerID         *string
	Name            *string
	Age             *int
	Gender          *string
	Location        *string
	Description     *string
	Tag             *string
	ExpectedVersion *int64
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Profile, error)
	// Update writes the demographic fields when profile.Version still matches
	// the stored version, and bumps the version.
	Update(ctx context.Context, profile *Profile) error
	ApplySetOps(ctx context.Context, id string, ops ...SetOp) error
	// ApplySetOpsUnlessMatched applies ops only while other is absent from
	// the record's matched set, checked within the same atomic write. It
	// reports whether the ops were applied.
	ApplySetOpsUnlessMatched(ctx context.Context, id, other string, ops ...SetOp) (bool, error)
	// Delete removes the profile and records a tombstone for the sweeper.
	Delete(ctx context.Context, id string) error
	PendingTombstones(ctx context.Context, limit int) ([]string, error)
	RemoveReferences(ctx context.Context, deletedID string) (int64, error)
	ClearTombstone(ctx context.Context, deletedID string) error
}

type ProfileUsecase interface {
	List(ctx context.Context) ([]*Profile, error)
	Get(ctx context.Context, id string) (*Profile, error)
	Create(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, id string, patch ProfilePatch) (*Profile, error)
	Delete(ctx context.Context, id string) error
}
