package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"match-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfile(id, owner string) *domain.Profile {
	return &domain.Profile{
		ID: id, OwnerID: owner, Name: id, Age: 30, Gender: "Female",
		Location: "Tallinn", Description: "hello",
	}
}

func TestProfileStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewProfileStore()

	require.NoError(t, s.Create(ctx, newProfile("p1", "acc1")))
	assert.ErrorIs(t, s.Create(ctx, newProfile("p1", "acc1")), domain.ErrConflict)

	got, err := s.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.NotNil(t, got.Likes)

	// returned copies never alias stored state
	got.Likes = append(got.Likes, "x")
	again, _ := s.GetByID(ctx, "p1")
	assert.Empty(t, again.Likes)

	_, err = s.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileStoreUpdateVersioning(t *testing.T) {
	ctx := context.Background()
	s := NewProfileStore()
	require.NoError(t, s.Create(ctx, newProfile("p1", "acc1")))

	first, _ := s.GetByID(ctx, "p1")
	second, _ := s.GetByID(ctx, "p1")

	first.Name = "renamed"
	require.NoError(t, s.Update(ctx, first))
	assert.Equal(t, int64(2), first.Version)

	second.Location = "Tartu"
	assert.ErrorIs(t, s.Update(ctx, second), domain.ErrConflict)

	stored, _ := s.GetByID(ctx, "p1")
	assert.Equal(t, "renamed", stored.Name)
	assert.Equal(t, "Tallinn", stored.Location)
}

func TestApplySetOpsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewProfileStore()
	require.NoError(t, s.Create(ctx, newProfile("p1", "acc1")))

	op := domain.SetOp{Set: domain.SetLikes, Add: []string{"p2"}}
	require.NoError(t, s.ApplySetOps(ctx, "p1", op))
	require.NoError(t, s.ApplySetOps(ctx, "p1", op))

	got, _ := s.GetByID(ctx, "p1")
	assert.Equal(t, []string{"p2"}, got.Likes)

	assert.ErrorIs(t, s.ApplySetOps(ctx, "nope", op), domain.ErrNotFound)
}

func TestApplySetOpsConcurrentWritersDoNotClobber(t *testing.T) {
	ctx := context.Background()
	s := NewProfileStore()
	require.NoError(t, s.Create(ctx, newProfile("target", "acc1")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			set := domain.SetLikedBy
			if i%2 == 1 {
				set = domain.SetDislikedBy
			}
			_ = s.ApplySetOps(ctx, "target", domain.SetOp{Set: set, Add: []string{fmt.Sprintf("p%d", i)}})
		}(i)
	}
	wg.Wait()

	got, _ := s.GetByID(ctx, "target")
	assert.Len(t, got.LikedBy, 25)
	assert.Len(t, got.DislikedBy, 25)
}

func TestDeleteTombstonesAndSweep(t *testing.T) {
	ctx := context.Background()
	s := NewProfileStore()
	require.NoError(t, s.Create(ctx, newProfile("a", "acc1")))
	require.NoError(t, s.Create(ctx, newProfile("b", "acc2")))
	require.NoError(t, s.Create(ctx, newProfile("c", "acc3")))
	require.NoError(t, s.ApplySetOps(ctx, "a", domain.SetOp{Set: domain.SetMatched, Add: []string{"b"}}))
	require.NoError(t, s.ApplySetOps(ctx, "c", domain.SetOp{Set: domain.SetLikedBy, Add: []string{"b"}}))

	require.NoError(t, s.Delete(ctx, "b"))
	assert.ErrorIs(t, s.Delete(ctx, "b"), domain.ErrNotFound)

	pending, err := s.PendingTombstones(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, pending)

	touched, err := s.RemoveReferences(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), touched)

	require.NoError(t, s.ClearTombstone(ctx, "b"))
	pending, _ = s.PendingTombstones(ctx, 10)
	assert.Empty(t, pending)

	a, _ := s.GetByID(ctx, "a")
	c, _ := s.GetByID(ctx, "c")
	assert.Empty(t, a.Matched)
	assert.Empty(t, c.LikedBy)
}

func TestListByOwner(t *testing.T) {
	ctx := context.Background()
	s := NewProfileStore()
	require.NoError(t, s.Create(ctx, newProfile("a", "acc1")))
	require.NoError(t, s.Create(ctx, newProfile("b", "acc2")))
	require.NoError(t, s.Create(ctx, newProfile("c", "acc1")))

	owned, err := s.ListByOwner(ctx, "acc1")
	require.NoError(t, err)
	require.Len(t, owned, 2)

	all, _ := s.List(ctx)
	assert.Len(t, all, 3)
}

func TestAccountStore(t *testing.T) {
	ctx := context.Background()
	s := NewAccountStore()
	require.NoError(t, s.Create(ctx, &domain.Account{ID: "acc1", Email: "a@example.com"}))
	assert.ErrorIs(t, s.Create(ctx, &domain.Account{ID: "acc2", Email: "a@example.com"}), domain.ErrEmailTaken)

	got, err := s.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "acc1", got.ID)

	_, err = s.GetByID(ctx, "acc9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplySetOpsUnlessMatched(t *testing.T) {
	s := NewProfileStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, &domain.Profile{ID: "a", OwnerID: "o"}))
	op := domain.SetOp{Set: domain.SetDislikes, Add: []string{"b"}}

	applied, err := s.ApplySetOpsUnlessMatched(ctx, "a", "b", op)
	require.NoError(t, err)
	assert.True(t, applied)

	require.NoError(t, s.ApplySetOps(ctx, "a",
		domain.SetOp{Set: domain.SetDislikes, Remove: []string{"b"}},
		domain.SetOp{Set: domain.SetMatched, Add: []string{"b"}}))

	applied, err = s.ApplySetOpsUnlessMatched(ctx, "a", "b", op)
	require.NoError(t, err)
	assert.False(t, applied)

	p, err := s.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, p.Dislikes)

	_, err = s.ApplySetOpsUnlessMatched(ctx, "nope", "b", op)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
