package usecase_test

import (
	"context"
	"sync"
	"testing"

	"match-backend/internal/domain"
	"match-backend/internal/repository/memory"
	"match-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hookedStore lets a test commit a competing operation inside the gap
// between a usecase's reads and its writes. Each hook runs once, right
// after the numbered call returns.
type hookedStore struct {
	*memory.ProfileStore

	mu           sync.Mutex
	gets, writes int
	afterGet     map[int]func()
	afterWrite   map[int]func()
}

func newHookedStore(store *memory.ProfileStore) *hookedStore {
	return &hookedStore{
		ProfileStore: store,
		afterGet:     map[int]func(){},
		afterWrite:   map[int]func(){},
	}
}

func (h *hookedStore) next(counter *int, hooks map[int]func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	*counter++
	hook := hooks[*counter]
	delete(hooks, *counter)
	return hook
}

func (h *hookedStore) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	p, err := h.ProfileStore.GetByID(ctx, id)
	if hook := h.next(&h.gets, h.afterGet); hook != nil {
		hook()
	}
	return p, err
}

func (h *hookedStore) ApplySetOpsUnlessMatched(ctx context.Context, id, other string, ops ...domain.SetOp) (bool, error) {
	applied, err := h.ProfileStore.ApplySetOpsUnlessMatched(ctx, id, other, ops...)
	if hook := h.next(&h.writes, h.afterWrite); hook != nil {
		hook()
	}
	return applied, err
}

func assertMatchedAndCleared(t *testing.T, store *memory.ProfileStore, a, b string) {
	t.Helper()
	pa, pb := load(t, store, a), load(t, store, b)
	assert.Equal(t, []string{b}, pa.Matched)
	assert.Equal(t, []string{a}, pb.Matched)
	assertClearedPair(t, pa, b)
	assertClearedPair(t, pb, a)
}

func TestReactionAfterResolveCommitsPastTheReads(t *testing.T) {
	store := memory.NewProfileStore()
	seed(t, store, "A", "B")
	mutualLike(t, store, "A", "B")

	hooked := newHookedStore(store)
	matches := usecase.NewMatchUsecase(store)
	hooked.afterGet[1] = func() {
		_, err := matches.Reconcile(asOwner("owner-A"), "A")
		require.NoError(t, err)
	}

	result, err := usecase.NewReactionUsecase(hooked).ApplyReaction(asOwner("owner-A"), "A", "B", domain.ActionDislike)
	require.NoError(t, err)
	assert.True(t, result.AlreadyMatched)
	assertMatchedAndCleared(t, store, "A", "B")
}

func TestReactionWhenResolveCommitsBetweenWrites(t *testing.T) {
	store := memory.NewProfileStore()
	seed(t, store, "A", "B")
	mutualLike(t, store, "A", "B")

	hooked := newHookedStore(store)
	matches := usecase.NewMatchUsecase(store)
	hooked.afterWrite[1] = func() {
		_, err := matches.Reconcile(asOwner("owner-B"), "B")
		require.NoError(t, err)
	}

	result, err := usecase.NewReactionUsecase(hooked).ApplyReaction(asOwner("owner-A"), "A", "B", domain.ActionDislike)
	require.NoError(t, err)
	assert.True(t, result.AlreadyMatched)
	assertMatchedAndCleared(t, store, "A", "B")
}

func TestReactionTargetDeletedAndSweptMidway(t *testing.T) {
	store := memory.NewProfileStore()
	seed(t, store, "A", "B")

	hooked := newHookedStore(store)
	hooked.afterGet[2] = func() {
		require.NoError(t, store.Delete(context.Background(), "B"))
		_, err := usecase.NewSweepUsecase(store).SweepOnce(context.Background(), 10)
		require.NoError(t, err)
	}

	_, err := usecase.NewReactionUsecase(hooked).ApplyReaction(asOwner("owner-A"), "A", "B", domain.ActionLike)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	a := load(t, store, "A")
	for _, set := range domain.RelationSets {
		assert.Empty(t, a.Set(set), set)
	}
	pending, err := store.PendingTombstones(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestResolveCandidateDeletedAndSweptMidway(t *testing.T) {
	store := memory.NewProfileStore()
	seed(t, store, "A", "B")
	mutualLike(t, store, "A", "B")

	hooked := newHookedStore(store)
	hooked.afterGet[2] = func() {
		require.NoError(t, store.Delete(context.Background(), "B"))
		_, err := usecase.NewSweepUsecase(store).SweepOnce(context.Background(), 10)
		require.NoError(t, err)
	}

	err := usecase.NewMatchUsecase(hooked).ResolveMatches(asOwner("owner-A"), domain.MatchResolution{
		ProfileID: "A", Candidates: []string{"B"},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	a := load(t, store, "A")
	for _, set := range domain.RelationSets {
		assert.Empty(t, a.Set(set), set)
	}
}

func TestReactionsRacingResolveKeepMatchesCleared(t *testing.T) {
	for i := 0; i < 100; i++ {
		store := memory.NewProfileStore()
		seed(t, store, "A", "B")
		mutualLike(t, store, "A", "B")
		reactions := usecase.NewReactionUsecase(store)
		matches := usecase.NewMatchUsecase(store)

		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, _ = matches.Reconcile(asOwner("owner-A"), "A")
		}()
		go func() {
			defer wg.Done()
			_, _ = reactions.ApplyReaction(asOwner("owner-A"), "A", "B", domain.ActionDislike)
		}()
		go func() {
			defer wg.Done()
			_, _ = reactions.ApplyReaction(asOwner("owner-B"), "B", "A", domain.ActionDislike)
		}()
		wg.Wait()

		a, b := load(t, store, "A"), load(t, store, "B")
		require.Equal(t, a.Has(domain.SetMatched, "B"), b.Has(domain.SetMatched, "A"), "iteration %d", i)
		if a.Has(domain.SetMatched, "B") {
			assertClearedPair(t, a, "B")
			assertClearedPair(t, b, "A")
		}
	}
}
