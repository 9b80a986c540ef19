package usecase_test

import (
	"context"
	"errors"
	"testing"

	"match-backend/internal/domain"
	"match-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile).Clone(), args.Error(1)
}

func (m *MockProfileRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Profile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) List(ctx context.Context) ([]*domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Profile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepo) ApplySetOps(ctx context.Context, id string, ops ...domain.SetOp) error {
	return m.Called(ctx, id, ops).Error(0)
}

func (m *MockProfileRepo) ApplySetOpsUnlessMatched(ctx context.Context, id, other string, ops ...domain.SetOp) (bool, error) {
	args := m.Called(ctx, id, other, ops)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProfileRepo) PendingTombstones(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProfileRepo) RemoveReferences(ctx context.Context, deletedID string) (int64, error) {
	args := m.Called(ctx, deletedID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProfileRepo) ClearTombstone(ctx context.Context, deletedID string) error {
	return m.Called(ctx, deletedID).Error(0)
}

func TestReactionTargetWriteFailure(t *testing.T) {
	repo := new(MockProfileRepo)
	uc := usecase.NewReactionUsecase(repo)
	ctx := asOwner("owner-A")
	storeDown := errors.New("store unavailable")

	repo.On("GetByID", ctx, "A").Return(&domain.Profile{ID: "A", OwnerID: "owner-A"}, nil)
	repo.On("GetByID", ctx, "B").Return(&domain.Profile{ID: "B", OwnerID: "owner-B"}, nil)
	repo.On("ApplySetOpsUnlessMatched", ctx, "A", "B", mock.Anything).Return(true, nil).Once()
	repo.On("ApplySetOpsUnlessMatched", ctx, "B", "A", mock.Anything).Return(false, storeDown).Once()

	t.Run("Should surface the target failure without rolling back the actor", func(t *testing.T) {
		_, err := uc.ApplyReaction(ctx, "A", "B", domain.ActionLike)
		assert.ErrorIs(t, err, storeDown)
		repo.AssertNumberOfCalls(t, "ApplySetOpsUnlessMatched", 2)
		repo.AssertNotCalled(t, "ApplySetOps", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should send the same membership ops on retry", func(t *testing.T) {
		repo.On("ApplySetOpsUnlessMatched", ctx, "A", "B", []domain.SetOp{
			{Set: domain.SetLikes, Add: []string{"B"}},
			{Set: domain.SetDislikes, Remove: []string{"B"}},
		}).Return(true, nil).Once()
		repo.On("ApplySetOpsUnlessMatched", ctx, "B", "A", []domain.SetOp{
			{Set: domain.SetLikedBy, Add: []string{"A"}},
			{Set: domain.SetDislikedBy, Remove: []string{"A"}},
		}).Return(true, nil).Once()

		_, err := uc.ApplyReaction(ctx, "A", "B", domain.ActionLike)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestResolveCandidateFailureIsReported(t *testing.T) {
	repo := new(MockProfileRepo)
	uc := usecase.NewMatchUsecase(repo)
	ctx := asOwner("owner-A")

	repo.On("GetByID", ctx, "A").Return(&domain.Profile{
		ID: "A", OwnerID: "owner-A", Likes: []string{"B"}, LikedBy: []string{"B"},
	}, nil)
	repo.On("GetByID", ctx, "B").Return(&domain.Profile{ID: "B", OwnerID: "owner-B"}, nil)
	repo.On("ApplySetOps", ctx, "A", mock.Anything).Return(nil)
	repo.On("ApplySetOps", mock.Anything, "B", mock.Anything).Return(domain.ErrNotFound)

	err := uc.ResolveMatches(ctx, domain.MatchResolution{ProfileID: "A", Candidates: []string{"B"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The missing candidate is dropped from every set of the owner.
	repo.AssertCalled(t, "ApplySetOps", ctx, "A", []domain.SetOp{
		{Set: domain.SetLikes, Remove: []string{"B"}},
		{Set: domain.SetDislikes, Remove: []string{"B"}},
		{Set: domain.SetLikedBy, Remove: []string{"B"}},
		{Set: domain.SetDislikedBy, Remove: []string{"B"}},
		{Set: domain.SetMatched, Remove: []string{"B"}},
	})
}

func TestSweepOnceStopsBeforeClearingOnFailure(t *testing.T) {
	repo := new(MockProfileRepo)
	uc := usecase.NewSweepUsecase(repo)
	ctx := context.Background()

	repo.On("PendingTombstones", ctx, 10).Return([]string{"gone1", "gone2"}, nil)
	repo.On("RemoveReferences", ctx, "gone1").Return(int64(3), nil)
	repo.On("ClearTombstone", ctx, "gone1").Return(nil)
	repo.On("RemoveReferences", ctx, "gone2").Return(int64(0), errors.New("timeout"))

	swept, err := uc.SweepOnce(ctx, 10)
	assert.Error(t, err)
	assert.Equal(t, 1, swept)
	repo.AssertNotCalled(t, "ClearTombstone", ctx, "gone2")
}
