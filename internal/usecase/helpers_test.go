package usecase_test

import (
	"context"
	"testing"

	"match-backend/internal/domain"
	"match-backend/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

func asOwner(accountID string) context.Context {
	return context.WithValue(context.Background(), domain.KeyUserID, accountID)
}

// seed stores one profile per id, each owned by "owner-<id>".
func seed(t *testing.T, store *memory.ProfileStore, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, store.Create(context.Background(), &domain.Profile{
			ID: id, OwnerID: "owner-" + id, Name: id, Age: 25, Gender: "Male",
			Location: "Helsinki", Description: "about " + id,
		}))
	}
}

func load(t *testing.T, store *memory.ProfileStore, id string) *domain.Profile {
	t.Helper()
	p, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}
