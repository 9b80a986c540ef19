package usecase

import (
	"context"
	"fmt"

	"match-backend/internal/domain"
)

func callerID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || id == "" {
		return "", domain.ErrUnauthenticated
	}
	return id, nil
}

// requireOwnership fails with ErrForbidden unless the authenticated caller
// owns the profile.
func requireOwnership(ctx context.Context, profile *domain.Profile) error {
	id, err := callerID(ctx)
	if err != nil {
		return err
	}
	if profile.OwnerID != id {
		return fmt.Errorf("profile %s: %w", profile.ID, domain.ErrForbidden)
	}
	return nil
}
