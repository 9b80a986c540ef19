package usecase

import (
	"context"
	"fmt"
	"strings"

	"match-backend/internal/domain"
	"match-backend/pkg/logger"
	"match-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type profileUsecase struct {
	repo     domain.ProfileRepository
	validate *validator.Validate
}

func NewProfileUsecase(repo domain.ProfileRepository, validate *validator.Validate) domain.ProfileUsecase {
	return &profileUsecase{
		repo:     repo,
		validate: validate,
	}
}

func (u *profileUsecase) List(ctx context.Context) ([]*domain.Profile, error) {
	return u.repo.List(ctx)
}

func (u *profileUsecase) Get(ctx context.Context, id string) (*domain.Profile, error) {
	profile, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", id, err)
	}
	return profile, nil
}

// Create stores a new profile owned by the caller. Relationship sets always
// start empty; they only change through reactions and match resolution.
func (u *profileUsecase) Create(ctx context.Context, profile *domain.Profile) error {
	ownerID, err := callerID(ctx)
	if err != nil {
		return err
	}

	profile.ID = uuid.NewString()
	profile.OwnerID = ownerID
	profile.Likes, profile.Dislikes = []string{}, []string{}
	profile.LikedBy, profile.DislikedBy = []string{}, []string{}
	profile.Matched = []string{}

	if err := u.validate.Struct(profile); err != nil {
		return fmt.Errorf("%s: %w", validation.Message(err), domain.ErrInvalidInput)
	}

	if err := u.repo.Create(ctx, profile); err != nil {
		return err
	}
	logger.Log.Info("Profile created", "profile_id", profile.ID, "owner_id", ownerID)
	return nil
}

// Update applies the non-blank fields of patch. The owner can never change.
func (u *profileUsecase) Update(ctx context.Context, id string, patch domain.ProfilePatch) (*domain.Profile, error) {
	profile, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", id, err)
	}
	if err := requireOwnership(ctx, profile); err != nil {
		return nil, err
	}
	if patch.OwnerID != nil && *patch.OwnerID != profile.OwnerID {
		return nil, domain.ErrOwnerImmutable
	}
	if patch.ExpectedVersion != nil && *patch.ExpectedVersion != profile.Version {
		return nil, fmt.Errorf("profile %s is at version %d: %w", id, profile.Version, domain.ErrConflict)
	}

	setIfNotBlank(&profile.Name, patch.Name)
	setIfNotBlank(&profile.Gender, patch.Gender)
	setIfNotBlank(&profile.Location, patch.Location)
	setIfNotBlank(&profile.Description, patch.Description)
	if patch.Age != nil {
		profile.Age = *patch.Age
	}
	if patch.Tag != nil && strings.TrimSpace(*patch.Tag) != "" {
		tag := *patch.Tag
		profile.Tag = &tag
	}

	if err := u.validate.Struct(profile); err != nil {
		return nil, fmt.Errorf("%s: %w", validation.Message(err), domain.ErrInvalidInput)
	}

	if err := u.repo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func setIfNotBlank(dst *string, value *string) {
	if value != nil && strings.TrimSpace(*value) != "" {
		*dst = *value
	}
}

// Delete removes the profile. References held by other profiles are swept
// later by the sweeper.
func (u *profileUsecase) Delete(ctx context.Context, id string) error {
	profile, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("profile %s: %w", id, err)
	}
	if err := requireOwnership(ctx, profile); err != nil {
		return err
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("Profile deleted", "profile_id", id)
	return nil
}
