package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"match-backend/internal/domain"
	"match-backend/pkg/auth"
	"match-backend/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type authUsecase struct {
	accountRepo domain.AccountRepository
	profileRepo domain.ProfileRepository
	tokens      *auth.TokenManager
}

func NewAuthUsecase(accountRepo domain.AccountRepository, profileRepo domain.ProfileRepository, tokens *auth.TokenManager) domain.AuthUsecase {
	return &authUsecase{
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		tokens:      tokens,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) Register(ctx context.Context, email, password string) (*domain.Account, error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < minPasswordLength {
		return nil, fmt.Errorf("email and a password of at least %d characters are required: %w",
			minPasswordLength, domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Profiles:     []*domain.Profile{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	logger.Log.Info("Account registered", "account_id", account.ID)
	return account, nil
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	account, err := u.accountRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

// GetAccount returns the account with the profiles it owns.
func (u *authUsecase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := u.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", id, err)
	}

	profiles, err := u.profileRepo.ListByOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	account.Profiles = profiles
	return account, nil
}
