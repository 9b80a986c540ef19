package domain

import (
	"context"
	"time"
)

// Account owns zero or more profiles. Profiles are stored on their own and
// reference the account through Profile.OwnerID.
type Account struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Profiles     []*Profile `json:"profiles"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
}

type AuthUsecase interface {
	Register(ctx context.Context, email, password string) (*Account, error)
	Login(ctx context.Context, email, password string) (string, *Account, error)
	GetAccount(ctx context.Context, id string) (*Account, error)
}
