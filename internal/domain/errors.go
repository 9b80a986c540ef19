package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidAction      = errors.New("invalid action")
	ErrSelfReaction       = errors.New("a profile cannot react to itself")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthenticated    = errors.New("user not authenticated")
	ErrConflict           = errors.New("resource was modified concurrently")
	ErrNotMutual          = errors.New("profiles do not like each other")
	ErrOwnerImmutable     = errors.New("profile owner cannot be changed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
