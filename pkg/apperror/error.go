package apperror

import (
	"errors"
	"net/http"

	"match-backend/internal/domain"
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, nil)
}

func Unprocessable(message string) *AppError {
	return New(http.StatusUnprocessableEntity, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}

// FromDomain maps domain sentinel errors to their HTTP form. Unknown errors
// become Internal so their details never reach the client.
func FromDomain(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return New(http.StatusNotFound, err.Error(), err)
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidAction), errors.Is(err, domain.ErrSelfReaction),
		errors.Is(err, domain.ErrOwnerImmutable):
		return New(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidCredentials):
		return New(http.StatusUnauthorized, err.Error(), err)
	case errors.Is(err, domain.ErrForbidden):
		return New(http.StatusForbidden, err.Error(), err)
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrEmailTaken):
		return New(http.StatusConflict, err.Error(), err)
	case errors.Is(err, domain.ErrNotMutual):
		return New(http.StatusUnprocessableEntity, err.Error(), err)
	}
	return Internal(err)
}
