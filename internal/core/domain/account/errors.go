package account

import (
	e "adbridge/internal/core/domain/errors"
)

var (
	ErrAccountDoesNotExist   = e.New(e.NotFound, "account does not exist")
	ErrEmailAlreadyExists    = e.New(e.Conflict, "email already exists")
	ErrInvalidCredentials    = e.New(e.InvalidCredentials, "invalid credentials")
	ErrInvalidOrExpiredToken = e.New(e.InvalidOrExpiredToken, "invalid or expired password reset token")
	ErrAccountDeactivated    = e.New(e.AccountDeactivated, "account is deactivated")
	ErrDeliveryFailure       = e.New(e.DeliveryFailure, "could not deliver password reset link")
	ErrStorageUnavailable    = e.New(e.StorageUnavailable, "account storage is unavailable")
	ErrInvalidSession        = e.New(e.Unauthorized, "invalid session")
	ErrNotAllowed            = e.New(e.Forbidden, "operation is not allowed")
)

func NewDeliveryError(cause error) error {
	return e.Wrap(e.DeliveryFailure, ErrDeliveryFailure.Message(), cause)
}

func NewStorageError(cause error) error {
	return e.Wrap(e.StorageUnavailable, ErrStorageUnavailable.Message(), cause)
}

func NewValidationError(msg string) error {
	return e.New(e.Validation, msg)
}
