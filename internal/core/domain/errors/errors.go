package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how the caller is expected to react to it.
type Kind int

const (
	Unknown Kind = iota
	Validation
	InvalidCredentials
	InvalidOrExpiredToken
	AccountDeactivated
	DeliveryFailure
	StorageUnavailable
	Conflict
	RateLimited
	Unauthorized
	Forbidden
	NotFound
)

var kindNames = map[Kind]string{
	Unknown:               "unknown",
	Validation:            "validation",
	InvalidCredentials:    "invalid credentials",
	InvalidOrExpiredToken: "invalid or expired token",
	AccountDeactivated:    "account deactivated",
	DeliveryFailure:       "delivery failure",
	StorageUnavailable:    "storage unavailable",
	Conflict:              "conflict",
	RateLimited:           "rate limited",
	Unauthorized:          "unauthorized",
	Forbidden:             "forbidden",
	NotFound:              "not found",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the result type of every failed domain operation.
// Two errors are considered equal by errors.Is when their kinds match.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{kind: kind, msg: msg, cause: cause}
}

func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Message() string {
	return e.msg
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.kind == e.kind
}

// KindOf returns the kind of the first *Error found in the chain of err.
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.kind
	}
	return Unknown
}

type InvalidStateError struct {
	msg string
}

func NewInvalidStateError(msg string) *InvalidStateError {
	return &InvalidStateError{msg: msg}
}

func (e *InvalidStateError) Error() string {
	return e.msg
}

type NilArgumentError struct {
	argument string
}

func NewNilArgumentError(argument string) *NilArgumentError {
	return &NilArgumentError{argument: argument}
}

func (e *NilArgumentError) Error() string {
	return fmt.Sprintf("argument '%s' must not be nil", e.argument)
}
