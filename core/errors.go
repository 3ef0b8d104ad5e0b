package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInternal marks infrastructure faults, never a business outcome.
	ErrInternal = errors.New("internal error")

	// ErrTraceConflict is returned by stores when a transaction with the same
	// trace id has already been ledgered.
	ErrTraceConflict = errors.New("trace id already exists")
)

// Error is a business or internal error carrying a caller facing message.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}

	return []error{e.Kind}
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) error {
	return newError(ErrInvalidArgument, format, args...)
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func InsufficientFunds(format string, args ...any) error {
	return newError(ErrInsufficientFunds, format, args...)
}

// Internal wraps an infrastructure fault. Errors that already carry a kind
// are returned unchanged.
func Internal(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	return &Error{Kind: ErrInternal, Message: op, Cause: err}
}

// Message returns the caller facing part of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}

	return err.Error()
}

// IsBusiness reports whether err is one of the terminal business outcomes.
func IsBusiness(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientFunds)
}
