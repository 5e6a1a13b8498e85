package core

import "github.com/pkg/errors"

// identity capability error kinds
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("a user with this email already exists")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

// NetworkError marks a transport-level failure talking to an external
// capability (document store, identity provider). Read paths may retry
// on it; write paths must not.
type NetworkError struct {
	err error
}

func NewNetworkError(err error, msg string) error {
	return &NetworkError{err: errors.Wrap(err, msg)}
}

func (e NetworkError) Error() string { return e.err.Error() }
func (e NetworkError) Unwrap() error { return e.err }

func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
