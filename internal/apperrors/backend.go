package apperrors

import (
	"errors"
	"strings"
)

// BackendErrorKind tags business-rule errors reported by the backend.
type BackendErrorKind string

const (
	KindEmailExists          BackendErrorKind = "EMAIL_ALREADY_EXISTS"
	KindEmailUpdateForbidden BackendErrorKind = "CANT_UPDATE_EMAIL"
	KindUnknown              BackendErrorKind = "UNKNOWN"
)

// BackendError is a classified business-rule error from the backend.
// Message keeps the upstream text; Err is the original error.
type BackendError struct {
	Kind    BackendErrorKind
	Message string
	Err     error
}

func (e *BackendError) Error() string { return e.Message }

// Unwrap returns the original error for use with errors.Is/As.
func (e *BackendError) Unwrap() error { return e.Err }

// UserMessage returns the user-facing text for the error kind.
func (e *BackendError) UserMessage() string {
	switch e.Kind {
	case KindEmailExists:
		return "This email address is already used by another customer"
	case KindEmailUpdateForbidden:
		return "The email of a customer with portal access cannot be changed"
	}
	return "The operation failed, please try again"
}

// NewBackendError builds an error carrying the given code in its message, the
// way the upstream reports business-rule violations.
func NewBackendError(kind BackendErrorKind, message string) *BackendError {
	return &BackendError{Kind: kind, Message: string(kind) + ": " + message}
}

// Classify maps an error returned by the backend to a BackendError. Errors
// that already are a BackendError keep their kind; otherwise the upstream
// message is searched for a known code. Anything else is KindUnknown.
// A nil error returns nil.
func Classify(err error) *BackendError {
	if err == nil {
		return nil
	}

	var be *BackendError
	if errors.As(err, &be) {
		return be
	}

	msg := err.Error()
	kind := KindUnknown
	switch {
	case strings.Contains(msg, string(KindEmailExists)):
		kind = KindEmailExists
	case strings.Contains(msg, string(KindEmailUpdateForbidden)):
		kind = KindEmailUpdateForbidden
	}
	return &BackendError{Kind: kind, Message: msg, Err: err}
}
