package apperror

import (
	"errors"
	"fmt"
)

// Kind is a stable error classification. Callers branch on Kind, never on message text.
type Kind string

const (
	KindInvalidInput        Kind = "InvalidInput"
	KindResourceNotFound    Kind = "ResourceNotFound"
	KindResourceUnavailable Kind = "ResourceUnavailable"
	KindLimitExceeded       Kind = "LimitExceeded"
	KindChainDisconnected   Kind = "ChainDisconnected"
	KindParseError          Kind = "ParseError"
	KindInternal            Kind = "Internal"
)

// Error is a classified error
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind. The original error stays reachable through errors.Unwrap.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the outermost classified error in the chain,
// or the empty Kind when err is not classified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// Is reports whether err is classified as kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsClassified reports whether err carries any kind
func IsClassified(err error) bool {
	return KindOf(err) != ""
}

// Convenience constructors for the kinds used across the codebase.

func InvalidInput(format string, args ...interface{}) *Error {
	return Newf(KindInvalidInput, format, args...)
}

func ResourceNotFound(format string, args ...interface{}) *Error {
	return Newf(KindResourceNotFound, format, args...)
}

func ResourceUnavailable(format string, args ...interface{}) *Error {
	return Newf(KindResourceUnavailable, format, args...)
}

func LimitExceeded(format string, args ...interface{}) *Error {
	return Newf(KindLimitExceeded, format, args...)
}

func ChainDisconnected(format string, args ...interface{}) *Error {
	return Newf(KindChainDisconnected, format, args...)
}

func ParseError(format string, args ...interface{}) *Error {
	return Newf(KindParseError, format, args...)
}

func Internal(format string, args ...interface{}) *Error {
	return Newf(KindInternal, format, args...)
}
