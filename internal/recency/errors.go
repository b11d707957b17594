package recency

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType int

const (
	ErrClock ErrorType = iota
	ErrRead
	ErrWrite
	ErrCanceled
)

// Error is a fatal filter failure. Per-path lookup failures never become an Error.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

func WrapError(err error, errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message, Cause: err}
}

func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("[%s] %s", e.Type, e.Message)}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}
	return strings.Join(parts, " | ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (t ErrorType) String() string {
	switch t {
	case ErrClock:
		return "Clock"
	case ErrRead:
		return "Read"
	case ErrWrite:
		return "Write"
	case ErrCanceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

func IsErrorType(err error, errorType ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == errorType
	}
	return false
}
