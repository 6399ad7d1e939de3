package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedContainer indicates that a value matches none of the
	// supported container shapes (slice, array, string-keyed map, OrderedMap)
	ErrUnsupportedContainer = errors.New("unsupported container kind")

	// ErrElementResolution indicates that a pending element value failed
	// while being resolved ahead of its callback invocation
	ErrElementResolution = errors.New("element resolution failed")

	// ErrCallbackFailed indicates that a user callback returned an error,
	// or that the pending result it returned failed
	ErrCallbackFailed = errors.New("callback failed")

	// ErrSourceFailed indicates that a push source signaled an error
	ErrSourceFailed = errors.New("source failed")

	// ErrAdaptedCall indicates that a wrapped callback-style function
	// reported a failure through its completion callback
	ErrAdaptedCall = errors.New("adapted call failed")
)

// Error represents a structured SDK error
type Error struct {
	// Code is a machine-readable error code
	Code string

	// Message is a human-readable error message
	Message string

	// Err is the underlying error, if any
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new SDK error
func NewError(code, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewUnsupportedContainer builds the error raised by the container adapter
// when a value cannot be classified into any supported shape.
func NewUnsupportedContainer(message string) *Error {
	return NewError("UNSUPPORTED_CONTAINER", message, ErrUnsupportedContainer)
}

// NewElementResolution wraps a failed pending element value.
func NewElementResolution(message string, err error) *Error {
	return NewError("ELEMENT_RESOLUTION", message, wrap(ErrElementResolution, err))
}

// NewCallbackFailed wraps a callback error, synchronous or deferred.
func NewCallbackFailed(message string, err error) *Error {
	return NewError("CALLBACK_FAILED", message, wrap(ErrCallbackFailed, err))
}

// NewSourceFailed wraps an error signaled by a push source.
func NewSourceFailed(message string, err error) *Error {
	return NewError("SOURCE_FAILED", message, wrap(ErrSourceFailed, err))
}

// NewAdaptedCall wraps a failure reported by a promisified function.
func NewAdaptedCall(message string, err error) *Error {
	return NewError("ADAPTED_CALL", message, wrap(ErrAdaptedCall, err))
}

// wrap joins a sentinel with a concrete cause so both survive errors.Is checks
func wrap(sentinel, err error) error {
	if err == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// IsUnsupportedContainer checks if an error is an unsupported container error
func IsUnsupportedContainer(err error) bool {
	return errors.Is(err, ErrUnsupportedContainer)
}

// IsElementResolution checks if an error is an element resolution failure
func IsElementResolution(err error) bool {
	return errors.Is(err, ErrElementResolution)
}

// IsCallbackFailed checks if an error is a callback failure
func IsCallbackFailed(err error) bool {
	return errors.Is(err, ErrCallbackFailed)
}

// IsSourceFailed checks if an error is a source failure
func IsSourceFailed(err error) bool {
	return errors.Is(err, ErrSourceFailed)
}

// IsAdaptedCall checks if an error is an adapted call failure
func IsAdaptedCall(err error) bool {
	return errors.Is(err, ErrAdaptedCall)
}
