package client

import (
	"errors"
	"fmt"
)

// ErrorClass discriminates how a failed call must be handled by the
// export loop: abort the run, skip the current item, or stop calling
// the API entirely.
type ErrorClass string

const (
	// ClassFatal covers credential problems, unreachable protocols and
	// 401 responses. The run cannot continue.
	ClassFatal ErrorClass = "fatal"

	// ClassRecoverable covers non-200 statuses after retries are
	// exhausted and malformed result shapes. The current page or
	// product is skipped and counted.
	ClassRecoverable ErrorClass = "recoverable"

	// ClassThrottled means the long global call budget is used up.
	// Never retried; the remainder of the run is aborted gracefully.
	ClassThrottled ErrorClass = "throttled"
)

// ErrRetryExhausted is wrapped into the recoverable error returned
// after the final failed attempt.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// APIError is the error type returned by all client calls.
type APIError struct {
	Class      ErrorClass
	StatusCode int
	URL        string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("plenty %s error", e.Class)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.URL != "" {
		msg += " [" + e.URL + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ClassOf extracts the error class, defaulting to recoverable for
// errors that did not originate in this package.
func ClassOf(err error) ErrorClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Class
	}
	return ClassRecoverable
}

// IsFatal reports whether err aborts the whole run.
func IsFatal(err error) bool {
	return ClassOf(err) == ClassFatal
}

// IsThrottled reports whether err is the global-throttling stop signal.
func IsThrottled(err error) bool {
	return ClassOf(err) == ClassThrottled
}

func fatalf(format string, args ...any) *APIError {
	return &APIError{Class: ClassFatal, Message: fmt.Sprintf(format, args...)}
}

func throttled() *APIError {
	return &APIError{Class: ClassThrottled, Message: "global throttling limit reached"}
}
