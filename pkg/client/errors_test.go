package client

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"fatal", &APIError{Class: ClassFatal}, ClassFatal},
		{"recoverable", &APIError{Class: ClassRecoverable}, ClassRecoverable},
		{"throttled", &APIError{Class: ClassThrottled}, ClassThrottled},
		{"wrapped", fmt.Errorf("context: %w", &APIError{Class: ClassThrottled}), ClassThrottled},
		{"foreign error defaults to recoverable", errors.New("boom"), ClassRecoverable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassOf(tt.err); got != tt.want {
				t.Errorf("ClassOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{
		Class:      ClassRecoverable,
		StatusCode: 503,
		URL:        "https://shop.example.com/rest/items",
		Message:    "could not reach api method",
	}

	msg := err.Error()
	for _, want := range []string{"503", "could not reach api method", "/rest/items"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &APIError{Class: ClassFatal, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("APIError should unwrap to its cause")
	}
}
