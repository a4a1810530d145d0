package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuestion is returned when a blank question reaches the query flow.
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrNoText is returned when a document yields no extractable text,
	// typically a scanned PDF.
	ErrNoText = errors.New("no text extracted from document")
	// ErrCollectionNotFound is returned when reading from a collection that
	// was never ensured.
	ErrCollectionNotFound = errors.New("collection not found")
)

// ErrorKind classifies failures of the external services behind the
// capability interfaces.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAuth
	KindRateLimit
	KindNetwork
	KindInvalidInput
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	case KindNetwork:
		return "network"
	case KindInvalidInput:
		return "invalid_input"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error is a classified failure of an external call.
type Error struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of err, looking through wrapping.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrEmptyQuestion) || errors.Is(err, ErrNoText) {
		return KindInvalidInput
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	return KindUnknown
}

// UserMessage renders err as a short message suitable for the UI.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindAuth:
		return "Authentication failed: check the API key."
	case KindRateLimit:
		return "Rate limited by the model API: wait a moment and retry."
	case KindNetwork:
		return "Network error talking to the model API: " + err.Error()
	case KindUnavailable:
		return "The model API is unavailable: " + err.Error()
	case KindInvalidInput:
		return err.Error()
	default:
		return "Error: " + err.Error()
	}
}
