package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"plain", base, KindUnknown},
		{"classified", &Error{Op: "chat", Kind: KindRateLimit, Err: base}, KindRateLimit},
		{"wrapped classified", fmt.Errorf("ask: %w", &Error{Op: "embed", Kind: KindAuth, Err: base}), KindAuth},
		{"empty question", ErrEmptyQuestion, KindInvalidInput},
		{"no text", fmt.Errorf("upload: %w", ErrNoText), KindInvalidInput},
		{"deadline", context.DeadlineExceeded, KindNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := &Error{Op: "search", Kind: KindNetwork, Err: base}
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "search: network: boom", err.Error())
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(&Error{Op: "chat", Kind: KindAuth, Err: errors.New("401")}), "API key")
	assert.Contains(t, UserMessage(&Error{Op: "chat", Kind: KindRateLimit, Err: errors.New("429")}), "Rate limited")
	assert.Equal(t, ErrNoText.Error(), UserMessage(ErrNoText))
}
