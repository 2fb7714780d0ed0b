package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsFallback(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"config", &ConfigError{Missing: "OPENAI_API_KEY"}, true},
		{"provider", &ProviderError{Op: "start run", Err: errors.New("503")}, true},
		{"terminal", &TerminalError{Status: StatusFailed}, true},
		{"timeout", &TimeoutError{Attempts: 10}, true},
		{"wrapped provider", fmt.Errorf("chat: %w", &ProviderError{Op: "poll run", Err: errors.New("x")}), true},
		{"cancellation", context.Canceled, false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsFallback(tc.err); got != tc.want {
				t.Errorf("IsFallback(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := fmt.Errorf("chat: %w", &ProviderError{Op: "add message", Err: inner})
	if !errors.Is(err, inner) {
		t.Error("inner error not reachable through Unwrap")
	}
}
