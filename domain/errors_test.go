package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{
		ErrUserNotFound,
		ErrInvalidCredentials,
		ErrUserAlreadyExists,
		ErrCodeNotFound,
		ErrCodeExpired,
		ErrCodeMismatch,
		ErrCodeConsumed,
		ErrRegistrationNotFound,
		ErrAlreadyPromoted,
		ErrTokenInvalid,
		ErrSessionNotFound,
	}

	seen := make(map[string]bool)
	for _, err := range sentinels {
		if seen[err.Error()] {
			t.Errorf("duplicate error message: %q", err.Error())
		}
		seen[err.Error()] = true
	}
}

func TestSentinelErrors_WrapUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("verifying email: %w", ErrCodeExpired)

	if !errors.Is(wrapped, ErrCodeExpired) {
		t.Error("wrapped error should match ErrCodeExpired")
	}
	if errors.Is(wrapped, ErrCodeMismatch) {
		t.Error("wrapped error should not match ErrCodeMismatch")
	}
}

func TestRateLimitError(t *testing.T) {
	tests := []struct {
		name            string
		retryAfter      time.Duration
		expectedMinutes int
	}{
		{"zero wait", 0, 0},
		{"sub-minute rounds up", 30 * time.Second, 1},
		{"exact minutes", 10 * time.Minute, 10},
		{"partial minute rounds up", 9*time.Minute + 1*time.Second, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rlErr := &RateLimitError{RetryAfter: tt.retryAfter}
			if got := rlErr.RetryAfterMinutes(); got != tt.expectedMinutes {
				t.Errorf("RetryAfterMinutes() = %d, want %d", got, tt.expectedMinutes)
			}
		})
	}
}

func TestRateLimitError_As(t *testing.T) {
	var err error = fmt.Errorf("resend denied: %w", &RateLimitError{RetryAfter: 5 * time.Minute})

	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatal("errors.As should unwrap RateLimitError")
	}
	if rlErr.RetryAfter != 5*time.Minute {
		t.Errorf("expected retry after 5m, got %v", rlErr.RetryAfter)
	}
}
