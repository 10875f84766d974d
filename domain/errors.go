package domain

import (
	"errors"
	"fmt"
	"time"
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrUserNotVerified    = errors.New("account not fully verified")
)

// Verification-code errors
var (
	ErrCodeNotFound = errors.New("no pending verification code")
	ErrCodeExpired  = errors.New("verification code has expired")
	ErrCodeMismatch = errors.New("verification code does not match")
	ErrCodeConsumed = errors.New("verification code already consumed")
)

// Staged-registration errors
var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyPromoted      = errors.New("registration already promoted")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Authorization errors
var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrInsufficientRole = errors.New("insufficient role permissions")
)

// RateLimitError signals a denied operation together with how long the
// caller must wait for the oldest counted event to leave the window.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many requests, try again after %d minutes", retryMinutes(e.RetryAfter))
}

// RetryAfterMinutes rounds the wait up to whole minutes for responses.
func (e *RateLimitError) RetryAfterMinutes() int {
	return retryMinutes(e.RetryAfter)
}

func retryMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	m := int((d + time.Minute - 1) / time.Minute)
	return m
}
