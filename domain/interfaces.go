package domain

import (
	"context"
	"time"
)

// UserRepository defines durable account data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	// List returns accounts, optionally filtered by user type.
	List(ctx context.Context, userType string) ([]*User, error)
}

// RegistrationRepository is the staged-registration ledger.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *PreRegistration) error
	FindByToken(ctx context.Context, token string) (*PreRegistration, error)
	FindByID(ctx context.Context, id uint) (*PreRegistration, error)
	// DeleteByEmail discards any earlier incomplete attempt for the email.
	DeleteByEmail(ctx context.Context, email string) error
	// MarkChannelVerified flips one channel flag and returns the fresh row,
	// so a caller observes flags set concurrently by the other channel.
	MarkChannelVerified(ctx context.Context, id uint, channel Channel) (*PreRegistration, error)
	// ClaimPromotion atomically flips promoted false->true. Exactly one
	// concurrent caller gets true; everyone else gets false.
	ClaimPromotion(ctx context.Context, id uint) (bool, error)
	// DeleteStale reclaims unpromoted registrations older than the cutoff.
	DeleteStale(ctx context.Context, olderThan time.Time) (int64, error)
}

// VerificationRepository stores issued codes per (subject, channel).
type VerificationRepository interface {
	Create(ctx context.Context, code *VerificationCode) error
	// Latest returns the most recently issued code for the pair whether
	// or not it is consumed, or ErrCodeNotFound when none exists. Older
	// codes are unreachable, so a newer issue supersedes them for good.
	Latest(ctx context.Context, subject Subject, channel Channel) (*VerificationCode, error)
	// Consume atomically flips consumed false->true for one row and
	// reports whether this caller won the flip.
	Consume(ctx context.Context, id uint) (bool, error)
	DeleteForSubject(ctx context.Context, subject Subject) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	// DeleteByUserID revokes every session the user holds.
	DeleteByUserID(ctx context.Context, userID uint) error
}

// OTPService issues and verifies channel codes.
type OTPService interface {
	// Issue persists a fresh code for the pair and dispatches it to the
	// destination best-effort. The persisted code supersedes any earlier
	// unconsumed one.
	Issue(ctx context.Context, subject Subject, channel Channel, destination string) (*VerificationCode, error)
	// Verify checks the submitted code against the current pending one.
	// Returns nil on success, otherwise ErrCodeNotFound, ErrCodeExpired,
	// ErrCodeMismatch or ErrCodeConsumed.
	Verify(ctx context.Context, subject Subject, channel Channel, code string) error
}

// RateLimiter gates operation classes with sliding windows.
type RateLimiter interface {
	// Allow reports whether the operation may proceed; when denied the
	// duration says how long until the window frees up. Allow never
	// records an event.
	Allow(ctx context.Context, subject Subject, channel Channel, class OperationClass) (bool, time.Duration, error)
	// Record counts one performed operation toward the window.
	Record(ctx context.Context, subject Subject, channel Channel, class OperationClass) error
}

// RegistrationService drives staging, verification and promotion.
type RegistrationService interface {
	Register(ctx context.Context, req RegistrationRequest) (*PreRegistration, error)
	VerifyChannel(ctx context.Context, token string, channel Channel, code string) (*VerificationOutcome, error)
	ResendCode(ctx context.Context, token string, channel Channel) error
	ReclaimStale(ctx context.Context) (int64, error)
}

// RecoveryService drives the forgot-password flow.
type RecoveryService interface {
	// RequestReset acknowledges generically whether or not the email is
	// registered; a code is only issued for known accounts.
	RequestReset(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, email, code, newPassword string) error
}

// AuthService defines authentication business logic
type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	ChangePassword(ctx context.Context, userID uint, current, new string) error
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
	// ListUsers returns accounts for staff views, optionally filtered by
	// user type.
	ListUsers(ctx context.Context, userType string) ([]*User, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(userID uint, role string, sessionID string) (string, error)
	GenerateRefreshToken(userID uint, role string, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(to, message string) error
	SendEmail(to, subject, body string) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
	SeedDefaults() error
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	SessionID string `json:"session_id,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
