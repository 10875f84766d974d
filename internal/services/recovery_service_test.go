package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sahuajaykumar2004-dot/EP/domain"
	"github.com/sahuajaykumar2004-dot/EP/internal/mocks"
)

type recoveryServiceMocks struct {
	users       *mocks.MockUserRepository
	sessions    *mocks.MockSessionRepository
	otpSvc      *mocks.MockOTPService
	passwordSvc *mocks.MockPasswordService
	limiter     *mocks.MockRateLimiter
}

func setupRecoveryService(t *testing.T) (domain.RecoveryService, *recoveryServiceMocks) {
	t.Helper()

	m := &recoveryServiceMocks{
		users:       mocks.NewMockUserRepository(),
		sessions:    mocks.NewMockSessionRepository(),
		otpSvc:      mocks.NewMockOTPService(),
		passwordSvc: mocks.NewMockPasswordService(),
		limiter:     mocks.NewMockRateLimiter(),
	}
	svc := NewRecoveryService(m.users, m.sessions, m.otpSvc, m.passwordSvc, m.limiter)
	return svc, m
}

func recoveryUser() *domain.User {
	return &domain.User{
		ID:           8,
		Email:        "student@example.com",
		PasswordHash: "hashed_oldpassword",
		IsActive:     true,
		Verified:     true,
	}
}

func TestRecoveryServiceImpl_RequestReset(t *testing.T) {
	t.Run("known account gets a reset code", func(t *testing.T) {
		svc, m := setupRecoveryService(t)
		m.users.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
			return recoveryUser(), nil
		}

		var issuedSubject domain.Subject
		var issuedChannel domain.Channel
		m.otpSvc.IssueFunc = func(ctx context.Context, subject domain.Subject, channel domain.Channel, destination string) (*domain.VerificationCode, error) {
			issuedSubject = subject
			issuedChannel = channel
			return &domain.VerificationCode{ID: 1}, nil
		}

		if err := svc.RequestReset(context.Background(), "student@example.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if issuedSubject.Kind != domain.SubjectAccount || issuedSubject.ID != 8 {
			t.Errorf("expected account subject, got %s/%d", issuedSubject.Kind, issuedSubject.ID)
		}
		if issuedChannel != domain.ChannelEmail {
			t.Errorf("expected email channel, got %s", issuedChannel)
		}
		if len(m.limiter.Recorded) != 1 || m.limiter.Recorded[0] != domain.OpReset {
			t.Errorf("expected one recorded reset request, got %v", m.limiter.Recorded)
		}
	})

	t.Run("unknown email acknowledged without a code", func(t *testing.T) {
		svc, m := setupRecoveryService(t)
		m.otpSvc.IssueFunc = func(ctx context.Context, subject domain.Subject, channel domain.Channel, destination string) (*domain.VerificationCode, error) {
			t.Error("unknown email must not receive a code")
			return nil, nil
		}

		if err := svc.RequestReset(context.Background(), "nobody@example.com"); err != nil {
			t.Fatalf("expected the same nil acknowledgment, got %v", err)
		}
		if len(m.limiter.Recorded) != 0 {
			t.Errorf("unknown email must not be recorded, got %v", m.limiter.Recorded)
		}
	})

	t.Run("rate limited reset request", func(t *testing.T) {
		svc, m := setupRecoveryService(t)
		m.users.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
			return recoveryUser(), nil
		}
		m.limiter.AllowFunc = func(ctx context.Context, subject domain.Subject, channel domain.Channel, class domain.OperationClass) (bool, time.Duration, error) {
			return false, 12 * time.Minute, nil
		}
		m.otpSvc.IssueFunc = func(ctx context.Context, subject domain.Subject, channel domain.Channel, destination string) (*domain.VerificationCode, error) {
			t.Error("denied request must not issue a code")
			return nil, nil
		}

		err := svc.RequestReset(context.Background(), "student@example.com")
		var rle *domain.RateLimitError
		if !errors.As(err, &rle) {
			t.Fatalf("expected RateLimitError, got %v", err)
		}
		if rle.RetryAfter != 12*time.Minute {
			t.Errorf("expected retry-after 12m, got %s", rle.RetryAfter)
		}
	})
}

func TestRecoveryServiceImpl_ConfirmReset(t *testing.T) {
	t.Run("valid code resets the credential and revokes sessions", func(t *testing.T) {
		svc, m := setupRecoveryService(t)
		m.users.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
			return recoveryUser(), nil
		}

		var updatedHash string
		m.users.UpdatePasswordFunc = func(ctx context.Context, userID uint, passwordHash string) error {
			if userID != 8 {
				t.Errorf("expected user 8, got %d", userID)
			}
			updatedHash = passwordHash
			return nil
		}
		var revokedUser uint
		m.sessions.DeleteByUserIDFunc = func(ctx context.Context, userID uint) error {
			revokedUser = userID
			return nil
		}

		if err := svc.ConfirmReset(context.Background(), "student@example.com", "123456", "newpassword456"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updatedHash != "hashed_newpassword456" {
			t.Errorf("expected new hash stored, got %q", updatedHash)
		}
		if revokedUser != 8 {
			t.Errorf("expected all sessions for user 8 revoked, got %d", revokedUser)
		}
	})

	t.Run("unknown email reports a missing code", func(t *testing.T) {
		svc, _ := setupRecoveryService(t)

		err := svc.ConfirmReset(context.Background(), "nobody@example.com", "123456", "newpassword456")
		if !errors.Is(err, domain.ErrCodeNotFound) {
			t.Fatalf("expected ErrCodeNotFound, got %v", err)
		}
	})

	t.Run("wrong code keeps the credential", func(t *testing.T) {
		svc, m := setupRecoveryService(t)
		m.users.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
			return recoveryUser(), nil
		}
		m.users.UpdatePasswordFunc = func(ctx context.Context, userID uint, passwordHash string) error {
			t.Error("failed verification must not touch the credential")
			return nil
		}
		m.sessions.DeleteByUserIDFunc = func(ctx context.Context, userID uint) error {
			t.Error("failed verification must not revoke sessions")
			return nil
		}

		err := svc.ConfirmReset(context.Background(), "student@example.com", "000000", "newpassword456")
		if !errors.Is(err, domain.ErrCodeMismatch) {
			t.Fatalf("expected ErrCodeMismatch, got %v", err)
		}
	})

	t.Run("expired code is rejected", func(t *testing.T) {
		svc, m := setupRecoveryService(t)
		m.users.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
			return recoveryUser(), nil
		}
		m.otpSvc.VerifyFunc = func(ctx context.Context, subject domain.Subject, channel domain.Channel, code string) error {
			return domain.ErrCodeExpired
		}

		err := svc.ConfirmReset(context.Background(), "student@example.com", "123456", "newpassword456")
		if !errors.Is(err, domain.ErrCodeExpired) {
			t.Fatalf("expected ErrCodeExpired, got %v", err)
		}
	})
}
