package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// RecoveryServiceImpl implements domain.RecoveryService. It reuses the
// OTP service and rate limiter against durable accounts instead of
// staged registrations.
type RecoveryServiceImpl struct {
	users       domain.UserRepository
	sessions    domain.SessionRepository
	otpSvc      domain.OTPService
	passwordSvc domain.PasswordService
	limiter     domain.RateLimiter
}

// NewRecoveryService creates a new password recovery service
func NewRecoveryService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	otpSvc domain.OTPService,
	passwordSvc domain.PasswordService,
	limiter domain.RateLimiter,
) domain.RecoveryService {
	return &RecoveryServiceImpl{
		users:       users,
		sessions:    sessions,
		otpSvc:      otpSvc,
		passwordSvc: passwordSvc,
		limiter:     limiter,
	}
}

// RequestReset implements domain.RecoveryService. An unknown email gets
// the same nil acknowledgment as a known one, so the endpoint cannot be
// used to enumerate accounts.
func (s *RecoveryServiceImpl) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		log.Printf("%s: email=%s known=false timestamp=%s",
			domain.PasswordResetRequestEvent, email, time.Now().UTC().Format(time.RFC3339))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}

	subject := domain.Subject{Kind: domain.SubjectAccount, ID: user.ID}
	allowed, retryAfter, err := s.limiter.Allow(ctx, subject, domain.ChannelEmail, domain.OpReset)
	if err != nil {
		return fmt.Errorf("failed to check reset limit: %w", err)
	}
	if !allowed {
		return &domain.RateLimitError{RetryAfter: retryAfter}
	}

	if _, err := s.otpSvc.Issue(ctx, subject, domain.ChannelEmail, user.Email); err != nil {
		return fmt.Errorf("failed to issue reset code: %w", err)
	}
	if err := s.limiter.Record(ctx, subject, domain.ChannelEmail, domain.OpReset); err != nil {
		return fmt.Errorf("failed to record reset request: %w", err)
	}

	log.Printf("%s: user_id=%d known=true timestamp=%s",
		domain.PasswordResetRequestEvent, user.ID, time.Now().UTC().Format(time.RFC3339))
	return nil
}

// ConfirmReset implements domain.RecoveryService. On success the stored
// credential is replaced and every live session for the account is
// revoked. An unknown email reports the same failure as a missing code.
func (s *RecoveryServiceImpl) ConfirmReset(ctx context.Context, email, code, newPassword string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ErrCodeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}

	subject := domain.Subject{Kind: domain.SubjectAccount, ID: user.ID}
	if err := s.otpSvc.Verify(ctx, subject, domain.ChannelEmail, code); err != nil {
		return err
	}

	hashed, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.sessions.DeleteByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	log.Printf("%s: user_id=%d timestamp=%s",
		domain.PasswordResetDoneEvent, user.ID, time.Now().UTC().Format(time.RFC3339))
	return nil
}
