package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// RegistrationServiceImpl implements domain.RegistrationService. It is
// the staged-registration ledger and the promotion engine in one place:
// registrations enter staged, collect channel proofs, and are promoted
// to durable accounts exactly once.
type RegistrationServiceImpl struct {
	regs          domain.RegistrationRepository
	users         domain.UserRepository
	verifications domain.VerificationRepository
	otpSvc        domain.OTPService
	passwordSvc   domain.PasswordService
	limiter       domain.RateLimiter
	config        RegistrationConfig
}

type RegistrationConfig struct {
	// StaleAfter is how long an incomplete registration may linger
	// before the reclaimer deletes it.
	StaleAfter time.Duration
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	regs domain.RegistrationRepository,
	users domain.UserRepository,
	verifications domain.VerificationRepository,
	otpSvc domain.OTPService,
	passwordSvc domain.PasswordService,
	limiter domain.RateLimiter,
	config RegistrationConfig,
) domain.RegistrationService {
	return &RegistrationServiceImpl{
		regs:          regs,
		users:         users,
		verifications: verifications,
		otpSvc:        otpSvc,
		passwordSvc:   passwordSvc,
		limiter:       limiter,
		config:        config,
	}
}

// Register implements domain.RegistrationService. A fresh attempt
// replaces any earlier incomplete one for the same email, and both
// channel codes go out immediately.
func (s *RegistrationServiceImpl) Register(ctx context.Context, req domain.RegistrationRequest) (*domain.PreRegistration, error) {
	if existing, err := s.users.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}
	if existing, err := s.users.FindByPhone(ctx, req.Phone); err == nil && existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	hashed, err := s.passwordSvc.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate promotion token: %w", err)
	}

	if err := s.regs.DeleteByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("failed to discard earlier attempt: %w", err)
	}

	reg := &domain.PreRegistration{
		Email:        req.Email,
		Phone:        req.Phone,
		Name:         req.Name,
		UserType:     req.UserType,
		PasswordHash: hashed,
		Token:        token,
	}
	if err := s.regs.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to stage registration: %w", err)
	}

	subject := reg.Subject()
	if _, err := s.otpSvc.Issue(ctx, subject, domain.ChannelEmail, reg.Email); err != nil {
		return nil, fmt.Errorf("failed to issue email code: %w", err)
	}
	if _, err := s.otpSvc.Issue(ctx, subject, domain.ChannelPhone, reg.Phone); err != nil {
		return nil, fmt.Errorf("failed to issue phone code: %w", err)
	}

	log.Printf("%s: prereg_id=%d email=%s timestamp=%s",
		domain.RegistrationStagedEvent, reg.ID, reg.Email, time.Now().UTC().Format(time.RFC3339))

	return reg, nil
}

// VerifyChannel implements domain.RegistrationService. A successful
// verification flips that channel's flag; the call that observes both
// flags set claims the promotion and creates the durable account.
// Concurrent completions race on the claim and exactly one wins; the
// loser, like a replayed completion, gets the existing account back.
func (s *RegistrationServiceImpl) VerifyChannel(ctx context.Context, token string, channel domain.Channel, code string) (*domain.VerificationOutcome, error) {
	reg, err := s.regs.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if reg.Promoted {
		return s.promotedOutcome(ctx, reg)
	}

	subject := reg.Subject()
	if err := s.otpSvc.Verify(ctx, subject, channel, code); err != nil {
		log.Printf("%s: prereg_id=%d channel=%s error=%v", domain.ChannelVerifyFailureEvent, reg.ID, channel, err)
		return nil, err
	}

	updated, err := s.regs.MarkChannelVerified(ctx, reg.ID, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to mark channel verified: %w", err)
	}

	log.Printf("%s: prereg_id=%d channel=%s timestamp=%s",
		domain.ChannelVerifiedEvent, reg.ID, channel, time.Now().UTC().Format(time.RFC3339))

	if !updated.FullyVerified() {
		return &domain.VerificationOutcome{Verified: true}, nil
	}

	won, err := s.regs.ClaimPromotion(ctx, reg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim promotion: %w", err)
	}
	if !won {
		return s.promotedOutcome(ctx, reg)
	}

	user := &domain.User{
		Email:         updated.Email,
		Phone:         updated.Phone,
		Name:          updated.Name,
		PasswordHash:  updated.PasswordHash,
		UserType:      updated.UserType,
		IsActive:      true,
		EmailVerified: true,
		PhoneVerified: true,
		Verified:      true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// The staged proof is consumed; its code history is no longer needed.
	if err := s.verifications.DeleteForSubject(ctx, subject); err != nil {
		log.Printf("staged code cleanup failed: prereg_id=%d error=%v", reg.ID, err)
	}

	log.Printf("%s: prereg_id=%d user_id=%d email=%s timestamp=%s",
		domain.AccountPromotedEvent, reg.ID, user.ID, user.Email, time.Now().UTC().Format(time.RFC3339))

	return &domain.VerificationOutcome{Verified: true, Promoted: true, User: user}, nil
}

// promotedOutcome is what a replayed completion and the loser of a
// promotion race observe: the verification reads as done and the
// account that already exists is returned.
func (s *RegistrationServiceImpl) promotedOutcome(ctx context.Context, reg *domain.PreRegistration) (*domain.VerificationOutcome, error) {
	user, err := s.users.FindByEmail(ctx, reg.Email)
	if err != nil {
		return nil, domain.ErrAlreadyPromoted
	}
	return &domain.VerificationOutcome{Verified: true, Promoted: true, User: user}, nil
}

// ResendCode implements domain.RegistrationService. Resends are gated by
// the resend policy before any new code is issued.
func (s *RegistrationServiceImpl) ResendCode(ctx context.Context, token string, channel domain.Channel) error {
	reg, err := s.regs.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	if reg.Promoted {
		return domain.ErrAlreadyPromoted
	}

	subject := reg.Subject()
	allowed, retryAfter, err := s.limiter.Allow(ctx, subject, channel, domain.OpResend)
	if err != nil {
		return fmt.Errorf("failed to check resend limit: %w", err)
	}
	if !allowed {
		log.Printf("%s: prereg_id=%d channel=%s retry_after=%s", domain.CodeResendDeniedEvent, reg.ID, channel, retryAfter)
		return &domain.RateLimitError{RetryAfter: retryAfter}
	}

	destination := reg.Email
	if channel == domain.ChannelPhone {
		destination = reg.Phone
	}
	if _, err := s.otpSvc.Issue(ctx, subject, channel, destination); err != nil {
		return fmt.Errorf("failed to issue code: %w", err)
	}

	return s.limiter.Record(ctx, subject, channel, domain.OpResend)
}

// ReclaimStale implements domain.RegistrationService
func (s *RegistrationServiceImpl) ReclaimStale(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.config.StaleAfter)
	deleted, err := s.regs.DeleteStale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to reclaim stale registrations: %w", err)
	}
	if deleted > 0 {
		log.Printf("%s: count=%d cutoff=%s", domain.RegistrationReclaimEvent, deleted, cutoff.UTC().Format(time.RFC3339))
	}
	return deleted, nil
}

// generateToken creates the single-use opaque promotion token.
func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
