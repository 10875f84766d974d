package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// OTPServiceImpl implements domain.OTPService over the verification store
type OTPServiceImpl struct {
	verifications domain.VerificationRepository
	notifier      domain.NotificationService
	config        OTPConfig
}

type OTPConfig struct {
	Length int
	TTL    time.Duration
}

// NewOTPService creates a new OTP service
func NewOTPService(verifications domain.VerificationRepository, notifier domain.NotificationService, config OTPConfig) domain.OTPService {
	return &OTPServiceImpl{
		verifications: verifications,
		notifier:      notifier,
		config:        config,
	}
}

// Issue implements domain.OTPService. The row is persisted before the
// response; dispatch to email/SMS is best-effort and never rolls the
// issuance back.
func (s *OTPServiceImpl) Issue(ctx context.Context, subject domain.Subject, channel domain.Channel, destination string) (*domain.VerificationCode, error) {
	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	vc := &domain.VerificationCode{
		SubjectKind: subject.Kind,
		SubjectID:   subject.ID,
		Channel:     channel,
		Code:        code,
		IssuedAt:    time.Now(),
	}
	if err := s.verifications.Create(ctx, vc); err != nil {
		return nil, fmt.Errorf("failed to store verification code: %w", err)
	}

	go s.dispatch(channel, destination, code)

	log.Printf("%s: subject=%s/%d channel=%s timestamp=%s",
		domain.CodeIssuedEvent, subject.Kind, subject.ID, channel, time.Now().UTC().Format(time.RFC3339))

	return vc, nil
}

// Verify implements domain.OTPService. Only the newest code counts; a
// consumed one stays dead even when an older unconsumed code is still
// within its TTL, an expired code is never consumed, and a mismatch
// leaves the pending code usable for the next attempt.
func (s *OTPServiceImpl) Verify(ctx context.Context, subject domain.Subject, channel domain.Channel, submitted string) error {
	latest, err := s.verifications.Latest(ctx, subject, channel)
	if err != nil {
		return err
	}

	if latest.Consumed {
		return domain.ErrCodeConsumed
	}

	if latest.ExpiredAt(time.Now(), s.config.TTL) {
		return domain.ErrCodeExpired
	}

	if latest.Code != submitted {
		return domain.ErrCodeMismatch
	}

	won, err := s.verifications.Consume(ctx, latest.ID)
	if err != nil {
		return fmt.Errorf("failed to consume verification code: %w", err)
	}
	if !won {
		return domain.ErrCodeConsumed
	}

	return nil
}

func (s *OTPServiceImpl) dispatch(channel domain.Channel, destination, code string) {
	ttlMinutes := int(s.config.TTL.Minutes())
	var err error
	switch channel {
	case domain.ChannelPhone:
		message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, ttlMinutes)
		err = s.notifier.SendSMS(destination, message)
	default:
		body := fmt.Sprintf("Your verification code is: %s. It is valid for %d minutes.", code, ttlMinutes)
		err = s.notifier.SendEmail(destination, "Your Education Pioneer verification code", body)
	}
	if err != nil {
		log.Printf("CODE_DISPATCH_FAILED: channel=%s destination=%s error=%v", channel, destination, err)
	}
}

// generateSecureCode generates a cryptographically secure numeric code
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
