package mocks

import (
	"context"
	"time"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	IssueFunc  func(ctx context.Context, subject domain.Subject, channel domain.Channel, destination string) (*domain.VerificationCode, error)
	VerifyFunc func(ctx context.Context, subject domain.Subject, channel domain.Channel, code string) error
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Issue issues a verification code for the pair
func (m *MockOTPService) Issue(ctx context.Context, subject domain.Subject, channel domain.Channel, destination string) (*domain.VerificationCode, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, subject, channel, destination)
	}
	// Default behavior: return a fixed code
	return &domain.VerificationCode{
		ID:          1,
		SubjectKind: subject.Kind,
		SubjectID:   subject.ID,
		Channel:     channel,
		Code:        "123456",
		IssuedAt:    time.Now(),
	}, nil
}

// Verify checks the submitted code
func (m *MockOTPService) Verify(ctx context.Context, subject domain.Subject, channel domain.Channel, code string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, subject, channel, code)
	}
	// Default behavior: accept "123456"
	if code == "123456" {
		return nil
	}
	return domain.ErrCodeMismatch
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
