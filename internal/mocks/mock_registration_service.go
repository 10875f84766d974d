package mocks

import (
	"context"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// MockRegistrationService implements domain.RegistrationService interface for testing
type MockRegistrationService struct {
	RegisterFunc      func(ctx context.Context, req domain.RegistrationRequest) (*domain.PreRegistration, error)
	VerifyChannelFunc func(ctx context.Context, token string, channel domain.Channel, code string) (*domain.VerificationOutcome, error)
	ResendCodeFunc    func(ctx context.Context, token string, channel domain.Channel) error
	ReclaimStaleFunc  func(ctx context.Context) (int64, error)
}

// NewMockRegistrationService creates a new MockRegistrationService with default behaviors
func NewMockRegistrationService() *MockRegistrationService {
	return &MockRegistrationService{}
}

// Register stages a registration
func (m *MockRegistrationService) Register(ctx context.Context, req domain.RegistrationRequest) (*domain.PreRegistration, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	// Default behavior: staged with a fixed token
	return &domain.PreRegistration{
		ID:       1,
		Email:    req.Email,
		Phone:    req.Phone,
		Name:     req.Name,
		UserType: req.UserType,
		Token:    "mock_pre_token",
	}, nil
}

// VerifyChannel verifies a channel code
func (m *MockRegistrationService) VerifyChannel(ctx context.Context, token string, channel domain.Channel, code string) (*domain.VerificationOutcome, error) {
	if m.VerifyChannelFunc != nil {
		return m.VerifyChannelFunc(ctx, token, channel, code)
	}
	// Default behavior: verified, not yet promoted
	return &domain.VerificationOutcome{Verified: true}, nil
}

// ResendCode issues a fresh code
func (m *MockRegistrationService) ResendCode(ctx context.Context, token string, channel domain.Channel) error {
	if m.ResendCodeFunc != nil {
		return m.ResendCodeFunc(ctx, token, channel)
	}
	// Default behavior: success
	return nil
}

// ReclaimStale reclaims abandoned registrations
func (m *MockRegistrationService) ReclaimStale(ctx context.Context) (int64, error) {
	if m.ReclaimStaleFunc != nil {
		return m.ReclaimStaleFunc(ctx)
	}
	// Default behavior: nothing reclaimed
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.RegistrationService = (*MockRegistrationService)(nil)
