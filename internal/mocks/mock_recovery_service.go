package mocks

import (
	"context"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// MockRecoveryService implements domain.RecoveryService interface for testing
type MockRecoveryService struct {
	RequestResetFunc func(ctx context.Context, email string) error
	ConfirmResetFunc func(ctx context.Context, email, code, newPassword string) error
}

// NewMockRecoveryService creates a new MockRecoveryService with default behaviors
func NewMockRecoveryService() *MockRecoveryService {
	return &MockRecoveryService{}
}

// RequestReset starts a password recovery flow
func (m *MockRecoveryService) RequestReset(ctx context.Context, email string) error {
	if m.RequestResetFunc != nil {
		return m.RequestResetFunc(ctx, email)
	}
	// Default behavior: generic acknowledgment
	return nil
}

// ConfirmReset completes a password recovery flow
func (m *MockRecoveryService) ConfirmReset(ctx context.Context, email, code, newPassword string) error {
	if m.ConfirmResetFunc != nil {
		return m.ConfirmResetFunc(ctx, email, code, newPassword)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.RecoveryService = (*MockRecoveryService)(nil)
