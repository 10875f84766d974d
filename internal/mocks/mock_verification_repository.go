package mocks

import (
	"context"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// MockVerificationRepository implements domain.VerificationRepository interface for testing
type MockVerificationRepository struct {
	CreateFunc           func(ctx context.Context, code *domain.VerificationCode) error
	LatestFunc           func(ctx context.Context, subject domain.Subject, channel domain.Channel) (*domain.VerificationCode, error)
	ConsumeFunc          func(ctx context.Context, id uint) (bool, error)
	DeleteForSubjectFunc func(ctx context.Context, subject domain.Subject) error
}

// NewMockVerificationRepository creates a new MockVerificationRepository with default behaviors
func NewMockVerificationRepository() *MockVerificationRepository {
	return &MockVerificationRepository{}
}

// Create persists an issued code
func (m *MockVerificationRepository) Create(ctx context.Context, code *domain.VerificationCode) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, code)
	}
	// Default behavior: success, assign a stable id
	code.ID = 1
	return nil
}

// Latest returns the newest code for the pair, consumed or not
func (m *MockVerificationRepository) Latest(ctx context.Context, subject domain.Subject, channel domain.Channel) (*domain.VerificationCode, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx, subject, channel)
	}
	// Default behavior: nothing pending
	return nil, domain.ErrCodeNotFound
}

// Consume performs the consumed-flag compare-and-swap
func (m *MockVerificationRepository) Consume(ctx context.Context, id uint) (bool, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, id)
	}
	// Default behavior: this caller wins
	return true, nil
}

// DeleteForSubject drops a subject's code history
func (m *MockVerificationRepository) DeleteForSubject(ctx context.Context, subject domain.Subject) error {
	if m.DeleteForSubjectFunc != nil {
		return m.DeleteForSubjectFunc(ctx, subject)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.VerificationRepository = (*MockVerificationRepository)(nil)
