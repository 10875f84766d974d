package mocks

import (
	"context"
	"time"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// MockRegistrationRepository implements domain.RegistrationRepository interface for testing
type MockRegistrationRepository struct {
	CreateFunc              func(ctx context.Context, reg *domain.PreRegistration) error
	FindByTokenFunc         func(ctx context.Context, token string) (*domain.PreRegistration, error)
	FindByIDFunc            func(ctx context.Context, id uint) (*domain.PreRegistration, error)
	DeleteByEmailFunc       func(ctx context.Context, email string) error
	MarkChannelVerifiedFunc func(ctx context.Context, id uint, channel domain.Channel) (*domain.PreRegistration, error)
	ClaimPromotionFunc      func(ctx context.Context, id uint) (bool, error)
	DeleteStaleFunc         func(ctx context.Context, olderThan time.Time) (int64, error)
}

// NewMockRegistrationRepository creates a new MockRegistrationRepository with default behaviors
func NewMockRegistrationRepository() *MockRegistrationRepository {
	return &MockRegistrationRepository{}
}

// Create stages a new registration
func (m *MockRegistrationRepository) Create(ctx context.Context, reg *domain.PreRegistration) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, reg)
	}
	// Default behavior: success, assign a stable id
	reg.ID = 1
	return nil
}

// FindByToken looks up a staged registration by its promotion token
func (m *MockRegistrationRepository) FindByToken(ctx context.Context, token string) (*domain.PreRegistration, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, token)
	}
	// Default behavior: not found
	return nil, domain.ErrRegistrationNotFound
}

// FindByID looks up a staged registration by id
func (m *MockRegistrationRepository) FindByID(ctx context.Context, id uint) (*domain.PreRegistration, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrRegistrationNotFound
}

// DeleteByEmail discards earlier incomplete attempts
func (m *MockRegistrationRepository) DeleteByEmail(ctx context.Context, email string) error {
	if m.DeleteByEmailFunc != nil {
		return m.DeleteByEmailFunc(ctx, email)
	}
	// Default behavior: success
	return nil
}

// MarkChannelVerified flips a channel flag
func (m *MockRegistrationRepository) MarkChannelVerified(ctx context.Context, id uint, channel domain.Channel) (*domain.PreRegistration, error) {
	if m.MarkChannelVerifiedFunc != nil {
		return m.MarkChannelVerifiedFunc(ctx, id, channel)
	}
	// Default behavior: not found
	return nil, domain.ErrRegistrationNotFound
}

// ClaimPromotion performs the promoted-flag compare-and-swap
func (m *MockRegistrationRepository) ClaimPromotion(ctx context.Context, id uint) (bool, error) {
	if m.ClaimPromotionFunc != nil {
		return m.ClaimPromotionFunc(ctx, id)
	}
	// Default behavior: claim won
	return true, nil
}

// DeleteStale reclaims abandoned registrations
func (m *MockRegistrationRepository) DeleteStale(ctx context.Context, olderThan time.Time) (int64, error) {
	if m.DeleteStaleFunc != nil {
		return m.DeleteStaleFunc(ctx, olderThan)
	}
	// Default behavior: nothing reclaimed
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.RegistrationRepository = (*MockRegistrationRepository)(nil)
