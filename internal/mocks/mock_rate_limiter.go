package mocks

import (
	"context"
	"time"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// MockRateLimiter implements domain.RateLimiter interface for testing
type MockRateLimiter struct {
	AllowFunc  func(ctx context.Context, subject domain.Subject, channel domain.Channel, class domain.OperationClass) (bool, time.Duration, error)
	RecordFunc func(ctx context.Context, subject domain.Subject, channel domain.Channel, class domain.OperationClass) error

	// Recorded collects every Record call for assertions.
	Recorded []domain.OperationClass
}

// NewMockRateLimiter creates a new MockRateLimiter with default behaviors
func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{}
}

// Allow checks whether the operation may proceed
func (m *MockRateLimiter) Allow(ctx context.Context, subject domain.Subject, channel domain.Channel, class domain.OperationClass) (bool, time.Duration, error) {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, subject, channel, class)
	}
	// Default behavior: always allowed
	return true, 0, nil
}

// Record counts one performed operation
func (m *MockRateLimiter) Record(ctx context.Context, subject domain.Subject, channel domain.Channel, class domain.OperationClass) error {
	m.Recorded = append(m.Recorded, class)
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, subject, channel, class)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.RateLimiter = (*MockRateLimiter)(nil)
