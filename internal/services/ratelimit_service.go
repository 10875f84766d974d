package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// RateLimiterImpl implements domain.RateLimiter with Redis sorted sets.
// Each recorded event is a ZSET member scored by its timestamp, so the
// trailing window is just a score range.
type RateLimiterImpl struct {
	client   *redis.Client
	policies map[domain.OperationClass]domain.RateLimitPolicy
}

// NewRateLimiter creates a sliding-window rate limiter
func NewRateLimiter(client *redis.Client, policies map[domain.OperationClass]domain.RateLimitPolicy) domain.RateLimiter {
	return &RateLimiterImpl{
		client:   client,
		policies: policies,
	}
}

func windowKey(subject domain.Subject, channel domain.Channel, class domain.OperationClass) string {
	return fmt.Sprintf("rl:%s:%s:%d:%s", class, subject.Kind, subject.ID, channel)
}

// Allow implements domain.RateLimiter. It trims aged-out events and then
// counts what remains; it never records anything, so a denied call does
// not extend the window.
func (s *RateLimiterImpl) Allow(ctx context.Context, subject domain.Subject, channel domain.Channel, class domain.OperationClass) (bool, time.Duration, error) {
	policy, ok := s.policies[class]
	if !ok || policy.Max <= 0 {
		return true, 0, nil
	}

	key := windowKey(subject, channel, class)
	now := time.Now()
	cutoff := now.Add(-policy.Window)

	if err := s.client.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff.UnixNano(), 10)).Err(); err != nil {
		return false, 0, fmt.Errorf("failed to trim rate-limit window: %w", err)
	}

	count, err := s.client.ZCard(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to count rate-limit window: %w", err)
	}
	if count < int64(policy.Max) {
		return true, 0, nil
	}

	oldest, err := s.client.ZRangeWithScores(ctx, key, 0, 0).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to read oldest event: %w", err)
	}
	if len(oldest) == 0 {
		return true, 0, nil
	}

	retryAfter := time.Unix(0, int64(oldest[0].Score)).Add(policy.Window).Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return false, retryAfter, nil
}

// Record implements domain.RateLimiter
func (s *RateLimiterImpl) Record(ctx context.Context, subject domain.Subject, channel domain.Channel, class domain.OperationClass) error {
	policy, ok := s.policies[class]
	if !ok || policy.Max <= 0 {
		return nil
	}

	key := windowKey(subject, channel, class)
	now := time.Now()

	err := s.client.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to record rate-limit event: %w", err)
	}

	// Key expiry is only housekeeping; correctness comes from score trimming.
	return s.client.Expire(ctx, key, policy.Window).Err()
}
