package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using Redis
type SessionRepositoryImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(client *redis.Client, ttl time.Duration) domain.SessionRepository {
	return &SessionRepositoryImpl{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

func (r *SessionRepositoryImpl) userKey(userID uint) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

// Create implements domain.SessionRepository. The per-user set is what
// lets a password reset revoke every live session at once.
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	key := r.prefix + session.ID
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return err
	}

	userKey := r.userKey(session.UserID)
	if err := r.client.SAdd(ctx, userKey, session.ID).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, userKey, r.ttl).Err()
}

// FindByID implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	key := r.prefix + sessionID
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// Check if expired
	if session.ExpiresAt.Before(time.Now()) {
		r.client.Del(ctx, key)
		r.client.SRem(ctx, r.userKey(session.UserID), session.ID)
		return nil, domain.ErrSessionExpired
	}

	return &session, nil
}

// Delete implements domain.SessionRepository
func (r *SessionRepositoryImpl) Delete(ctx context.Context, sessionID string) error {
	session, err := r.FindByID(ctx, sessionID)
	if err == nil {
		r.client.SRem(ctx, r.userKey(session.UserID), sessionID)
	}
	return r.client.Del(ctx, r.prefix+sessionID).Err()
}

// DeleteByUserID implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteByUserID(ctx context.Context, userID uint) error {
	userKey := r.userKey(userID)
	ids, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := r.client.Del(ctx, r.prefix+id).Err(); err != nil {
			return err
		}
	}
	return r.client.Del(ctx, userKey).Err()
}
