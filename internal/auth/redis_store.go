package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore manages refresh-token sessions in Redis
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// StoreSession saves session data
func (s *SessionStore) StoreSession(ctx context.Context, sessionID string, data map[string]string, expiry time.Duration) error {
	key := fmt.Sprintf("session:%s", sessionID)

	args := make([]interface{}, 0, len(data)*2)
	for k, v := range data {
		args = append(args, k, v)
	}

	if err := s.client.HSet(ctx, key, args...).Err(); err != nil {
		return err
	}

	return s.client.Expire(ctx, key, expiry).Err()
}

// GetSession retrieves session data
func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (map[string]string, error) {
	key := fmt.Sprintf("session:%s", sessionID)
	return s.client.HGetAll(ctx, key).Result()
}

// DeleteSession removes a session
func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf("session:%s", sessionID)
	return s.client.Del(ctx, key).Err()
}

// ExtendSession updates the expiration time
func (s *SessionStore) ExtendSession(ctx context.Context, sessionID string, expiry time.Duration) error {
	key := fmt.Sprintf("session:%s", sessionID)
	return s.client.Expire(ctx, key, expiry).Err()
}

// AttemptLimiter counts request attempts per key within a fixed window,
// used for login throttling and per-route rate limits.
type AttemptLimiter struct {
	client *redis.Client
}

func NewAttemptLimiter(client *redis.Client) *AttemptLimiter {
	return &AttemptLimiter{client: client}
}

// Increment bumps the counter for a key and returns the new count. The
// window starts with the first attempt.
func (l *AttemptLimiter) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	val, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, err
	}

	if val == 1 {
		l.client.Expire(ctx, redisKey, window)
	}

	return int(val), nil
}

// Reset clears the counter for a key.
func (l *AttemptLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, fmt.Sprintf("ratelimit:%s", key)).Err()
}
