package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tracker keeps online state and last-activity timestamps in Redis. The
// directory's active-today badge and the messaging hub both read from it.
type Tracker struct {
	redis *redis.Client
}

func NewTracker(redisClient *redis.Client) *Tracker {
	return &Tracker{
		redis: redisClient,
	}
}

func (t *Tracker) SetOnline(ctx context.Context, userID string) error {
	pipe := t.redis.Pipeline()

	userKey := fmt.Sprintf("presence:user:%s", userID)
	pipe.HSet(ctx, userKey, map[string]interface{}{
		"status":    "online",
		"last_seen": time.Now().Unix(),
	})
	pipe.Expire(ctx, userKey, 24*time.Hour)

	pipe.SAdd(ctx, "presence:online_users", userID)

	_, err := pipe.Exec(ctx)
	return err
}

func (t *Tracker) SetOffline(ctx context.Context, userID string) error {
	pipe := t.redis.Pipeline()

	userKey := fmt.Sprintf("presence:user:%s", userID)
	pipe.HSet(ctx, userKey, map[string]interface{}{
		"status":    "offline",
		"last_seen": time.Now().Unix(),
	})

	pipe.SRem(ctx, "presence:online_users", userID)

	_, err := pipe.Exec(ctx)
	return err
}

func (t *Tracker) IsOnline(ctx context.Context, userID string) (bool, error) {
	return t.redis.SIsMember(ctx, "presence:online_users", userID).Result()
}

func (t *Tracker) GetOnlineUsers(ctx context.Context) ([]string, error) {
	return t.redis.SMembers(ctx, "presence:online_users").Result()
}

func (t *Tracker) Heartbeat(ctx context.Context, userID string) error {
	userKey := fmt.Sprintf("presence:user:%s", userID)
	return t.redis.HSet(ctx, userKey, "last_seen", time.Now().Unix()).Err()
}

// LastSeen returns the recorded last-activity time, or zero when unknown.
func (t *Tracker) LastSeen(ctx context.Context, userID string) (time.Time, error) {
	userKey := fmt.Sprintf("presence:user:%s", userID)
	raw, err := t.redis.HGet(ctx, userKey, "last_seen").Result()
	if err != nil {
		if err == redis.Nil {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}

	var unix int64
	fmt.Sscanf(raw, "%d", &unix)
	return time.Unix(unix, 0), nil
}

// StorePendingMessage queues a message for an offline recipient. The queue
// is capped at 100 entries and kept for a week.
func (t *Tracker) StorePendingMessage(ctx context.Context, userID string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("pending:messages:%s", userID)
	pipe := t.redis.Pipeline()

	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, 99)
	pipe.Expire(ctx, key, 7*24*time.Hour)

	_, err = pipe.Exec(ctx)
	return err
}

// GetPendingMessages returns queued messages oldest first.
func (t *Tracker) GetPendingMessages(ctx context.Context, userID string) ([]string, error) {
	key := fmt.Sprintf("pending:messages:%s", userID)
	messages, err := t.redis.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (t *Tracker) ClearPendingMessages(ctx context.Context, userID string) error {
	key := fmt.Sprintf("pending:messages:%s", userID)
	return t.redis.Del(ctx, key).Err()
}

// CleanupInactive flips users offline when their heartbeat has lapsed.
func (t *Tracker) CleanupInactive(ctx context.Context, inactiveThreshold time.Duration) error {
	onlineUsers, err := t.GetOnlineUsers(ctx)
	if err != nil {
		return err
	}

	threshold := time.Now().Add(-inactiveThreshold)

	for _, userID := range onlineUsers {
		lastSeen, err := t.LastSeen(ctx, userID)
		if err != nil {
			continue
		}
		if lastSeen.Before(threshold) {
			t.SetOffline(ctx, userID)
		}
	}

	return nil
}
