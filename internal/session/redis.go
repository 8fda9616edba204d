package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const tabKeyFmt = "tab:%s:%s"

// RedisStore keeps each tab as a JSON string with an inactivity TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func tabKey(sessionID, agentID string) string {
	return fmt.Sprintf(tabKeyFmt, sessionID, agentID)
}

// Get reads a tab and pushes its expiry out by another TTL.
func (s *RedisStore) Get(ctx context.Context, sessionID, agentID string) (TabState, error) {
	key := tabKey(sessionID, agentID)
	raw, err := s.rdb.GetEx(ctx, key, s.ttl).Result()
	if errors.Is(err, redis.Nil) {
		return TabState{}, ErrNotFound
	}
	if err != nil {
		return TabState{}, err
	}
	var st TabState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return TabState{}, fmt.Errorf("corrupt tab state %s: %w", key, err)
	}
	return st, nil
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, state TabState) error {
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, tabKey(sessionID, state.AgentID), raw, s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, sessionID, agentID string) error {
	return s.rdb.Del(ctx, tabKey(sessionID, agentID)).Err()
}

func (s *RedisStore) ClearAll(ctx context.Context, sessionID string) error {
	keys, err := s.scan(ctx, fmt.Sprintf(tabKeyFmt, sessionID, "*"))
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// ActiveSessions counts unique sessions that still hold at least one tab.
func (s *RedisStore) ActiveSessions(ctx context.Context) (int, error) {
	keys, err := s.scan(ctx, "tab:*")
	if err != nil {
		return 0, err
	}
	sessions := make(map[string]struct{})
	for _, key := range keys {
		parts := strings.SplitN(key, ":", 3)
		if len(parts) == 3 && parts[0] == "tab" && parts[1] != "" {
			sessions[parts[1]] = struct{}{}
		}
	}
	return len(sessions), nil
}

func (s *RedisStore) scan(ctx context.Context, pattern string) ([]string, error) {
	var cursor uint64
	var out []string
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		out = append(out, keys...)
		if next == 0 {
			break
		}
		cursor = next
	}
	return out, nil
}
