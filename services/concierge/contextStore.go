package concierge

import (
	"context"
	"encoding/json"
	"time"

	"voyago/models"

	"github.com/go-redis/redis/v8"
)

const sessionContextPrefix = "concierge:ctx:"

// ContextStore snapshots per-session conversation state. The live state is
// owned by the session's dialogue manager; the store only mirrors it so a
// crashed process can be inspected and an idle key eventually expires.
type ContextStore interface {
	Get(ctx context.Context, sessionID string) (*models.ConversationContext, error)
	Set(ctx context.Context, sessionID string, convo *models.ConversationContext) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisContextStore implements ContextStore on a dedicated Redis DB.
type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, sessionID string) (*models.ConversationContext, error) {
	key := sessionContextPrefix + sessionID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &models.ConversationContext{}, nil
	}
	if err != nil {
		return nil, err
	}
	var convo models.ConversationContext
	if err := json.Unmarshal([]byte(data), &convo); err != nil {
		return nil, err
	}
	return &convo, nil
}

func (s *RedisContextStore) Set(ctx context.Context, sessionID string, convo *models.ConversationContext) error {
	key := sessionContextPrefix + sessionID
	b, err := json.Marshal(convo)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionContextPrefix+sessionID).Err()
}
