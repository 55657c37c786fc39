package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyFormat = "token:%s"

type RedisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func (s *RedisTokenStore) Save(ctx context.Context, token string, id Identity, ttl time.Duration) error {
	payload, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("token store: failed to marshal identity: %w", err)
	}

	if err := s.rdb.Set(ctx, fmt.Sprintf(tokenKeyFormat, token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("token store: failed to save token: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Get(ctx context.Context, token string) (Identity, error) {
	payload, err := s.rdb.Get(ctx, fmt.Sprintf(tokenKeyFormat, token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Identity{}, ErrTokenNotFound
		}
		return Identity{}, fmt.Errorf("token store: failed to get token: %w", err)
	}

	var id Identity
	if err := json.Unmarshal(payload, &id); err != nil {
		return Identity{}, fmt.Errorf("token store: failed to unmarshal identity: %w", err)
	}
	return id, nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, fmt.Sprintf(tokenKeyFormat, token)).Err(); err != nil {
		return fmt.Errorf("token store: failed to delete token: %w", err)
	}
	return nil
}
