package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Skufu/symptomdx/internal/apperr"
)

// RedisStore keeps the bundle as one JSON value under Key. A single SET
// replaces the whole bundle.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// DialRedis opens a client and verifies the connection.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Put(ctx context.Context, b *Bundle) error {
	if !complete(b) {
		return fmt.Errorf("artifact: refusing to publish incomplete bundle %s", b.Version)
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("artifact: marshal bundle: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("artifact: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context) (*Bundle, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NewArtifactMissing("model")
	}
	if err != nil {
		return nil, apperr.NewInternalError("redis get artifact bundle", err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, apperr.NewInternalError("decode artifact bundle", err)
	}
	return &b, nil
}
