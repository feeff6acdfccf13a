package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSessionKey = "surplusmarket:client:session"

// RedisVault stores the serialized session under a single Redis key so it
// survives process restarts.
type RedisVault struct {
	client *redis.Client
	key    string
}

// NewRedisVault connects to Redis using a redis:// URL and verifies the
// connection before returning.
func NewRedisVault(redisURL string) (*RedisVault, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisVault{client: client, key: defaultSessionKey}, nil
}

// NewRedisVaultWithClient wraps an existing Redis client. An empty key uses
// the default.
func NewRedisVaultWithClient(client *redis.Client, key string) *RedisVault {
	if key == "" {
		key = defaultSessionKey
	}
	return &RedisVault{client: client, key: key}
}

func (r *RedisVault) Load(ctx context.Context) (*Session, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		// A corrupt record is unrecoverable; treat it as absent.
		_ = r.client.Del(ctx, r.key).Err()
		return nil, nil
	}
	return &s, nil
}

func (r *RedisVault) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (r *RedisVault) Erase(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to erase session: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (r *RedisVault) Close() error {
	return r.client.Close()
}
