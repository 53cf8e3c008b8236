package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SecretStore is the ephemeral key/value store with a TTL per key. It backs
// pending-activation password hashes, the single refresh token per user and
// cached session snapshots. A get on an absent or expired key is a miss, not
// an error; errors are reserved for transport failures.
type SecretStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

// Key builders. One refresh token and one session snapshot exist per user;
// writing either key silently supersedes the previous value.
func ActivationKey(email string) string { return "activation:" + email }
func RefreshKey(userID uint64) string   { return fmt.Sprintf("refresh_token:%d", userID) }
func SessionKey(userID uint64) string   { return fmt.Sprintf("user_state:%d", userID) }

// RedisSecretStore implements SecretStore over a Redis connection.
type RedisSecretStore struct{ RDB *redis.Client }

func NewRedisSecretStore(rdb *redis.Client) *RedisSecretStore {
	return &RedisSecretStore{RDB: rdb}
}

func (s *RedisSecretStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.RDB.Set(ctx, key, value, ttl).Err()
}

func (s *RedisSecretStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisSecretStore) Delete(ctx context.Context, key string) error {
	return s.RDB.Del(ctx, key).Err()
}
