package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hongminglow/km-agri-be/internal/auth"
	"github.com/hongminglow/km-agri-be/internal/models"
)

const keyPrefix = "km-agri:session:"

// Ensure RedisStore satisfies the Manager interface at compile time.
var _ Manager = (*RedisStore)(nil)

// RedisStore keeps random session ids in Redis, each mapped to a user id
// and expiring after ttl.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a client and checks the server answers.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Issue stores a new session id for user.
func (s *RedisStore) Issue(ctx context.Context, user models.User) (string, error) {
	id := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+id, user.ID.Hex(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

// Resolve returns the user id of a live session.
func (s *RedisStore) Resolve(ctx context.Context, token string) (string, error) {
	if _, err := uuid.Parse(token); err != nil {
		return "", auth.ErrInvalidToken
	}
	userID, err := s.client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", auth.ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return userID, nil
}

// Revoke deletes the session.
func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// TTL is the lifetime of new sessions.
func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}
