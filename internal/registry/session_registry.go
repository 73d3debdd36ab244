// Package registry tracks the most recently issued token per user. It
// is a TTL cache over redis, not a source of truth: the token itself is
// self-verifying, and a missing entry is not an authorization failure.
package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNoSession = errors.New("no active session")

type SessionRegistry struct {
	client *redis.Client
}

func NewSessionRegistry(client *redis.Client) *SessionRegistry {
	return &SessionRegistry{client: client}
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

func (r *SessionRegistry) Put(ctx context.Context, userID string, token string, ttl time.Duration) error {
	return r.client.Set(ctx, sessionKey(userID), token, ttl).Err()
}

func (r *SessionRegistry) Get(ctx context.Context, userID string) (string, error) {
	token, err := r.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}
		return "", err
	}
	return token, nil
}

func (r *SessionRegistry) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, sessionKey(userID)).Err()
}
