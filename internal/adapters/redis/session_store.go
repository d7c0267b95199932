package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

// SessionStore is a Redis-based store for admin sessions.
// It handles TTL semantics automatically based on session ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "adminsession:",
	}
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
	}
}

func (s *SessionStore) Save(ctx context.Context, sess ports.AdminSession) error {
	if sess.Token == "" {
		return errors.New("session token cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := s.prefix + sess.Token
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		// Session is already expired, don't save it
		return errors.New("session is expired")
	}

	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, token string) (ports.AdminSession, error) {
	if token == "" {
		return ports.AdminSession{}, ErrNotFound
	}

	key := s.prefix + token
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.AdminSession{}, ErrNotFound
		}
		return ports.AdminSession{}, fmt.Errorf("redis get: %w", err)
	}

	var sess ports.AdminSession
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return ports.AdminSession{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Double-check expiration (Redis TTL should handle this, but be defensive)
	if time.Now().After(sess.ExpiresAt) {
		if deleteErr := s.Delete(ctx, token); deleteErr != nil {
			return ports.AdminSession{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return ports.AdminSession{}, ErrNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil // Nothing to delete
	}

	key := s.prefix + token
	return s.client.Del(ctx, key).Err()
}

// ErrNotFound is returned when a session is not found.
var ErrNotFound = ports.ErrSessionNotFound

var _ ports.SessionStore = (*SessionStore)(nil)
