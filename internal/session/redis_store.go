package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so pending orders survive process
// restarts. Values are written without TTL: a session lives until it is
// confirmed or cancelled.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	return &RedisStore{client: client, keyPrefix: "orderbot:session:"}
}

func (s *RedisStore) key(phone string) string {
	return s.keyPrefix + phone
}

// Set overwrites any existing session.
func (s *RedisStore) Set(ctx context.Context, phone string, sess Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(phone), payload, 0).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

// Get returns the session for the phone number.
func (s *RedisStore) Get(ctx context.Context, phone string) (Session, bool, error) {
	payload, err := s.client.Get(ctx, s.key(phone)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("session: redis get: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return Session{}, false, fmt.Errorf("session: decode: %w", err)
	}
	return sess, true, nil
}

// Delete removes the session. Idempotent.
func (s *RedisStore) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, s.key(phone)).Err(); err != nil {
		return fmt.Errorf("session: redis delete: %w", err)
	}
	return nil
}
