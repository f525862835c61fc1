// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cloudvault/cloudvault/internal/platform/apperr"
	"github.com/cloudvault/cloudvault/internal/platform/constants"
)

// RedisStore implements [Store] on Redis.
//
// # TTL Semantics
//
// The key TTL is derived from the session's ExpiresAt, so Redis enforces the
// 24-hour lifetime without any reaper; Find still re-checks the deadline
// defensively in case a record outlives its intended TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: constants.RedisPrefixSession,
	}
}

// Save persists a session with a TTL equal to its remaining lifetime.
func (store *RedisStore) Save(ctx context.Context, session *Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		// Already past its deadline; storing it would resurrect nothing.
		return nil
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	key := store.prefix + session.TokenHash
	if err := store.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_save_failed: %w", err)
	}

	return nil
}

// Find returns the live session for a token hash.
func (store *RedisStore) Find(ctx context.Context, tokenHash string) (*Session, error) {
	key := store.prefix + tokenHash

	payload, err := store.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_find_failed: %w", err)
	}

	record := &Session{}
	if err := json.Unmarshal([]byte(payload), record); err != nil {
		return nil, fmt.Errorf("redis_session_unmarshal_failed: %w", err)
	}

	// Redis TTL should have evicted this already; be defensive.
	if record.Expired(time.Now()) {
		if err := store.Delete(ctx, tokenHash); err != nil {
			return nil, fmt.Errorf("redis_session_cleanup_failed: %w", err)
		}
		return nil, apperr.NotFound("Session")
	}

	return record, nil
}

// Delete removes a session. Deleting an absent key is a no-op in Redis,
// which keeps destroy idempotent.
func (store *RedisStore) Delete(ctx context.Context, tokenHash string) error {
	key := store.prefix + tokenHash
	if err := store.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	return nil
}
