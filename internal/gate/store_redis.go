// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package gate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cloudvault/cloudvault/internal/platform/constants"
)

// consumeScript compares the submitted candidate against the stored code and
// deletes the challenge on a match, as one atomic step on the Redis side.
// Returns 1 on a match, 0 otherwise.
var consumeScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	return 0
end
local challenge = cjson.decode(raw)
if challenge.code == ARGV[1] then
	redis.call('DEL', KEYS[1])
	return 1
end
return 0
`)

// RedisChallengeStore persists live challenges in Redis with the TTL
// enforced server-side, so expiry and absence are the same condition.
type RedisChallengeStore struct {
	client *redis.Client
}

func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{client: client}
}

func (store *RedisChallengeStore) key(callerID, resourceID string) string {
	return constants.RedisPrefixChallenge + callerID + ":" + resourceID
}

func (store *RedisChallengeStore) Ensure(ctx context.Context, callerID, resourceID string, ttl time.Duration, mint func() (string, error)) (*Challenge, bool, error) {
	key := store.key(callerID, resourceID)

	// SETNX decides the race between concurrent access requests: exactly one
	// caller mints, everyone else reads the winner's code. The bounded retry
	// covers a challenge expiring between the failed SETNX and the GET.
	for attempt := 0; attempt < 3; attempt++ {
		code, err := mint()
		if err != nil {
			return nil, false, err
		}

		now := time.Now()
		challenge := &Challenge{
			CallerID:   callerID,
			ResourceID: resourceID,
			Code:       code,
			IssuedAt:   now,
			ExpiresAt:  now.Add(ttl),
		}
		payload, err := json.Marshal(challenge)
		if err != nil {
			return nil, false, fmt.Errorf("marshal challenge: %w", err)
		}

		created, err := store.client.SetNX(ctx, key, payload, ttl).Result()
		if err != nil {
			return nil, false, fmt.Errorf("store challenge: %w", err)
		}
		if created {
			return challenge, true, nil
		}

		raw, err := store.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("load challenge: %w", err)
		}

		live := &Challenge{}
		if err := json.Unmarshal(raw, live); err != nil {
			return nil, false, fmt.Errorf("unmarshal challenge: %w", err)
		}
		return live, false, nil
	}

	return nil, false, fmt.Errorf("ensure challenge for %s: retries exhausted", key)
}

func (store *RedisChallengeStore) Consume(ctx context.Context, callerID, resourceID, candidate string) (bool, error) {
	matched, err := consumeScript.Run(ctx, store.client, []string{store.key(callerID, resourceID)}, candidate).Int()
	if err != nil {
		return false, fmt.Errorf("consume challenge: %w", err)
	}
	return matched == 1, nil
}

// RedisGrantStore persists session-scoped grants in Redis, with each grant's
// TTL bounded by the owning session's deadline.
type RedisGrantStore struct {
	client *redis.Client
}

func NewRedisGrantStore(client *redis.Client) *RedisGrantStore {
	return &RedisGrantStore{client: client}
}

func (store *RedisGrantStore) key(callerID, resourceID string) string {
	return constants.RedisPrefixGrant + callerID + ":" + resourceID
}

func (store *RedisGrantStore) Put(ctx context.Context, grant *Grant) error {
	payload, err := json.Marshal(grant)
	if err != nil {
		return fmt.Errorf("marshal grant: %w", err)
	}

	ttl := time.Until(grant.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := store.client.Set(ctx, store.key(grant.CallerID, grant.ResourceID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store grant: %w", err)
	}
	return nil
}

func (store *RedisGrantStore) Has(ctx context.Context, callerID, resourceID string) (bool, error) {
	exists, err := store.client.Exists(ctx, store.key(callerID, resourceID)).Result()
	if err != nil {
		return false, fmt.Errorf("check grant: %w", err)
	}
	return exists == 1, nil
}

func (store *RedisGrantStore) RevokeAll(ctx context.Context, callerID string) error {
	pattern := constants.RedisPrefixGrant + callerID + ":*"

	iter := store.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := store.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("revoke grant %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan grants: %w", err)
	}
	return nil
}
