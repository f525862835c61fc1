// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package gate

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

// pairKey identifies a (caller, resource) pair in the in-memory stores.
type pairKey struct {
	callerID   string
	resourceID string
}

// MemoryChallengeStore keeps live challenges in a mutex-guarded map.
//
// All store operations run under one lock, so Ensure and Consume are
// linearizable: concurrent access requests observe a single code, and the
// compare-and-delete in Consume is atomic.
type MemoryChallengeStore struct {
	mu         sync.Mutex
	challenges map[pairKey]*Challenge
	nowFn      func() time.Time
}

func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{
		challenges: make(map[pairKey]*Challenge),
		nowFn:      time.Now,
	}
}

func (store *MemoryChallengeStore) Ensure(_ context.Context, callerID, resourceID string, ttl time.Duration, mint func() (string, error)) (*Challenge, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := store.nowFn()
	key := pairKey{callerID: callerID, resourceID: resourceID}

	if live, ok := store.challenges[key]; ok && !live.Expired(now) {
		reused := *live
		return &reused, false, nil
	}

	code, err := mint()
	if err != nil {
		return nil, false, err
	}

	challenge := &Challenge{
		CallerID:   callerID,
		ResourceID: resourceID,
		Code:       code,
		IssuedAt:   now,
		ExpiresAt:  now.Add(ttl),
	}
	store.challenges[key] = challenge

	minted := *challenge
	return &minted, true, nil
}

func (store *MemoryChallengeStore) Consume(_ context.Context, callerID, resourceID, candidate string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := pairKey{callerID: callerID, resourceID: resourceID}
	live, ok := store.challenges[key]
	if !ok {
		return false, nil
	}
	if live.Expired(store.nowFn()) {
		delete(store.challenges, key)
		return false, nil
	}

	if subtle.ConstantTimeCompare([]byte(live.Code), []byte(candidate)) != 1 {
		return false, nil
	}

	delete(store.challenges, key)
	return true, nil
}

// MemoryGrantStore keeps session-scoped grants in a mutex-guarded map.
type MemoryGrantStore struct {
	mu     sync.Mutex
	grants map[pairKey]*Grant
	nowFn  func() time.Time
}

func NewMemoryGrantStore() *MemoryGrantStore {
	return &MemoryGrantStore{
		grants: make(map[pairKey]*Grant),
		nowFn:  time.Now,
	}
}

func (store *MemoryGrantStore) Put(_ context.Context, grant *Grant) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	stored := *grant
	store.grants[pairKey{callerID: grant.CallerID, resourceID: grant.ResourceID}] = &stored
	return nil
}

func (store *MemoryGrantStore) Has(_ context.Context, callerID, resourceID string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := pairKey{callerID: callerID, resourceID: resourceID}
	grant, ok := store.grants[key]
	if !ok {
		return false, nil
	}

	// Lazy expiry, same shape as the session store.
	if !grant.ExpiresAt.IsZero() && store.nowFn().After(grant.ExpiresAt) {
		delete(store.grants, key)
		return false, nil
	}
	return true, nil
}

func (store *MemoryGrantStore) RevokeAll(_ context.Context, callerID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for key := range store.grants {
		if key.callerID == callerID {
			delete(store.grants, key)
		}
	}
	return nil
}
