// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package session

import (
	"context"
	"sync"
	"time"

	"github.com/cloudvault/cloudvault/internal/platform/apperr"
)

// MemoryStore is a mutex-guarded in-memory [Store].
//
// Expiry is enforced lazily: an expired record is removed the first time it
// is looked up. There is no janitor goroutine — the table is bounded by the
// number of live demo sessions.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session

	// nowFn is the clock; overridable in tests.
	nowFn func() time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		nowFn:    time.Now,
	}
}

// Save persists a session record.
func (store *MemoryStore) Save(ctx context.Context, session *Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	copied := *session
	store.sessions[session.TokenHash] = &copied
	return nil
}

// Find returns the live session for a token hash. Expired records are
// removed and reported as absent — expiry and lookup are one atomic step
// under the store mutex.
func (store *MemoryStore) Find(ctx context.Context, tokenHash string) (*Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, found := store.sessions[tokenHash]
	if !found {
		return nil, apperr.NotFound("Session")
	}

	if record.Expired(store.nowFn()) {
		delete(store.sessions, tokenHash)
		return nil, apperr.NotFound("Session")
	}

	copied := *record
	return &copied, nil
}

// Delete removes a session. Absent sessions are a no-op.
func (store *MemoryStore) Delete(ctx context.Context, tokenHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.sessions, tokenHash)
	return nil
}
