// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package session

import (
	"context"
)

// Store defines the data access contract for sessions.
//
// # Concurrency
//
// Implementations must be safe under concurrent calls. Sessions are keyed by
// token hash, so operations on disjoint sessions never contend; operations
// on one key are linearizable.
//
// # Implementations
//
// Redis for production ([NewRedisStore], TTL derived from ExpiresAt); a
// mutex-guarded in-memory store ([NewMemoryStore]) for the demo profile
// and tests.
type Store interface {
	// Save persists a new session record.
	Save(ctx context.Context, session *Session) error

	// Find returns the live session for a token hash.
	//
	// Returns [apperr.NotFound] if the session is absent or its TTL has
	// elapsed — an expired session is indistinguishable from one that
	// never existed.
	Find(ctx context.Context, tokenHash string) (*Session, error)

	// Delete removes a session. Deleting an absent session is a no-op,
	// which makes destroy idempotent end to end.
	Delete(ctx context.Context, tokenHash string) error
}
