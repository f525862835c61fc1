// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

// Package session issues, resolves, and destroys the time-bounded bindings
// between callers and identities.
//
// # Lifecycle
//
// A session has exactly two terminal transitions:
//
//	Active --(TTL elapsed)--> Expired   (implicit: lookups simply fail)
//	Active --(destroy)-----> Destroyed  (explicit removal)
//
// There is no refresh and no other transition. Expiry is enforced lazily at
// lookup time — no background reaper is required because both stores carry
// the deadline with the record.
package session

import (
	"time"
)

// Session is the server-side record of an issued session token.
//
// # Security Concept
//
// The raw token never touches storage: the record is keyed by its SHA-256
// digest, so a leaked session table cannot be replayed as live sessions.
// The identity is referenced by id only (a weak reference) — resolving a
// session re-checks that the identity still exists.
type Session struct {
	// TokenHash is the hex SHA-256 digest of the opaque token. It is the
	// storage key and doubles as the caller id for gate grants.
	TokenHash string `json:"token_hash"`

	// IdentityID is the id of the identity this session is bound to.
	IdentityID string `json:"identity_id"`

	// CreatedAt is the issuance instant.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is CreatedAt plus the fixed session TTL.
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session's TTL has elapsed at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
