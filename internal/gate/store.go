// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package gate

import (
	"context"
	"time"
)

// ChallengeStore holds live one-time codes keyed by (caller, resource).
//
// Both operations are atomic with respect to each other: concurrent Ensure
// calls for the same pair observe one code, and concurrent Consume calls
// with the correct code succeed for exactly one caller.
type ChallengeStore interface {
	// Ensure returns the live challenge for the pair, minting a new one with
	// mint only when none exists or the existing one has expired. created
	// reports whether a fresh code was minted on this call.
	Ensure(ctx context.Context, callerID, resourceID string, ttl time.Duration, mint func() (string, error)) (challenge *Challenge, created bool, err error)

	// Consume compares candidate against the live challenge for the pair.
	// On an exact match the challenge is deleted and Consume reports true;
	// comparison and deletion are a single atomic step. A mismatch, an
	// absent challenge, and an expired challenge all report false and leave
	// any live challenge in place.
	Consume(ctx context.Context, callerID, resourceID, candidate string) (bool, error)
}

// GrantStore records which (caller, resource) pairs have passed the gate.
type GrantStore interface {
	// Put stores the grant, replacing any previous grant for the pair.
	Put(ctx context.Context, grant *Grant) error

	// Has reports whether a live grant exists for the pair.
	Has(ctx context.Context, callerID, resourceID string) (bool, error)

	// RevokeAll removes every grant held by the caller. Used when the
	// caller's session is destroyed or expires.
	RevokeAll(ctx context.Context, callerID string) error
}
