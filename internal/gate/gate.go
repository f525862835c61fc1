// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

// Package gate implements the two-stage verification protocol that admits a
// caller to a protected resource.
//
// # Architecture
//
// The protocol is implemented once and instantiated per resource kind with a
// different [Strategy]:
//
//   - Rooms: an ephemeral six-digit code, minted on first access and
//     delivered out-of-band, consumed on the first exact match.
//   - Files: a pre-shared download password fixed at registration.
//
// Both instantiations share one contract shape — request access, submit a
// candidate, receive Allow (with an optional downstream token) or a typed
// Deny — which is the abstraction the two flows of the original demo
// duplicated by hand.
//
// A successful pass records a [Grant] scoped to the caller's session and the
// one resource; it never transfers to another caller or resource, and it
// dies with the session.
package gate

import (
	"time"
)

// Status classifies the outcome of a gate interaction.
type Status string

const (
	// StatusGranted means the caller holds (or just earned) a grant.
	StatusGranted Status = "granted"

	// StatusChallengeIssued means an ephemeral code is outstanding and the
	// caller must submit it. Returned by room access requests.
	StatusChallengeIssued Status = "challenge_issued"

	// StatusSecretRequired means the caller must submit the resource's
	// pre-shared secret. Returned by file access requests.
	StatusSecretRequired Status = "secret_required"
)

// Decision is the successful outcome of a gate operation. Denials travel as
// typed [apperr.AppError] values, never as Decision states.
type Decision struct {
	Status Status `json:"status"`

	// GrantToken is the optional downstream token minted on a pass. The
	// collaborator performing the follow-up action (streaming the file,
	// admitting to the room) verifies it offline.
	GrantToken string `json:"grant_token,omitempty"`
}

// Challenge is a live, expiring one-time code for a (caller, resource) pair.
//
// # Invariant
//
// At most one live challenge exists per pair: a repeated access attempt
// reuses the outstanding code instead of minting a second one, so an
// attacker cannot farm fresh codes by hammering the access endpoint.
type Challenge struct {
	CallerID   string    `json:"caller_id"`
	ResourceID string    `json:"resource_id"`
	Code       string    `json:"code"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the challenge's window has closed at the given
// instant. An expired challenge is treated exactly like an absent one.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Grant records a caller's successful pass through the gate for a resource.
type Grant struct {
	CallerID   string    `json:"caller_id"`
	ResourceID string    `json:"resource_id"`
	GrantedAt  time.Time `json:"granted_at"`

	// ExpiresAt is bounded by the caller's session deadline: grants live
	// exactly as long as the session that earned them.
	ExpiresAt time.Time `json:"expires_at"`
}
