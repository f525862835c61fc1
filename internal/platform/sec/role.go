// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package sec

import "time"

// # User Roles

// Role represents the authorization level granted to an identity.
//
// The role set is flat and complete: CloudVault has exactly two levels and
// no richer hierarchy behind them. Admin satisfies every requirement; user
// satisfies only user-level requirements.
type Role string

const (
	// Unrestricted access, including resource registration
	RoleAdmin Role = "admin"

	// Default role for standard registered accounts
	RoleUser Role = "user"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric level for comparison logic.
func (r Role) level() int {
	switch r {
	case RoleAdmin:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// # Principal

// Principal is the resolved caller of a request: the identity a valid,
// unexpired session points at. A nil *Principal means Anonymous.
type Principal struct {
	// IdentityID is the id of the identity bound to the session.
	IdentityID string

	// Username is the login name of the identity.
	Username string

	// DisplayName is the presentation name of the identity.
	DisplayName string

	// Role is the identity's authorization level.
	Role Role

	// SessionID is the server-side key of the caller's session (the token
	// hash, never the raw token). Gate grants are scoped to this value so
	// they expire with the session and never transfer between callers.
	SessionID string

	// SessionExpiresAt is the session's deadline. State keyed to the
	// session, such as gate grants, must not outlive it.
	SessionExpiresAt time.Time
}

// # Authorization Decision

// DenyReason classifies why an authorization check failed.
type DenyReason string

const (
	// DenyUnauthenticated means the caller is Anonymous.
	DenyUnauthenticated DenyReason = "UNAUTHENTICATED"

	// DenyInsufficientRole means the caller's role does not satisfy the requirement.
	DenyInsufficientRole DenyReason = "INSUFFICIENT_ROLE"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason // Set only when Allowed is false.
}

// Authorize decides whether a caller may proceed given a required role.
//
// It is a pure function of (caller, requiredRole): no side effects, no shared
// mutable state, safe for concurrent use. A nil principal is Anonymous and
// never satisfies any requirement.
func Authorize(caller *Principal, required Role) Decision {
	if caller == nil {
		return Decision{Allowed: false, Reason: DenyUnauthenticated}
	}

	if !caller.Role.AtLeast(required) {
		return Decision{Allowed: false, Reason: DenyInsufficientRole}
	}

	return Decision{Allowed: true}
}
