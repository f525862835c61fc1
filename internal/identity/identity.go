// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

// Package identity defines registered principals and their credentials.
//
// # Architecture
//
// Entities in this package represent the "Truth" of who exists in the
// system. They have no dependencies on outer layers (databases, HTTP).
// Sessions reference identities by id only — they never copy them — so
// deleting an identity invalidates every session pointing at it.
package identity

import (
	"time"

	"github.com/cloudvault/cloudvault/internal/platform/sec"
)

// Identity represents a registered principal.
//
// # Rules
//   - Username is unique and URL-safe.
//   - Role is one of the two flat levels defined in [sec.Role].
//   - Immutable after creation within this service's scope; created at
//     registration (handled elsewhere) and referenced by id.
type Identity struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	Role         sec.Role  `json:"role"`
	ContactEmail string    `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
}

// Credential pairs an identity with its secret hash.
//
// # Security Concept
//
// Credentials are stored apart from identities and never leave this
// package: lookups return the [Identity], never the hash. The hash is
// bcrypt — salted and constant-time by construction — replacing the
// plaintext equality check the original demo performed.
type Credential struct {
	IdentityID string
	SecretHash string
}
