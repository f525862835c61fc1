// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package identity

import (
	"context"
)

// Repository defines the data access contract for identities.
//
// # Review Process
//
// This interface is placed in a separate file from identity.go so entity
// changes and storage-contract changes can be reviewed independently.
//
// # Implementations
//
// PostgreSQL for production ([NewPostgresRepository]); a mutex-guarded
// in-memory store ([NewMemoryRepository]) for the demo profile and tests.
type Repository interface {
	// FindByID returns the identity with the given id.
	//
	// Returns [apperr.NotFound] if the identity does not exist.
	FindByID(ctx context.Context, id string) (*Identity, error)

	// FindByUsername returns the identity with the given login name.
	//
	// Returns [apperr.NotFound] if the username is unregistered.
	FindByUsername(ctx context.Context, username string) (*Identity, error)

	// Create persists a new identity together with its credential.
	// The secretHash must already be a bcrypt hash; this layer never sees
	// plaintext secrets.
	Create(ctx context.Context, ident *Identity, secretHash string) error

	// Delete removes an identity and its credential. Sessions referencing
	// the identity become orphaned and resolve to Anonymous on next lookup.
	Delete(ctx context.Context, id string) error
}

// CredentialRepository is the lookup contract for secret hashes.
//
// It is deliberately minimal: the only consumer is [Service.Verify], and no
// mutation beyond [Repository.Create] is in scope.
type CredentialRepository interface {
	// SecretHash returns the bcrypt hash for an identity.
	//
	// Returns [apperr.NotFound] if no credential exists.
	SecretHash(ctx context.Context, identityID string) (string, error)
}
