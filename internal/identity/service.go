// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package identity

import (
	"context"

	"github.com/cloudvault/cloudvault/internal/platform/apperr"
	"github.com/cloudvault/cloudvault/internal/platform/sec"
)

// dummyHash is a bcrypt hash of an unguessable throwaway value. Verify runs
// a comparison against it when the username is unknown, so the unknown-user
// and wrong-password paths cost the same.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service implements credential verification.
//
// # Review Process
//
// This service is critical for security. Any changes to lookup or
// comparison logic must be reviewed by the security team.
type Service struct {
	identities  Repository
	credentials CredentialRepository
}

// NewService constructs a credential verification [Service].
func NewService(identities Repository, credentials CredentialRepository) *Service {
	return &Service{identities: identities, credentials: credentials}
}

// Verify checks a username/secret pair against the credential store.
//
// # Returns
//   - The matching [*Identity] on success.
//   - [apperr.InvalidCredentials] on any failure. The error never
//     distinguishes unknown usernames from wrong secrets.
//
// # Flow
//  1. Look up the identity by username.
//  2. Fetch its credential hash.
//  3. Compare via bcrypt (constant-time in the candidate).
func (service *Service) Verify(ctx context.Context, username, secret string) (*Identity, error) {
	ident, err := service.identities.FindByUsername(ctx, username)
	if err != nil {
		// Burn a comparison anyway to keep the two failure paths aligned.
		sec.CheckSecretHash(secret, dummyHash)
		return nil, apperr.InvalidCredentials()
	}

	secretHash, err := service.credentials.SecretHash(ctx, ident.ID)
	if err != nil {
		sec.CheckSecretHash(secret, dummyHash)
		return nil, apperr.InvalidCredentials()
	}

	if !sec.CheckSecretHash(secret, secretHash) {
		return nil, apperr.InvalidCredentials()
	}

	return ident, nil
}
