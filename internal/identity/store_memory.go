// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package identity

import (
	"context"
	"sync"

	"github.com/cloudvault/cloudvault/internal/platform/apperr"
)

// MemoryRepository is a mutex-guarded in-memory implementation of both
// [Repository] and [CredentialRepository].
//
// # Usage
//
// It backs the demo profile (no DATABASE_URL configured) and lets every test
// instantiate an isolated store handle instead of sharing ambient globals.
type MemoryRepository struct {
	mu          sync.RWMutex
	byID        map[string]*Identity
	byUsername  map[string]string // username -> id
	credentials map[string]string // id -> secret hash
}

// NewMemoryRepository creates an empty in-memory identity store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:        make(map[string]*Identity),
		byUsername:  make(map[string]string),
		credentials: make(map[string]string),
	}
}

// FindByID returns the identity with the given id.
func (repository *MemoryRepository) FindByID(ctx context.Context, id string) (*Identity, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	ident, found := repository.byID[id]
	if !found {
		return nil, apperr.NotFound("Identity")
	}

	copied := *ident
	return &copied, nil
}

// FindByUsername returns the identity with the given login name.
func (repository *MemoryRepository) FindByUsername(ctx context.Context, username string) (*Identity, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	id, found := repository.byUsername[username]
	if !found {
		return nil, apperr.NotFound("Identity")
	}

	copied := *repository.byID[id]
	return &copied, nil
}

// Create persists a new identity and its credential hash.
func (repository *MemoryRepository) Create(ctx context.Context, ident *Identity, secretHash string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, taken := repository.byUsername[ident.Username]; taken {
		return apperr.Conflict("Username is already taken")
	}

	copied := *ident
	repository.byID[ident.ID] = &copied
	repository.byUsername[ident.Username] = ident.ID
	repository.credentials[ident.ID] = secretHash

	return nil
}

// Delete removes an identity and its credential.
func (repository *MemoryRepository) Delete(ctx context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	ident, found := repository.byID[id]
	if !found {
		return apperr.NotFound("Identity")
	}

	delete(repository.byUsername, ident.Username)
	delete(repository.credentials, id)
	delete(repository.byID, id)

	return nil
}

// SecretHash returns the bcrypt hash for an identity.
func (repository *MemoryRepository) SecretHash(ctx context.Context, identityID string) (string, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	hash, found := repository.credentials[identityID]
	if !found {
		return "", apperr.NotFound("Credential")
	}

	return hash, nil
}
