// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package resource

import (
	"context"
)

// Store defines the data access contract for the resource registry.
//
// # Implementations
//
// PostgreSQL for production ([NewPostgresStore]); a mutex-guarded in-memory
// store ([NewMemoryStore]) for the demo profile and tests.
type Store interface {
	// Create persists a new registry entry.
	//
	// Returns [apperr.Conflict] if the slug is already taken.
	Create(ctx context.Context, res *Resource) error

	// FindByID returns the resource with the given id.
	//
	// Returns [apperr.NotFound] if the resource does not exist.
	FindByID(ctx context.Context, id string) (*Resource, error)

	// FindBySlug returns the resource with the given slug.
	//
	// Returns [apperr.NotFound] if the slug is unregistered.
	FindBySlug(ctx context.Context, slug string) (*Resource, error)

	// List returns all registry entries, newest first.
	List(ctx context.Context) ([]*Resource, error)
}
