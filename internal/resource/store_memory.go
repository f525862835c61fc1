// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package resource

import (
	"context"
	"sort"
	"sync"

	"github.com/cloudvault/cloudvault/internal/platform/apperr"
)

// MemoryStore is a mutex-guarded in-memory [Store].
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]*Resource
	bySlug map[string]string // slug -> id
}

// NewMemoryStore creates an empty in-memory resource registry.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]*Resource),
		bySlug: make(map[string]string),
	}
}

// Create persists a registry entry.
func (store *MemoryStore) Create(ctx context.Context, res *Resource) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, taken := store.bySlug[res.Slug]; taken {
		return apperr.Conflict("A resource with this name already exists")
	}

	copied := *res
	store.byID[res.ID] = &copied
	store.bySlug[res.Slug] = res.ID

	return nil
}

// FindByID returns the resource with the given id.
func (store *MemoryStore) FindByID(ctx context.Context, id string) (*Resource, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	res, found := store.byID[id]
	if !found {
		return nil, apperr.NotFound("Resource")
	}

	copied := *res
	return &copied, nil
}

// FindBySlug returns the resource with the given slug.
func (store *MemoryStore) FindBySlug(ctx context.Context, slugValue string) (*Resource, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	id, found := store.bySlug[slugValue]
	if !found {
		return nil, apperr.NotFound("Resource")
	}

	copied := *store.byID[id]
	return &copied, nil
}

// List returns all entries, newest first (UUIDv7 ids sort by time).
func (store *MemoryStore) List(ctx context.Context) ([]*Resource, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	resources := make([]*Resource, 0, len(store.byID))
	for _, res := range store.byID {
		copied := *res
		resources = append(resources, &copied)
	}

	sort.Slice(resources, func(i, j int) bool {
		return resources[i].ID > resources[j].ID
	})

	return resources, nil
}
