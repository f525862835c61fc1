// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package resource

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudvault/cloudvault/internal/platform/apperr"
	"github.com/cloudvault/cloudvault/internal/platform/sec"
	"github.com/cloudvault/cloudvault/pkg/slug"
	"github.com/cloudvault/cloudvault/pkg/uuidv7"
)

// Service implements registry use cases.
type Service struct {
	store Store
}

// NewService constructs a registry [Service].
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput holds the data required to register a protected resource.
type CreateInput struct {
	Name         string
	Kind         Kind
	RequiresGate bool

	// GateSecret is the pre-shared download password for gated file
	// resources. It is hashed here and discarded; rooms ignore it because
	// their secrets are minted per access attempt.
	GateSecret string
}

// Create registers a new resource.
//
// # Business Rules
//   - The slug is minted from the name and must be unique.
//   - A gated file must carry a pre-shared secret; it is stored only as a
//     bcrypt hash.
//   - Rooms never store a secret, gated or not.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Resource, error) {
	res := &Resource{
		ID:           uuidv7.New(),
		Slug:         slug.From(input.Name),
		Name:         input.Name,
		Kind:         input.Kind,
		RequiresGate: input.RequiresGate,
		CreatedAt:    time.Now(),
	}

	if res.Slug == "" {
		return nil, apperr.ValidationError("Resource name must contain at least one alphanumeric character")
	}

	if input.Kind == KindFile && input.RequiresGate {
		secretHash, err := sec.HashSecret(input.GateSecret)
		if err != nil {
			return nil, fmt.Errorf("resource_service_hash_failed: %w", err)
		}
		res.GateSecretHash = secretHash
	}

	if err := service.store.Create(ctx, res); err != nil {
		return nil, err
	}

	return res, nil
}

// List returns all registry entries.
func (service *Service) List(ctx context.Context) ([]*Resource, error) {
	return service.store.List(ctx)
}

// Get returns a resource by id, falling back to slug lookup so both forms
// work in URLs.
func (service *Service) Get(ctx context.Context, idOrSlug string) (*Resource, error) {
	res, err := service.store.FindByID(ctx, idOrSlug)
	if err == nil {
		return res, nil
	}

	return service.store.FindBySlug(ctx, idOrSlug)
}
