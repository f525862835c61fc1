// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package resource

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloudvault/cloudvault/internal/platform/dberr"
)

// PostgresStore implements [Store] using pgx.
//
// All database errors go through [dberr.Wrap], which maps row absence to
// NOT_FOUND and the unique slug constraint to CONFLICT.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL resource registry.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create persists a new registry entry.
func (store *PostgresStore) Create(ctx context.Context, res *Resource) error {
	const query = `
		INSERT INTO auth.resource (id, slug, name, kind, requiresgate, gatesecrethash, createdat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := store.pool.Exec(ctx, query,
		res.ID,
		res.Slug,
		res.Name,
		res.Kind,
		res.RequiresGate,
		res.GateSecretHash,
		res.CreatedAt,
	)

	return dberr.Wrap(err, "Resource", "create_resource")
}

// FindByID returns the resource with the given id.
func (store *PostgresStore) FindByID(ctx context.Context, id string) (*Resource, error) {
	const query = `
		SELECT id, slug, name, kind, requiresgate, gatesecrethash, createdat
		FROM auth.resource
		WHERE id = $1`

	return store.scanOne(ctx, query, id, "get_resource_by_id")
}

// FindBySlug returns the resource with the given slug.
func (store *PostgresStore) FindBySlug(ctx context.Context, slugValue string) (*Resource, error) {
	const query = `
		SELECT id, slug, name, kind, requiresgate, gatesecrethash, createdat
		FROM auth.resource
		WHERE slug = $1`

	return store.scanOne(ctx, query, slugValue, "get_resource_by_slug")
}

// List returns all registry entries, newest first.
func (store *PostgresStore) List(ctx context.Context) ([]*Resource, error) {
	const query = `
		SELECT id, slug, name, kind, requiresgate, gatesecrethash, createdat
		FROM auth.resource
		ORDER BY createdat DESC`

	rows, err := store.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Resource", "list_resources")
	}
	defer rows.Close()

	resources := make([]*Resource, 0)
	for rows.Next() {
		res := &Resource{}
		if err := rows.Scan(
			&res.ID, &res.Slug, &res.Name, &res.Kind,
			&res.RequiresGate, &res.GateSecretHash, &res.CreatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "Resource", "scan_resource")
		}
		resources = append(resources, res)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Resource", "list_resources_rows")
	}

	return resources, nil
}

// scanOne runs a single-row resource query and maps storage errors.
func (store *PostgresStore) scanOne(ctx context.Context, query string, arg any, action string) (*Resource, error) {
	res := &Resource{}
	err := store.pool.QueryRow(ctx, query, arg).Scan(
		&res.ID, &res.Slug, &res.Name, &res.Kind,
		&res.RequiresGate, &res.GateSecretHash, &res.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Resource", action)
	}

	return res, nil
}
