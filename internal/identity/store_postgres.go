// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package identity

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloudvault/cloudvault/internal/platform/apperr"
	"github.com/cloudvault/cloudvault/internal/platform/dberr"
)

// PostgresRepository implements [Repository] and [CredentialRepository]
// using pgx.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) go through [dberr.Wrap] so
// domain callers only ever see [apperr.AppError] values.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL identity store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindByID retrieves an identity by its primary key.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Identity, error) {
	const query = `
		SELECT id, username, displayname, role, contactemail, createdat
		FROM auth.identity
		WHERE id = $1`

	return repository.scanOne(ctx, query, id, "get_identity_by_id")
}

// FindByUsername retrieves an identity by its unique login name.
func (repository *PostgresRepository) FindByUsername(ctx context.Context, username string) (*Identity, error) {
	const query = `
		SELECT id, username, displayname, role, contactemail, createdat
		FROM auth.identity
		WHERE username = $1`

	return repository.scanOne(ctx, query, username, "get_identity_by_username")
}

// Create persists a new identity row and its credential row in one
// transaction, so a half-registered account can never exist.
func (repository *PostgresRepository) Create(ctx context.Context, ident *Identity, secretHash string) error {
	if ident.CreatedAt.IsZero() {
		ident.CreatedAt = time.Now()
	}

	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "Identity", "create_identity_begin")
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	const identityQuery = `
		INSERT INTO auth.identity (id, username, displayname, role, contactemail, createdat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := transaction.Exec(ctx, identityQuery,
		ident.ID, ident.Username, ident.DisplayName, ident.Role, ident.ContactEmail, ident.CreatedAt,
	); err != nil {
		return dberr.Wrap(err, "Identity", "create_identity")
	}

	const credentialQuery = `
		INSERT INTO auth.credential (identityid, secrethash)
		VALUES ($1, $2)`

	if _, err := transaction.Exec(ctx, credentialQuery, ident.ID, secretHash); err != nil {
		return dberr.Wrap(err, "Credential", "create_credential")
	}

	if err := transaction.Commit(ctx); err != nil {
		return dberr.Wrap(err, "Identity", "create_identity_commit")
	}

	return nil
}

// Delete removes an identity; the credential row follows via ON DELETE CASCADE.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM auth.identity WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "Identity", "delete_identity")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Identity")
	}

	return nil
}

// SecretHash returns the stored bcrypt hash for an identity.
func (repository *PostgresRepository) SecretHash(ctx context.Context, identityID string) (string, error) {
	const query = `SELECT secrethash FROM auth.credential WHERE identityid = $1`

	var hash string
	if err := repository.pool.QueryRow(ctx, query, identityID).Scan(&hash); err != nil {
		return "", dberr.Wrap(err, "Credential", "get_credential")
	}

	return hash, nil
}

// scanOne runs a single-row identity query and maps storage errors.
func (repository *PostgresRepository) scanOne(ctx context.Context, query string, arg any, action string) (*Identity, error) {
	ident := &Identity{}
	err := repository.pool.QueryRow(ctx, query, arg).Scan(
		&ident.ID,
		&ident.Username,
		&ident.DisplayName,
		&ident.Role,
		&ident.ContactEmail,
		&ident.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Identity", action)
	}

	return ident, nil
}
