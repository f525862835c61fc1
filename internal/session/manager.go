// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudvault/cloudvault/internal/identity"
	"github.com/cloudvault/cloudvault/internal/platform/apperr"
	"github.com/cloudvault/cloudvault/internal/platform/constants"
	"github.com/cloudvault/cloudvault/internal/platform/ctxutil"
	"github.com/cloudvault/cloudvault/internal/platform/sec"
)

// GrantRevoker tears down gate grants scoped to a session.
//
// # Why an interface?
//
// Grants live in the gate domain; the session manager only needs the single
// teardown hook so logout and expiry clear every grant the session earned.
type GrantRevoker interface {
	RevokeAll(ctx context.Context, callerID string) error
}

// Manager owns the session table exclusively.
//
// # Operations
//
//   - [Manager.Login]: verify credentials, mint a session.
//   - [Manager.Resolve]: token -> caller, or Anonymous. Never errors.
//   - [Manager.Destroy]: explicit teardown, idempotent.
type Manager struct {
	credentials *identity.Service
	identities  identity.Repository
	store       Store
	grants      GrantRevoker
}

// NewManager constructs a session [Manager] with its dependencies.
//
// grants may be nil when no gate is wired (some tests exercise sessions in
// isolation).
func NewManager(credentials *identity.Service, identities identity.Repository, store Store, grants GrantRevoker) *Manager {
	return &Manager{
		credentials: credentials,
		identities:  identities,
		store:       store,
		grants:      grants,
	}
}

// LoginResult carries a freshly minted session back to the transport layer.
type LoginResult struct {
	// Token is the opaque session carrier handed to the client. This is
	// the only place the raw token exists outside the client.
	Token string

	// ExpiresAt is the fixed deadline of the session.
	ExpiresAt time.Time

	// Identity is the authenticated principal's profile.
	Identity *identity.Identity
}

// Login validates credentials and mints a new session.
//
// # Returns
//   - A [*LoginResult] with the raw token on success.
//   - [apperr.InvalidCredentials] if verification fails; no session is
//     created in that case.
func (manager *Manager) Login(ctx context.Context, username, secret string) (*LoginResult, error) {
	// ── 1. Credential Verification ────────────────────────────────────────

	ident, err := manager.credentials.Verify(ctx, username, secret)
	if err != nil {
		return nil, err
	}

	// ── 2. Token Issuance ─────────────────────────────────────────────────

	token, err := sec.GenerateSecureToken(constants.SessionTokenLength)
	if err != nil {
		return nil, fmt.Errorf("session_manager_token_failed: %w", err)
	}

	now := time.Now()
	record := &Session{
		TokenHash:  sec.HashToken(token),
		IdentityID: ident.ID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(constants.SessionTTL),
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	if err := manager.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("session_manager_save_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "session_created",
		slog.String("identity_id", ident.ID),
		slog.Time("expires_at", record.ExpiresAt),
	)

	return &LoginResult{
		Token:     token,
		ExpiresAt: record.ExpiresAt,
		Identity:  ident,
	}, nil
}

// Resolve maps a raw session token to its caller.
//
// It never returns an error: an absent, expired, or malformed token — and a
// session whose identity has since been deleted — all resolve to Anonymous
// (nil). Store outages also resolve to Anonymous and are logged; a read
// failure must not turn into a request failure.
func (manager *Manager) Resolve(ctx context.Context, token string) *sec.Principal {
	if token == "" {
		return nil
	}

	tokenHash := sec.HashToken(token)

	record, err := manager.store.Find(ctx, tokenHash)
	if err != nil {
		if !apperr.IsCode(err, "NOT_FOUND") {
			ctxutil.GetLogger(ctx).ErrorContext(ctx, "session_resolve_store_error", slog.Any("error", err))
		}
		return nil
	}

	// Defensive: stores enforce TTL, but expiry must hold even if a stale
	// record slips through.
	if record.Expired(time.Now()) {
		_ = manager.store.Delete(ctx, tokenHash)
		return nil
	}

	// Weak reference check: a deleted identity invalidates every session
	// pointing at it. Tear the orphan down eagerly.
	ident, err := manager.identities.FindByID(ctx, record.IdentityID)
	if err != nil {
		_ = manager.store.Delete(ctx, tokenHash)
		if manager.grants != nil {
			_ = manager.grants.RevokeAll(ctx, tokenHash)
		}
		return nil
	}

	return &sec.Principal{
		IdentityID:       ident.ID,
		Username:         ident.Username,
		DisplayName:      ident.DisplayName,
		Role:             ident.Role,
		SessionID:        tokenHash,
		SessionExpiresAt: record.ExpiresAt,
	}
}

// Destroy tears down a session and every gate grant scoped to it.
//
// It is idempotent: destroying an absent or already-destroyed session
// returns nil. The only failure mode is the backing store being
// unreachable, reported as [apperr.StoreUnavailable].
func (manager *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	tokenHash := sec.HashToken(token)

	if err := manager.store.Delete(ctx, tokenHash); err != nil {
		return apperr.StoreUnavailable(err)
	}

	if manager.grants != nil {
		if err := manager.grants.RevokeAll(ctx, tokenHash); err != nil {
			return apperr.StoreUnavailable(err)
		}
	}

	return nil
}

// IdentityByID exposes profile lookup for the WhoAmI endpoint.
func (manager *Manager) IdentityByID(ctx context.Context, id string) (*identity.Identity, error) {
	return manager.identities.FindByID(ctx, id)
}
