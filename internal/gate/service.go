// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package gate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudvault/cloudvault/internal/platform/apperr"
	"github.com/cloudvault/cloudvault/internal/platform/constants"
	"github.com/cloudvault/cloudvault/internal/platform/ctxutil"
	"github.com/cloudvault/cloudvault/internal/platform/sec"
	"github.com/cloudvault/cloudvault/internal/resource"
)

// GrantTokenMinter mints a signed token a downstream collaborator can verify
// offline. [sec.TokenService] satisfies it; a nil minter disables tokens.
type GrantTokenMinter interface {
	GenerateGrantToken(callerID, resourceID, resourceKind string, ttl time.Duration) (string, error)
}

// Service runs the gate protocol: RequestAccess opens the interaction,
// Submit evaluates a candidate secret.
type Service struct {
	resources  *resource.Service
	grants     GrantStore
	strategies map[resource.Kind]Strategy
	tokens     GrantTokenMinter
}

// NewService wires the gate over its resource catalog, grant store, and the
// per-kind strategies. tokens may be nil when no signing key is configured.
func NewService(resources *resource.Service, grants GrantStore, challenges ChallengeStore, notifier Notifier, tokens GrantTokenMinter) *Service {
	return &Service{
		resources: resources,
		grants:    grants,
		strategies: map[resource.Kind]Strategy{
			resource.KindRoom: NewEphemeralCodeStrategy(challenges, notifier),
			resource.KindFile: NewPresharedSecretStrategy(),
		},
		tokens: tokens,
	}
}

// RequestAccess opens the gate interaction for a caller and a resource.
//
// # Outcomes
//   - The resource is ungated, or the caller already holds a grant:
//     [StatusGranted], with a fresh grant token when minting is configured.
//   - Otherwise the kind's strategy prepares the secret stage and the caller
//     must follow up with [Service.Submit].
//
// # Errors
//   - [apperr.NotFound] if the resource does not exist.
func (service *Service) RequestAccess(ctx context.Context, caller *sec.Principal, resourceRef string) (*Decision, error) {
	res, err := service.resources.Get(ctx, resourceRef)
	if err != nil {
		return nil, err
	}

	// ── 1. Grant short-circuit ────────────────────────────────────────────

	allowed, err := service.admitted(ctx, caller, res)
	if err != nil {
		return nil, err
	}
	if allowed {
		return service.allow(ctx, caller, res)
	}

	// ── 2. Secret stage ───────────────────────────────────────────────────

	strategy, err := service.strategyFor(res)
	if err != nil {
		return nil, err
	}

	status, err := strategy.Begin(ctx, caller, res)
	if err != nil {
		return nil, fmt.Errorf("gate_begin_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "gate_challenge_started",
		slog.String("identity_id", caller.IdentityID),
		slog.String("resource_id", res.ID),
		slog.String("status", string(status)),
	)

	return &Decision{Status: status}, nil
}

// Submit evaluates a candidate secret for a caller and a resource.
//
// A match records a session-scoped grant and returns [StatusGranted]. A
// mismatch returns the strategy's typed denial ([apperr.InvalidCode] or
// [apperr.InvalidSecret]) and changes nothing: a live challenge stays live,
// and a pre-shared secret can be retried immediately.
//
// Submitting against a resource the caller is already admitted to is a
// no-op success, so a client retrying a lost response cannot lock itself
// out.
func (service *Service) Submit(ctx context.Context, caller *sec.Principal, resourceRef, candidate string) (*Decision, error) {
	res, err := service.resources.Get(ctx, resourceRef)
	if err != nil {
		return nil, err
	}

	allowed, err := service.admitted(ctx, caller, res)
	if err != nil {
		return nil, err
	}
	if allowed {
		return service.allow(ctx, caller, res)
	}

	strategy, err := service.strategyFor(res)
	if err != nil {
		return nil, err
	}

	if err := strategy.Verify(ctx, caller, res, candidate); err != nil {
		if appErr := apperr.As(err); appErr != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "gate_denied",
				slog.String("identity_id", caller.IdentityID),
				slog.String("resource_id", res.ID),
				slog.String("reason", appErr.Code),
			)
		}
		return nil, err
	}

	// ── Grant recording ───────────────────────────────────────────────────

	now := time.Now()
	grant := &Grant{
		CallerID:   caller.SessionID,
		ResourceID: res.ID,
		GrantedAt:  now,
		ExpiresAt:  caller.SessionExpiresAt,
	}
	if err := service.grants.Put(ctx, grant); err != nil {
		return nil, apperr.StoreUnavailable(err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "gate_passed",
		slog.String("identity_id", caller.IdentityID),
		slog.String("resource_id", res.ID),
		slog.String("resource_kind", string(res.Kind)),
	)

	return service.allow(ctx, caller, res)
}

// admitted reports whether the gate is already open for the pair, either
// because the resource is ungated or because the caller holds a grant.
func (service *Service) admitted(ctx context.Context, caller *sec.Principal, res *resource.Resource) (bool, error) {
	if !res.RequiresGate {
		return true, nil
	}
	held, err := service.grants.Has(ctx, caller.SessionID, res.ID)
	if err != nil {
		return false, apperr.StoreUnavailable(err)
	}
	return held, nil
}

// allow builds the granted decision, minting a downstream token when a
// signer is configured.
func (service *Service) allow(_ context.Context, caller *sec.Principal, res *resource.Resource) (*Decision, error) {
	decision := &Decision{Status: StatusGranted}

	if service.tokens != nil {
		token, err := service.tokens.GenerateGrantToken(caller.IdentityID, res.ID, string(res.Kind), constants.GrantTokenTTL)
		if err != nil {
			return nil, fmt.Errorf("mint grant token: %w", err)
		}
		decision.GrantToken = token
	}

	return decision, nil
}

func (service *Service) strategyFor(res *resource.Resource) (Strategy, error) {
	strategy, ok := service.strategies[res.Kind]
	if !ok {
		return nil, apperr.Internal(fmt.Errorf("no gate strategy for kind %q", res.Kind))
	}
	return strategy, nil
}
