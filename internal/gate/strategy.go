// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudvault/cloudvault/internal/platform/apperr"
	"github.com/cloudvault/cloudvault/internal/platform/constants"
	"github.com/cloudvault/cloudvault/internal/platform/sec"
	"github.com/cloudvault/cloudvault/internal/resource"
)

// Strategy parameterizes the gate protocol by resource kind. Begin prepares
// the secret stage for a caller who holds no grant; Verify evaluates a
// submitted candidate, returning nil on a match and a typed denial on a
// mismatch.
type Strategy interface {
	Begin(ctx context.Context, caller *sec.Principal, res *resource.Resource) (Status, error)
	Verify(ctx context.Context, caller *sec.Principal, res *resource.Resource, candidate string) error
}

// ── 1. Ephemeral code ────────────────────────────────────────────────────────

// EphemeralCodeStrategy gates rooms with a six-digit one-time code. The code
// is minted on first access, delivered out-of-band, and consumed on the
// first exact match.
type EphemeralCodeStrategy struct {
	challenges ChallengeStore
	notifier   Notifier
	ttl        time.Duration
}

func NewEphemeralCodeStrategy(challenges ChallengeStore, notifier Notifier) *EphemeralCodeStrategy {
	return &EphemeralCodeStrategy{
		challenges: challenges,
		notifier:   notifier,
		ttl:        constants.ChallengeTTL,
	}
}

func (s *EphemeralCodeStrategy) Begin(ctx context.Context, caller *sec.Principal, res *resource.Resource) (Status, error) {
	challenge, created, err := s.challenges.Ensure(ctx, caller.SessionID, res.ID, s.ttl, sec.GenerateChallengeCode)
	if err != nil {
		return "", fmt.Errorf("ensure challenge: %w", err)
	}

	// A repeated request reuses the live code, so only a fresh mint is
	// delivered. The caller who lost the first delivery waits out the TTL.
	if created {
		if err := s.notifier.DeliverCode(ctx, caller, res, challenge.Code); err != nil {
			return "", fmt.Errorf("deliver challenge code: %w", err)
		}
	}
	return StatusChallengeIssued, nil
}

func (s *EphemeralCodeStrategy) Verify(ctx context.Context, caller *sec.Principal, res *resource.Resource, candidate string) error {
	ok, err := s.challenges.Consume(ctx, caller.SessionID, res.ID, candidate)
	if err != nil {
		return fmt.Errorf("consume challenge: %w", err)
	}
	if !ok {
		return apperr.InvalidCode()
	}
	return nil
}

// ── 2. Pre-shared secret ─────────────────────────────────────────────────────

// PresharedSecretStrategy gates files with the download password fixed at
// registration. Nothing is stored per attempt; the candidate is checked
// against the resource's hash and every attempt is equivalent.
type PresharedSecretStrategy struct{}

func NewPresharedSecretStrategy() *PresharedSecretStrategy {
	return &PresharedSecretStrategy{}
}

func (s *PresharedSecretStrategy) Begin(_ context.Context, _ *sec.Principal, _ *resource.Resource) (Status, error) {
	return StatusSecretRequired, nil
}

func (s *PresharedSecretStrategy) Verify(_ context.Context, _ *sec.Principal, res *resource.Resource, candidate string) error {
	// Candidates below the registration minimum are rejected before the
	// stored hash is consulted.
	if len(candidate) < constants.GateSecretMinLength {
		return apperr.ValidationError(fmt.Sprintf("secret must be at least %d characters", constants.GateSecretMinLength))
	}
	if res.GateSecretHash == "" || !sec.CheckSecretHash(candidate, res.GateSecretHash) {
		return apperr.InvalidSecret()
	}
	return nil
}
