// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package gate_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudvault/cloudvault/internal/gate"
	"github.com/cloudvault/cloudvault/internal/platform/apperr"
	"github.com/cloudvault/cloudvault/internal/platform/sec"
	"github.com/cloudvault/cloudvault/internal/resource"
)

// captureNotifier records delivered codes instead of sending them anywhere.
type captureNotifier struct {
	codes []string
}

func (n *captureNotifier) DeliverCode(_ context.Context, _ *sec.Principal, _ *resource.Resource, code string) error {
	n.codes = append(n.codes, code)
	return nil
}

// staticMinter returns a fixed token so tests can assert it is attached.
type staticMinter struct{}

func (staticMinter) GenerateGrantToken(_, _, _ string, _ time.Duration) (string, error) {
	return "signed.grant.token", nil
}

type gateFixture struct {
	service   *gate.Service
	resources *resource.Service
	grants    *gate.MemoryGrantStore
	notifier  *captureNotifier
}

func newGateFixture(t *testing.T, minter gate.GrantTokenMinter) *gateFixture {
	t.Helper()

	resources := resource.NewService(resource.NewMemoryStore())
	grants := gate.NewMemoryGrantStore()
	notifier := &captureNotifier{}

	return &gateFixture{
		service:   gate.NewService(resources, grants, gate.NewMemoryChallengeStore(), notifier, minter),
		resources: resources,
		grants:    grants,
		notifier:  notifier,
	}
}

func caller(sessionID string) *sec.Principal {
	return &sec.Principal{
		IdentityID:       "identity-" + sessionID,
		Username:         "user",
		Role:             sec.RoleUser,
		SessionID:        sessionID,
		SessionExpiresAt: time.Now().Add(24 * time.Hour),
	}
}

func (f *gateFixture) room(t *testing.T) *resource.Resource {
	t.Helper()
	res, err := f.resources.Create(context.Background(), resource.CreateInput{
		Name:         "Strategy Meeting",
		Kind:         resource.KindRoom,
		RequiresGate: true,
	})
	require.NoError(t, err)
	return res
}

func (f *gateFixture) file(t *testing.T, password string) *resource.Resource {
	t.Helper()
	res, err := f.resources.Create(context.Background(), resource.CreateInput{
		Name:         "Quarterly Report",
		Kind:         resource.KindFile,
		RequiresGate: true,
		GateSecret:   password,
	})
	require.NoError(t, err)
	return res
}

/*
TestService_Ungated verifies access to an ungated resource is immediate:
no challenge, no submission required.
*/
func TestService_Ungated(t *testing.T) {
	f := newGateFixture(t, nil)
	ctx := context.Background()

	open, err := f.resources.Create(ctx, resource.CreateInput{Name: "Lobby", Kind: resource.KindRoom})
	require.NoError(t, err)

	decision, err := f.service.RequestAccess(ctx, caller("s1"), open.ID)
	require.NoError(t, err)
	assert.Equal(t, gate.StatusGranted, decision.Status)

	assert.Empty(t, f.notifier.codes)
}

/*
TestService_Room_FullFlow walks the ephemeral-code protocol end to end:
request issues a code out-of-band, submitting that exact code grants, and
the grant then short-circuits future requests.
*/
func TestService_Room_FullFlow(t *testing.T) {
	f := newGateFixture(t, nil)
	ctx := context.Background()
	room := f.room(t)
	kim := caller("s1")

	decision, err := f.service.RequestAccess(ctx, kim, room.ID)
	require.NoError(t, err)
	assert.Equal(t, gate.StatusChallengeIssued, decision.Status)
	require.Len(t, f.notifier.codes, 1)

	decision, err = f.service.Submit(ctx, kim, room.ID, f.notifier.codes[0])
	require.NoError(t, err)
	assert.Equal(t, gate.StatusGranted, decision.Status)

	// Grant persists: a repeated request is admitted without a new code.
	decision, err = f.service.RequestAccess(ctx, kim, room.ID)
	require.NoError(t, err)
	assert.Equal(t, gate.StatusGranted, decision.Status)
	assert.Len(t, f.notifier.codes, 1)
}

/*
TestService_Room_ChallengeReuse verifies repeated access requests reuse the
outstanding code instead of minting fresh ones.
*/
func TestService_Room_ChallengeReuse(t *testing.T) {
	f := newGateFixture(t, nil)
	ctx := context.Background()
	room := f.room(t)
	kim := caller("s1")

	for i := 0; i < 5; i++ {
		decision, err := f.service.RequestAccess(ctx, kim, room.ID)
		require.NoError(t, err)
		assert.Equal(t, gate.StatusChallengeIssued, decision.Status)
	}

	// One delivery for five requests.
	assert.Len(t, f.notifier.codes, 1)
}

/*
TestService_Room_WrongCode verifies a mismatch denies with INVALID_CODE and
leaves the challenge live: the correct code still works afterwards.
*/
func TestService_Room_WrongCode(t *testing.T) {
	f := newGateFixture(t, nil)
	ctx := context.Background()
	room := f.room(t)
	kim := caller("s1")

	_, err := f.service.RequestAccess(ctx, kim, room.ID)
	require.NoError(t, err)
	code := f.notifier.codes[0]

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, err = f.service.Submit(ctx, kim, room.ID, wrong)
	assert.True(t, apperr.IsCode(err, "INVALID_CODE"))

	decision, err := f.service.Submit(ctx, kim, room.ID, code)
	require.NoError(t, err)
	assert.Equal(t, gate.StatusGranted, decision.Status)
}

/*
TestService_Room_CodeConsumedOnce verifies the code cannot be replayed once
consumed by a different session.
*/
func TestService_Room_CodeConsumedOnce(t *testing.T) {
	f := newGateFixture(t, nil)
	ctx := context.Background()
	room := f.room(t)
	kim := caller("s1")
	lee := caller("s2")

	_, err := f.service.RequestAccess(ctx, kim, room.ID)
	require.NoError(t, err)
	kimCode := f.notifier.codes[0]

	// Another session gets its own independent challenge.
	_, err = f.service.RequestAccess(ctx, lee, room.ID)
	require.NoError(t, err)
	require.Len(t, f.notifier.codes, 2)

	// Kim's code does not open Lee's challenge unless they happen to collide.
	if kimCode != f.notifier.codes[1] {
		_, err = f.service.Submit(ctx, lee, room.ID, kimCode)
		assert.True(t, apperr.IsCode(err, "INVALID_CODE"))
	}

	decision, err := f.service.Submit(ctx, kim, room.ID, kimCode)
	require.NoError(t, err)
	assert.Equal(t, gate.StatusGranted, decision.Status)
}

/*
TestService_File_FullFlow walks the pre-shared secret protocol: request
reports secret_required, a wrong password denies and stays retryable, the
correct password grants.
*/
func TestService_File_FullFlow(t *testing.T) {
	f := newGateFixture(t, nil)
	ctx := context.Background()
	file := f.file(t, "letmein")
	kim := caller("s1")

	decision, err := f.service.RequestAccess(ctx, kim, file.ID)
	require.NoError(t, err)
	assert.Equal(t, gate.StatusSecretRequired, decision.Status)
	assert.Empty(t, f.notifier.codes)

	_, err = f.service.Submit(ctx, kim, file.ID, "wrong-pass")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "INVALID_SECRET"))
	assert.Equal(t, "Incorrect password. Please try again.", err.Error())

	decision, err = f.service.Submit(ctx, kim, file.ID, "letmein")
	require.NoError(t, err)
	assert.Equal(t, gate.StatusGranted, decision.Status)
}

/*
TestService_File_ShortCandidate verifies under-length candidates are
rejected as validation failures before the stored secret is consulted.
*/
func TestService_File_ShortCandidate(t *testing.T) {
	f := newGateFixture(t, nil)
	ctx := context.Background()
	file := f.file(t, "abc1")
	kim := caller("s1")

	_, err := f.service.Submit(ctx, kim, file.ID, "abc")
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))

	// The four-character floor itself is fine.
	decision, err := f.service.Submit(ctx, kim, file.ID, "abc1")
	require.NoError(t, err)
	assert.Equal(t, gate.StatusGranted, decision.Status)
}

/*
TestService_Grant_SessionScoped verifies a grant never transfers between
sessions or resources.
*/
func TestService_Grant_SessionScoped(t *testing.T) {
	f := newGateFixture(t, nil)
	ctx := context.Background()
	file := f.file(t, "letmein")
	other := f.file(t, "different")
	kim := caller("s1")
	lee := caller("s2")

	_, err := f.service.Submit(ctx, kim, file.ID, "letmein")
	require.NoError(t, err)

	// Same identity, different session: still gated.
	decision, err := f.service.RequestAccess(ctx, lee, file.ID)
	require.NoError(t, err)
	assert.Equal(t, gate.StatusSecretRequired, decision.Status)

	// Same session, different resource: still gated.
	decision, err = f.service.RequestAccess(ctx, kim, other.ID)
	require.NoError(t, err)
	assert.Equal(t, gate.StatusSecretRequired, decision.Status)
}

/*
TestService_Grant_RevokedWithSession verifies RevokeAll (the session
teardown hook) closes the gate again.
*/
func TestService_Grant_RevokedWithSession(t *testing.T) {
	f := newGateFixture(t, nil)
	ctx := context.Background()
	file := f.file(t, "letmein")
	kim := caller("s1")

	_, err := f.service.Submit(ctx, kim, file.ID, "letmein")
	require.NoError(t, err)

	require.NoError(t, f.grants.RevokeAll(ctx, kim.SessionID))

	decision, err := f.service.RequestAccess(ctx, kim, file.ID)
	require.NoError(t, err)
	assert.Equal(t, gate.StatusSecretRequired, decision.Status)
}

/*
TestService_Submit_Idempotent verifies submitting while already admitted is
a no-op success, so a client retrying a lost response is safe.
*/
func TestService_Submit_Idempotent(t *testing.T) {
	f := newGateFixture(t, nil)
	ctx := context.Background()
	file := f.file(t, "letmein")
	kim := caller("s1")

	_, err := f.service.Submit(ctx, kim, file.ID, "letmein")
	require.NoError(t, err)

	// Even a wrong candidate succeeds once admitted: the gate is open.
	decision, err := f.service.Submit(ctx, kim, file.ID, "anything")
	require.NoError(t, err)
	assert.Equal(t, gate.StatusGranted, decision.Status)
}

/*
TestService_GrantToken verifies the downstream token is minted on every
admitted decision when a signer is configured.
*/
func TestService_GrantToken(t *testing.T) {
	f := newGateFixture(t, staticMinter{})
	ctx := context.Background()
	file := f.file(t, "letmein")
	kim := caller("s1")

	decision, err := f.service.Submit(ctx, kim, file.ID, "letmein")
	require.NoError(t, err)
	assert.Equal(t, "signed.grant.token", decision.GrantToken)

	decision, err = f.service.RequestAccess(ctx, kim, file.ID)
	require.NoError(t, err)
	assert.Equal(t, gate.StatusGranted, decision.Status)
	assert.Equal(t, "signed.grant.token", decision.GrantToken)
}

/*
TestService_UnknownResource verifies both operations map a missing resource
to NOT_FOUND.
*/
func TestService_UnknownResource(t *testing.T) {
	f := newGateFixture(t, nil)
	ctx := context.Background()
	kim := caller("s1")

	_, err := f.service.RequestAccess(ctx, kim, "no-such-resource")
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))

	_, err = f.service.Submit(ctx, kim, "no-such-resource", "123456")
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}
