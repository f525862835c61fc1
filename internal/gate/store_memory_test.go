// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package gate_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudvault/cloudvault/internal/gate"
)

func mintFixed(code string) func() (string, error) {
	return func() (string, error) { return code, nil }
}

/*
TestChallengeStore_Ensure_Reuse verifies the single-live-challenge
invariant: a second Ensure for the same pair reuses the first code.
*/
func TestChallengeStore_Ensure_Reuse(t *testing.T) {
	store := gate.NewMemoryChallengeStore()
	ctx := context.Background()

	first, created, err := store.Ensure(ctx, "s1", "r1", time.Minute, mintFixed("111111"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "111111", first.Code)

	second, created, err := store.Ensure(ctx, "s1", "r1", time.Minute, mintFixed("222222"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "111111", second.Code)

	// A different pair mints independently.
	other, created, err := store.Ensure(ctx, "s2", "r1", time.Minute, mintFixed("333333"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "333333", other.Code)
}

/*
TestChallengeStore_Ensure_ExpiredRemint verifies an expired challenge is
treated as absent: the next Ensure mints a fresh code.
*/
func TestChallengeStore_Ensure_ExpiredRemint(t *testing.T) {
	store := gate.NewMemoryChallengeStore()
	ctx := context.Background()

	_, created, err := store.Ensure(ctx, "s1", "r1", -time.Second, mintFixed("111111"))
	require.NoError(t, err)
	require.True(t, created)

	// Submitting against the expired challenge fails.
	ok, err := store.Consume(ctx, "s1", "r1", "111111")
	require.NoError(t, err)
	assert.False(t, ok)

	fresh, created, err := store.Ensure(ctx, "s1", "r1", time.Minute, mintFixed("222222"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "222222", fresh.Code)
}

/*
TestChallengeStore_Consume covers the compare-and-delete contract: a
mismatch leaves the challenge live, a match deletes it, and a second match
attempt fails.
*/
func TestChallengeStore_Consume(t *testing.T) {
	store := gate.NewMemoryChallengeStore()
	ctx := context.Background()

	_, _, err := store.Ensure(ctx, "s1", "r1", time.Minute, mintFixed("654321"))
	require.NoError(t, err)

	ok, err := store.Consume(ctx, "s1", "r1", "123456")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Consume(ctx, "s1", "r1", "654321")
	require.NoError(t, err)
	assert.True(t, ok)

	// Consumed: the same code no longer matches.
	ok, err = store.Consume(ctx, "s1", "r1", "654321")
	require.NoError(t, err)
	assert.False(t, ok)
}

/*
TestChallengeStore_Consume_Concurrent verifies exactly one of many
concurrent submitters of the correct code wins.
*/
func TestChallengeStore_Consume_Concurrent(t *testing.T) {
	store := gate.NewMemoryChallengeStore()
	ctx := context.Background()

	_, _, err := store.Ensure(ctx, "s1", "r1", time.Minute, mintFixed("654321"))
	require.NoError(t, err)

	const submitters = 32
	var wg sync.WaitGroup
	results := make(chan bool, submitters)

	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Consume(ctx, "s1", "r1", "654321")
			assert.NoError(t, err)
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for ok := range results {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

/*
TestGrantStore covers grant lifecycle: put, lookup, expiry, and revocation
by caller.
*/
func TestGrantStore(t *testing.T) {
	store := gate.NewMemoryGrantStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Put(ctx, &gate.Grant{
		CallerID: "s1", ResourceID: "r1", GrantedAt: now, ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, store.Put(ctx, &gate.Grant{
		CallerID: "s1", ResourceID: "r2", GrantedAt: now, ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, store.Put(ctx, &gate.Grant{
		CallerID: "s2", ResourceID: "r1", GrantedAt: now, ExpiresAt: now.Add(time.Hour),
	}))

	held, err := store.Has(ctx, "s1", "r1")
	require.NoError(t, err)
	assert.True(t, held)

	held, err = store.Has(ctx, "s1", "r9")
	require.NoError(t, err)
	assert.False(t, held)

	// Revoking one caller leaves the other's grants intact.
	require.NoError(t, store.RevokeAll(ctx, "s1"))

	held, err = store.Has(ctx, "s1", "r1")
	require.NoError(t, err)
	assert.False(t, held)
	held, err = store.Has(ctx, "s1", "r2")
	require.NoError(t, err)
	assert.False(t, held)
	held, err = store.Has(ctx, "s2", "r1")
	require.NoError(t, err)
	assert.True(t, held)
}

/*
TestGrantStore_Expiry verifies a grant bounded by a past session deadline
reads back as absent.
*/
func TestGrantStore_Expiry(t *testing.T) {
	store := gate.NewMemoryGrantStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &gate.Grant{
		CallerID:   "s1",
		ResourceID: "r1",
		GrantedAt:  time.Now().Add(-2 * time.Hour),
		ExpiresAt:  time.Now().Add(-1 * time.Hour),
	}))

	held, err := store.Has(ctx, "s1", "r1")
	require.NoError(t, err)
	assert.False(t, held)
}
