// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package resource_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudvault/cloudvault/internal/platform/apperr"
	"github.com/cloudvault/cloudvault/internal/platform/sec"
	"github.com/cloudvault/cloudvault/internal/resource"
)

func newTestService() *resource.Service {
	return resource.NewService(resource.NewMemoryStore())
}

/*
TestService_Create_File verifies gated file registration: the download
password is stored only as a hash, and never serialized.
*/
func TestService_Create_File(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, resource.CreateInput{
		Name:         "Quarterly Report",
		Kind:         resource.KindFile,
		RequiresGate: true,
		GateSecret:   "s3cret",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "quarterly-report", created.Slug)
	assert.True(t, created.RequiresGate)
	require.NotEmpty(t, created.GateSecretHash)
	assert.NotEqual(t, "s3cret", created.GateSecretHash)
	assert.True(t, sec.CheckSecretHash("s3cret", created.GateSecretHash))
}

/*
TestService_Create_UngatedRoom verifies no secret material is stored for
resources that do not require the gate.
*/
func TestService_Create_UngatedRoom(t *testing.T) {
	service := newTestService()

	created, err := service.Create(context.Background(), resource.CreateInput{
		Name: "Lobby",
		Kind: resource.KindRoom,
	})
	require.NoError(t, err)

	assert.False(t, created.RequiresGate)
	assert.Empty(t, created.GateSecretHash)
}

/*
TestService_Create_DuplicateSlug verifies the unique-slug constraint maps
to a CONFLICT error.
*/
func TestService_Create_DuplicateSlug(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	_, err := service.Create(ctx, resource.CreateInput{Name: "War Room", Kind: resource.KindRoom})
	require.NoError(t, err)

	_, err = service.Create(ctx, resource.CreateInput{Name: "War Room", Kind: resource.KindRoom})
	assert.True(t, apperr.IsCode(err, "CONFLICT"))
}

/*
TestService_Get verifies lookup by both id and slug, and the NOT_FOUND
mapping for unknown references.
*/
func TestService_Get(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, resource.CreateInput{Name: "Design Docs", Kind: resource.KindFile})
	require.NoError(t, err)

	byID, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)

	bySlug, err := service.Get(ctx, "design-docs")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)

	_, err = service.Get(ctx, "does-not-exist")
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}

/*
TestService_List verifies newest-first ordering.
*/
func TestService_List(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	first, err := service.Create(ctx, resource.CreateInput{Name: "Alpha", Kind: resource.KindRoom})
	require.NoError(t, err)
	second, err := service.Create(ctx, resource.CreateInput{Name: "Beta", Kind: resource.KindRoom})
	require.NoError(t, err)

	listed, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, first.ID, listed[1].ID)
}
