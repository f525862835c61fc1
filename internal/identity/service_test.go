// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudvault/cloudvault/internal/identity"
	"github.com/cloudvault/cloudvault/internal/platform/apperr"
	"github.com/cloudvault/cloudvault/internal/platform/sec"
	"github.com/cloudvault/cloudvault/pkg/uuidv7"
)

func newTestService(t *testing.T) (*identity.Service, *identity.MemoryRepository, *identity.Identity) {
	t.Helper()

	repository := identity.NewMemoryRepository()

	hash, err := sec.HashSecret("correct-horse")
	require.NoError(t, err)

	ident := &identity.Identity{
		ID:          uuidv7.New(),
		Username:    "kim",
		DisplayName: "Kim",
		Role:        sec.RoleUser,
	}
	require.NoError(t, repository.Create(context.Background(), ident, hash))

	return identity.NewService(repository, repository), repository, ident
}

/*
TestService_Verify_Success checks that valid credentials resolve to the
stored identity.
*/
func TestService_Verify_Success(t *testing.T) {
	service, _, created := newTestService(t)

	ident, err := service.Verify(context.Background(), "kim", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, ident.ID)
	assert.Equal(t, "kim", ident.Username)
	assert.Equal(t, sec.RoleUser, ident.Role)
}

/*
TestService_Verify_Failure checks that a wrong password and an unknown
username fail with the same generic error, so responses never reveal
whether an account exists.
*/
func TestService_Verify_Failure(t *testing.T) {
	service, _, _ := newTestService(t)

	tests := []struct {
		name     string
		username string
		secret   string
	}{
		{"wrong_password", "kim", "wrong-horse"},
		{"unknown_username", "ghost", "correct-horse"},
		{"empty_secret", "kim", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ident, err := service.Verify(context.Background(), tt.username, tt.secret)

			assert.Nil(t, ident)
			require.Error(t, err)
			assert.True(t, apperr.IsCode(err, "INVALID_CREDENTIALS"))
			assert.Equal(t, "Invalid username or password", err.Error())
		})
	}
}

/*
TestSeedDemo verifies the development seed accounts can log in with their
documented credentials.
*/
func TestSeedDemo(t *testing.T) {
	repository := identity.NewMemoryRepository()
	require.NoError(t, identity.SeedDemo(context.Background(), repository))

	service := identity.NewService(repository, repository)

	user, err := service.Verify(context.Background(), "user", "user123")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)

	admin, err := service.Verify(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, admin.Role)
}

/*
TestRepository_Delete verifies deletion and that the credential row follows
the identity.
*/
func TestRepository_Delete(t *testing.T) {
	service, repository, ident := newTestService(t)

	require.NoError(t, repository.Delete(context.Background(), ident.ID))

	_, err := repository.FindByID(context.Background(), ident.ID)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))

	// Login must now fail generically.
	_, err = service.Verify(context.Background(), "kim", "correct-horse")
	assert.True(t, apperr.IsCode(err, "INVALID_CREDENTIALS"))
}
