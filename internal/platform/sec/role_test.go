// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudvault/cloudvault/internal/platform/sec"
)

/*
TestRole_AtLeast verifies the two-level role ordering.
*/
func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     sec.Role
		target   sec.Role
		expected bool
	}{
		{"admin_meets_admin", sec.RoleAdmin, sec.RoleAdmin, true},
		{"admin_meets_user", sec.RoleAdmin, sec.RoleUser, true},
		{"user_meets_user", sec.RoleUser, sec.RoleUser, true},
		{"user_below_admin", sec.RoleUser, sec.RoleAdmin, false},
		{"unknown_below_user", sec.Role("ghost"), sec.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.AtLeast(tt.target))
		})
	}
}

/*
TestRole_Valid checks that only the two known roles pass validation.
*/
func TestRole_Valid(t *testing.T) {
	assert.True(t, sec.RoleAdmin.Valid())
	assert.True(t, sec.RoleUser.Valid())
	assert.False(t, sec.Role("superuser").Valid())
	assert.False(t, sec.Role("").Valid())
}

/*
TestAuthorize covers the pure authorization decision function, including
the Anonymous (nil principal) case.
*/
func TestAuthorize(t *testing.T) {
	admin := &sec.Principal{IdentityID: "id-1", Role: sec.RoleAdmin}
	user := &sec.Principal{IdentityID: "id-2", Role: sec.RoleUser}

	tests := []struct {
		name     string
		caller   *sec.Principal
		required sec.Role
		allowed  bool
		reason   sec.DenyReason
	}{
		{"anonymous_denied", nil, sec.RoleUser, false, sec.DenyUnauthenticated},
		{"anonymous_denied_admin", nil, sec.RoleAdmin, false, sec.DenyUnauthenticated},
		{"user_allowed_user_level", user, sec.RoleUser, true, ""},
		{"user_denied_admin_level", user, sec.RoleAdmin, false, sec.DenyInsufficientRole},
		{"admin_allowed_user_level", admin, sec.RoleUser, true, ""},
		{"admin_allowed_admin_level", admin, sec.RoleAdmin, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := sec.Authorize(tt.caller, tt.required)

			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

/*
TestAuthorize_Pure asserts the decision function has no hidden state: the
same inputs always produce the same verdict.
*/
func TestAuthorize_Pure(t *testing.T) {
	user := &sec.Principal{IdentityID: "id-2", Role: sec.RoleUser}

	first := sec.Authorize(user, sec.RoleAdmin)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, sec.Authorize(user, sec.RoleAdmin))
	}
}
