// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudvault/cloudvault/internal/platform/constants"
	"github.com/cloudvault/cloudvault/internal/platform/ctxutil"
	"github.com/cloudvault/cloudvault/internal/platform/middleware"
	"github.com/cloudvault/cloudvault/internal/platform/sec"
)

// fakeResolver resolves a single known token and nothing else.
type fakeResolver struct {
	token     string
	principal *sec.Principal
}

func (r *fakeResolver) Resolve(_ context.Context, token string) *sec.Principal {
	if token == r.token {
		return r.principal
	}
	return nil
}

// echoPrincipal writes the resolved caller's identity id, or "anonymous".
func echoPrincipal(writer http.ResponseWriter, request *http.Request) {
	if principal := ctxutil.GetPrincipal(request.Context()); principal != nil {
		_, _ = writer.Write([]byte(principal.IdentityID))
		return
	}
	_, _ = writer.Write([]byte("anonymous"))
}

func newAuthenticatedStack(resolver middleware.SessionResolver, terminal http.HandlerFunc, protect func(http.Handler) http.Handler) http.Handler {
	var handler http.Handler = terminal
	if protect != nil {
		handler = protect(handler)
	}
	return middleware.Authenticate(resolver)(handler)
}

/*
TestAuthenticate covers token extraction and resolution: cookie, bearer
header, missing token, and stale token all without erroring.
*/
func TestAuthenticate(t *testing.T) {
	resolver := &fakeResolver{
		token:     "valid-token",
		principal: &sec.Principal{IdentityID: "id-1", Role: sec.RoleUser},
	}
	stack := newAuthenticatedStack(resolver, echoPrincipal, nil)

	tests := []struct {
		name     string
		prepare  func(r *http.Request)
		expected string
	}{
		{
			"cookie_token",
			func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "valid-token"})
			},
			"id-1",
		},
		{
			"bearer_token",
			func(r *http.Request) { r.Header.Set("Authorization", "Bearer valid-token") },
			"id-1",
		},
		{
			"no_token",
			func(r *http.Request) {},
			"anonymous",
		},
		{
			"stale_token",
			func(r *http.Request) { r.Header.Set("Authorization", "Bearer expired-token") },
			"anonymous",
		},
		{
			"malformed_header",
			func(r *http.Request) { r.Header.Set("Authorization", "valid-token") },
			"anonymous",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(request)
			recorder := httptest.NewRecorder()

			stack.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, tt.expected, recorder.Body.String())
		})
	}
}

/*
TestRequireAuth verifies anonymous callers receive 401 and authenticated
callers pass through.
*/
func TestRequireAuth(t *testing.T) {
	resolver := &fakeResolver{
		token:     "valid-token",
		principal: &sec.Principal{IdentityID: "id-1", Role: sec.RoleUser},
	}
	stack := newAuthenticatedStack(resolver, echoPrincipal, middleware.RequireAuth)

	// Anonymous: denied.
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	stack.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "UNAUTHENTICATED")

	// Authenticated: passes.
	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer valid-token")
	recorder = httptest.NewRecorder()
	stack.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRequireRole verifies the role gate: a user-level caller is rejected
from admin routes with 403, while an admin passes; anonymous callers get
401, never 403.
*/
func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		principal      *sec.Principal
		token          string
		expectedStatus int
		expectedCode   string
	}{
		{
			"admin_allowed",
			&sec.Principal{IdentityID: "id-a", Role: sec.RoleAdmin},
			"valid-token",
			http.StatusOK,
			"",
		},
		{
			"user_forbidden",
			&sec.Principal{IdentityID: "id-u", Role: sec.RoleUser},
			"valid-token",
			http.StatusForbidden,
			"INSUFFICIENT_ROLE",
		},
		{
			"anonymous_unauthorized",
			nil,
			"",
			http.StatusUnauthorized,
			"UNAUTHENTICATED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{token: tt.token, principal: tt.principal}
			stack := newAuthenticatedStack(resolver, echoPrincipal, middleware.RequireRole(sec.RoleAdmin))

			request := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.token != "" {
				request.Header.Set("Authorization", "Bearer "+tt.token)
			}
			recorder := httptest.NewRecorder()

			stack.ServeHTTP(recorder, request)

			require.Equal(t, tt.expectedStatus, recorder.Code)
			if tt.expectedCode != "" {
				assert.Contains(t, recorder.Body.String(), tt.expectedCode)
			}
		})
	}
}
