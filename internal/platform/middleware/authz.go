// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cloudvault/cloudvault/internal/platform/apperr"
	"github.com/cloudvault/cloudvault/internal/platform/constants"
	"github.com/cloudvault/cloudvault/internal/platform/ctxutil"
	"github.com/cloudvault/cloudvault/internal/platform/respond"
	"github.com/cloudvault/cloudvault/internal/platform/sec"
)

// SessionResolver defines the interface needed to resolve a session token
// to a caller in middleware.
//
// # Why an interface?
//
// Defining SessionResolver here decouples the middleware from the session
// manager implementation, allowing us to easily inject fakes during unit
// testing. Resolve never errors: an absent, expired, or orphaned session is
// simply Anonymous (nil).
type SessionResolver interface {
	Resolve(ctx context.Context, token string) *sec.Principal
}

// Authenticate extracts the opaque session token from the request and
// resolves it to a caller.
//
// # Flow
//  1. Look for the session cookie; fall back to 'Authorization: Bearer'.
//  2. If no token is present, the request proceeds as Anonymous.
//  3. Otherwise resolve via [SessionResolver] — an invalid or expired token
//     also proceeds as Anonymous, never as an error.
//  4. Inject [*sec.Principal] into the request context for downstream use.
func Authenticate(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Token Extraction ───────────────────────────────────────────
			token := sessionToken(request)
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Session Resolution ─────────────────────────────────────────
			principal := resolver.Resolve(request.Context(), token)
			if principal == nil {
				// Stale token. Proceed anonymous; protected routes will deny.
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		decision := sec.Authorize(ctxutil.GetPrincipal(request.Context()), sec.RoleUser)
		if !decision.Allowed {
			denyRequest(writer, request, decision)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose caller does not satisfy the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
//
// The check itself is the pure [sec.Authorize] decision function; this
// middleware only maps its verdict onto the HTTP plane and records the
// denial for the audit trail.
func RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			decision := sec.Authorize(ctxutil.GetPrincipal(request.Context()), role)
			if !decision.Allowed {
				denyRequest(writer, request, decision)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// denyRequest writes the deny verdict and emits an audit log event.
func denyRequest(writer http.ResponseWriter, request *http.Request, decision sec.Decision) {
	logger := ctxutil.GetLogger(request.Context())

	attrs := []any{
		slog.String("reason", string(decision.Reason)),
		slog.String("path", request.URL.Path),
	}
	if principal := ctxutil.GetPrincipal(request.Context()); principal != nil {
		attrs = append(attrs, slog.String("identity_id", principal.IdentityID))
	}
	logger.WarnContext(request.Context(), "authz_denied", attrs...)

	switch decision.Reason {
	case sec.DenyInsufficientRole:
		respond.Error(writer, request, apperr.InsufficientRole())
	default:
		respond.Error(writer, request, apperr.Unauthenticated())
	}
}

// sessionToken extracts the opaque session token from the request, checking
// the scoped cookie first and the Authorization header second.
func sessionToken(request *http.Request) string {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := request.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return parts[1]
}
