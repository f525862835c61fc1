// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package session

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cloudvault/cloudvault/internal/platform/apperr"
	"github.com/cloudvault/cloudvault/internal/platform/constants"
	"github.com/cloudvault/cloudvault/internal/platform/ctxutil"
	"github.com/cloudvault/cloudvault/internal/platform/respond"
	"github.com/cloudvault/cloudvault/internal/platform/validate"
)

// Handler implements the authentication HTTP endpoints.
//
// # Scope
//
// Transport concerns only: JSON parsing, boundary validation, cookie
// handling. No business logic or storage access lives here.
type Handler struct {
	manager *Manager
}

// NewHandler constructs a new [Handler] with its manager dependency.
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login  : Authenticates and mints a session.
//   - POST /logout : Destroys the caller's session (idempotent).
//   - GET  /me     : Returns the caller's identity (WhoAmI).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/me", handler.whoAmI)

	return router
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login handles POST /api/v1/auth/login requests.
//
// # Returns
//   - Writes HTTP 200 OK with the session token and Identity, and sets the
//     HttpOnly session cookie.
//   - Writes HTTP 401 for bad credentials (generic message, no enumeration).
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if input.Username == "" || input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("username/password", "are required"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	result, err := handler.manager.Login(request.Context(), input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    result.Token,
		Path:     constants.SessionCookiePath,
		Expires:  result.ExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, map[string]any{
		"session_token": result.Token,
		"expires_at":    result.ExpiresAt.Format(time.RFC3339),
		"identity":      result.Identity,
	})
}

// logout handles POST /api/v1/auth/logout requests.
//
// Destroy is idempotent: logging out without a session (or twice) still
// acknowledges. The only error surfaced is a session-store outage.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	token := requestToken(request)

	if err := handler.manager.Destroy(request.Context(), token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Expire the cookie regardless of whether a session existed.
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.NoContent(writer)
}

// whoAmI handles GET /api/v1/auth/me requests.
func (handler *Handler) whoAmI(writer http.ResponseWriter, request *http.Request) {
	principal := ctxutil.GetPrincipal(request.Context())
	if principal == nil {
		respond.Error(writer, request, apperr.Unauthenticated())
		return
	}

	ident, err := handler.manager.IdentityByID(request.Context(), principal.IdentityID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, ident)
}

// requestToken extracts the raw session token from the cookie or the
// Authorization header. Mirrors the middleware's extraction order.
func requestToken(request *http.Request) string {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.Split(request.Header.Get("Authorization"), " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}

	return ""
}
