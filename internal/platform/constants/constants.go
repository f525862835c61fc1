// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: Session and gate lifetimes, cookie configuration.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "cloudvault-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Sessions

const (
	// SessionTTL is the fixed lifetime of a session from issuance.
	// Sessions have exactly two terminal transitions: TTL elapse (implicit,
	// observed as a failed lookup) and explicit destroy.
	SessionTTL = 24 * time.Hour

	// SessionTokenLength is the byte length of the random session token.
	SessionTokenLength = 32

	// SessionCookieName is the name of the cookie that carries the session token.
	SessionCookieName = "cv_session"

	// SessionCookiePath is the scope of the session cookie.
	SessionCookiePath = "/"
)

// # Verification Gate

const (
	// ChallengeTTL bounds the life of an ephemeral room-admission code.
	ChallengeTTL = 10 * time.Minute

	// GateSecretMinLength is the minimum candidate length for pre-shared
	// secret verification. Shorter candidates are rejected before the
	// stored secret is ever consulted.
	GateSecretMinLength = 4

	// GrantTokenTTL is the lifetime of the downstream token minted on a
	// successful gate pass (e.g. handed to the file storage service).
	GrantTokenTTL = 5 * time.Minute

	// AuthIssuer is the standard 'iss' claim in grant tokens.
	AuthIssuer = "cloudvault.app"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession   = "auth:session:"
	RedisPrefixChallenge = "gate:challenge:"
	RedisPrefixGrant     = "gate:grant:"
)
