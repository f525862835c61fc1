// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

// Package sec provides cryptographic primitives and access-control decisions.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, token generation,
// role policy) from the domain logic. It acts as an Infrastructure service
// injected into the Application layer via small interfaces.
package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a URL-safe random token of byteLength entropy
// bytes, suitable for use as an opaque session carrier.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random source: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token.
//
// Raw session tokens are never persisted: stores index sessions by this
// digest so a leaked store cannot be replayed as live sessions.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
