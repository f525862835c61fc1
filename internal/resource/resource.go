// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

// Package resource defines the registry of protected resources: the chat
// rooms and shared files that the verification gate guards.
//
// The registry stores what a resource IS and how it is protected. The bytes
// of a file and the messages of a room live with external collaborators and
// are never touched here.
package resource

import (
	"time"
)

// Kind classifies a protected resource.
type Kind string

const (
	// KindRoom is a chat room; gated rooms use ephemeral one-time codes.
	KindRoom Kind = "room"

	// KindFile is a shared file; gated files use a pre-shared download password.
	KindFile Kind = "file"
)

// Valid reports whether k is a known resource kind.
func (k Kind) Valid() bool {
	return k == KindRoom || k == KindFile
}

// Resource represents one entry in the protected-resource registry.
type Resource struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`

	// RequiresGate marks the resource as protected. Ungated resources are
	// accessible to any authenticated caller.
	RequiresGate bool `json:"requires_gate"`

	// GateSecretHash is the bcrypt hash of the pre-shared secret for file
	// resources. Empty for rooms (their secrets are ephemeral challenges)
	// and for ungated resources. Never serialized.
	GateSecretHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
