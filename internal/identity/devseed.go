// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudvault/cloudvault/internal/platform/sec"
	"github.com/cloudvault/cloudvault/pkg/uuidv7"
)

// DemoAccount describes one of the two demo credentials the reference
// deployment ships with.
type DemoAccount struct {
	Username    string
	Password    string
	DisplayName string
	Role        sec.Role
	Email       string
}

// DemoAccounts returns the canonical demo credential set.
//
// The plaintext passwords exist only here and in the README; the store only
// ever receives bcrypt hashes.
func DemoAccounts() []DemoAccount {
	return []DemoAccount{
		{Username: "user", Password: "user123", DisplayName: "Regular User", Role: sec.RoleUser, Email: "user@cloudvault.demo"},
		{Username: "admin", Password: "admin123", DisplayName: "Admin User", Role: sec.RoleAdmin, Email: "admin@cloudvault.demo"},
	}
}

// SeedDemo registers the demo accounts in the given repository.
//
// It is idempotent in effect for the memory profile (a fresh store per
// process) and is only invoked when no DATABASE_URL is configured.
func SeedDemo(ctx context.Context, repository Repository) error {
	for _, account := range DemoAccounts() {
		secretHash, err := sec.HashSecret(account.Password)
		if err != nil {
			return fmt.Errorf("identity: failed to hash demo secret: %w", err)
		}

		ident := &Identity{
			ID:           uuidv7.New(),
			Username:     account.Username,
			DisplayName:  account.DisplayName,
			Role:         account.Role,
			ContactEmail: account.Email,
			CreatedAt:    time.Now(),
		}

		if err := repository.Create(ctx, ident, secretHash); err != nil {
			return fmt.Errorf("identity: failed to seed account %q: %w", account.Username, err)
		}
	}

	return nil
}
