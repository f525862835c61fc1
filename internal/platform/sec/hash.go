// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret hashes a plain-text secret (account password or file gate
// password) using the bcrypt algorithm.
func HashSecret(plainTextSecret string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextSecret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash secret: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckSecretHash compares a plain-text secret with its hashed version.
//
// bcrypt's comparison is constant-time with respect to the candidate, so the
// result does not leak how much of the secret matched.
func CheckSecretHash(plainTextSecret, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextSecret))
	return err == nil
}
