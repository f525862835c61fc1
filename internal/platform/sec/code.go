// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package sec

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Challenge code bounds. Codes are six decimal digits so they survive
// out-of-band delivery (read aloud, typed from a notification).
const (
	challengeCodeMin  = 100000
	challengeCodeSpan = 900000 // Codes are uniform in [100000, 999999].
)

// GenerateChallengeCode returns a six-digit numeric verification code drawn
// uniformly from [100000, 999999] using the OS entropy source.
func GenerateChallengeCode() (string, error) {
	offset, err := rand.Int(rand.Reader, big.NewInt(challengeCodeSpan))
	if err != nil {
		return "", fmt.Errorf("sec: failed to generate challenge code: %w", err)
	}

	return fmt.Sprintf("%06d", challengeCodeMin+offset.Int64()), nil
}
