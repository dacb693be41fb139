// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

package auth

import (
	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the fixed work factor for credential hashing.
const BcryptCost = 12

// bcryptMaxLen is the number of password bytes bcrypt keys from. Longer
// passwords are truncated rather than rejected, matching the common bcrypt
// binding behavior that stored digests may already depend on.
const bcryptMaxLen = 72

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("AUTH_EMPTY_PASSWORD").Errorf("password cannot be empty")

// PasswordHasher provides password hashing and verification.
type PasswordHasher interface {
	// Hash produces a salted one-way digest of the password. The salt is
	// embedded in the digest, so no separate storage is needed.
	Hash(password string) (string, error)

	// Verify checks if the password matches the digest.
	// Returns (true, nil) on match, (false, nil) on mismatch or malformed
	// digest; errors are reserved for internal faults.
	Verify(password, digest string) (bool, error)
}

// BcryptHasher implements PasswordHasher using bcrypt with a fixed cost.
type BcryptHasher struct{}

// NewBcryptHasher creates a new BcryptHasher.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

// Hash produces a bcrypt digest of the password. Each call draws a fresh
// random salt, so hashing the same password twice yields different digests.
// Hashing never fails for non-empty input; bytes beyond the bcrypt limit
// are ignored.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	digest, err := bcrypt.GenerateFromPassword(truncate(password), BcryptCost)
	if err != nil {
		return "", oops.Code("AUTH_HASH_FAILED").
			With("operation", "bcrypt generate").
			Wrap(err)
	}
	return string(digest), nil
}

// Verify checks if the password matches the digest. bcrypt re-derives the
// key from the cost and salt embedded in the digest and compares in
// constant time. Mismatches and malformed digests both refuse
// authentication; bcrypt verification has no internal failure modes.
func (h *BcryptHasher) Verify(password, digest string) (bool, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(digest), truncate(password)); err != nil {
		return false, nil
	}
	return true, nil
}

// truncate applies the bcrypt length limit on both the hash and verify
// paths so they agree on which bytes are significant.
func truncate(password string) []byte {
	if len(password) > bcryptMaxLen {
		return []byte(password[:bcryptMaxLen])
	}
	return []byte(password)
}

// Compile-time interface check.
var _ PasswordHasher = (*BcryptHasher)(nil)
