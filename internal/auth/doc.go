// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

// Package auth provides authentication primitives for Authgate.
//
// # Domain Types
//
// User is the stored account record, including its credential digest.
// Profile is the password-free read model returned by id lookups; it is
// the only user view exposed outside the auth/storage boundary.
//
// # Components
//
//   - PasswordHasher - one-way salted hashing and verification (BcryptHasher)
//   - TokenService - signed, time-limited bearer tokens (HS256 JWT)
//   - UserRepository - persistence contract implemented in auth/postgres
//   - Service - the registration, login, and profile-lookup flows
//
// Services are created with New* constructors that validate dependencies.
package auth
