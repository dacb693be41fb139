// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// User represents a registered account, including its credential digest.
// The digest never leaves the auth/storage boundary; read paths exposed to
// other packages return Profile instead.
type User struct {
	ID           ulid.ULID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile is the password-free view of a user.
type Profile struct {
	ID        ulid.ULID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile returns the password-free view of u.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user and assigns its ID and CreatedAt.
	// The unique index on email is the source of truth for uniqueness;
	// a rejected insert surfaces as ErrDuplicateEmail regardless of any
	// pre-check the caller performed.
	Create(ctx context.Context, user *User) error

	// GetByEmail retrieves a user by email (case-insensitive).
	// Returns ErrNotFound if no user has the given email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetProfileByID retrieves the password-free profile for an id.
	// Returns ErrNotFound if the id is unknown.
	GetProfileByID(ctx context.Context, id ulid.ULID) (*Profile, error)
}
