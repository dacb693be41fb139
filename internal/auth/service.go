// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

package auth

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Service provides the registration, login, and profile-lookup flows.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens *TokenService
	tracer trace.Tracer
}

// NewService creates a new Service.
func NewService(users UserRepository, hasher PasswordHasher, tokens *TokenService) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token service is required")
	}
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		tracer: otel.Tracer("github.com/authgate/authgate/internal/auth"),
	}, nil
}

// RegisterInput carries the registration request fields.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// validate checks field presence in order, short-circuiting on the first
// failure so callers get one specific message per attempt.
func (in RegisterInput) validate() error {
	if in.Name == "" {
		return oops.Code("AUTH_MISSING_NAME").Errorf("name is required")
	}
	if in.Email == "" {
		return oops.Code("AUTH_MISSING_EMAIL").Errorf("email is required")
	}
	if in.Password == "" {
		return oops.Code("AUTH_MISSING_PASSWORD").Errorf("password is required")
	}
	if in.Password != in.PasswordConfirm {
		return oops.Code("AUTH_PASSWORD_MISMATCH").Errorf("passwords do not match")
	}
	return nil
}

// LoginInput carries the login request fields.
type LoginInput struct {
	Email    string
	Password string
}

// Register creates a new account. On success nothing is returned, not even
// the new id. The email lookup is a fast path only; the unique index on
// email is the source of truth and a racing create still surfaces as
// AUTH_EMAIL_EXISTS.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	ctx, span := s.tracer.Start(ctx, "auth.Register")
	defer span.End()

	if err := in.validate(); err != nil {
		return err
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return oops.Code("AUTH_EMAIL_EXISTS").
			With("email", in.Email).
			Errorf("email already exists")
	case !errors.Is(err, ErrNotFound):
		return oops.Code("AUTH_REGISTRATION_FAILED").
			With("operation", "check existing email").
			Wrap(err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return oops.Code("AUTH_REGISTRATION_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user := &User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: digest,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return oops.Code("AUTH_EMAIL_EXISTS").
				With("email", in.Email).
				Errorf("email already exists")
		}
		return oops.Code("AUTH_REGISTRATION_FAILED").
			With("operation", "create user").
			Wrap(err)
	}
	return nil
}

// Login authenticates a user and returns a bearer token for their id.
// No other user data is returned.
func (s *Service) Login(ctx context.Context, in LoginInput) (string, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Login")
	defer span.End()

	if in.Email == "" {
		return "", oops.Code("AUTH_MISSING_EMAIL").Errorf("email is required")
	}
	if in.Password == "" {
		return "", oops.Code("AUTH_MISSING_PASSWORD").Errorf("password is required")
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", oops.Code("AUTH_USER_NOT_FOUND").
				With("email", in.Email).
				Errorf("user not found")
		}
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	ok, err := s.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(err)
	}
	if !ok {
		return "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID.String())
	if err != nil {
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}
	return token, nil
}

// Profile returns the password-free view of the user with the given id.
func (s *Service) Profile(ctx context.Context, id ulid.ULID) (*Profile, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Profile")
	defer span.End()

	profile, err := s.users.GetProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_USER_NOT_FOUND").
				With("id", id.String()).
				Errorf("user not found")
		}
		return nil, oops.Code("AUTH_PROFILE_FAILED").
			With("operation", "get profile by id").
			Wrap(err)
	}
	return profile, nil
}
