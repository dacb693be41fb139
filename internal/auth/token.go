// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// DefaultTokenTTL is how long issued tokens remain valid.
const DefaultTokenTTL = time.Hour

// TokenService issues and verifies signed, time-limited bearer tokens.
// Tokens are self-contained HS256 JWTs asserting {subject, issued-at,
// expires-at}; nothing is stored server-side, so expiry is the only
// invalidation mechanism.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. The secret is the process-wide
// signing key loaded once at startup and injected here; a ttl <= 0 falls
// back to DefaultTokenTTL.
func NewTokenService(secret []byte, ttl time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, oops.Code("AUTH_SECRET_MISSING").Errorf("signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue mints a token asserting subjectID until the TTL elapses.
func (s *TokenService) Issue(subjectID string) (string, error) {
	if subjectID == "" {
		return "", oops.Code("AUTH_TOKEN_ISSUE_FAILED").Errorf("subject id cannot be empty")
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("operation", "sign token").
			Wrap(err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the embedded subject
// id. Expired tokens fail with code AUTH_TOKEN_EXPIRED; anything else that
// does not verify fails with AUTH_TOKEN_INVALID. No claims beyond the
// subject are trusted.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", oops.Code("AUTH_TOKEN_EXPIRED").Wrap(err)
		}
		return "", oops.Code("AUTH_TOKEN_INVALID").Wrap(err)
	}

	if claims.Subject == "" {
		return "", oops.Code("AUTH_TOKEN_INVALID").Errorf("token has no subject")
	}
	return claims.Subject, nil
}
