// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/pkg/errutil"
)

var testSecret = []byte("test-signing-secret")

func TestNewTokenService(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		svc, err := auth.NewTokenService(nil, time.Hour)
		require.Error(t, err)
		assert.Nil(t, svc)
		errutil.AssertErrorCode(t, err, "AUTH_SECRET_MISSING")
	})

	t.Run("zero ttl falls back to default", func(t *testing.T) {
		svc, err := auth.NewTokenService(testSecret, 0)
		require.NoError(t, err)
		require.NotNil(t, svc)

		token, err := svc.Issue("subject-1")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})
}

func TestTokenIssueVerify(t *testing.T) {
	svc, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	t.Run("round trip returns subject", func(t *testing.T) {
		token, err := svc.Issue("01ARZ3NDEKTSV4RRFFQ69G5FAV")
		require.NoError(t, err)

		subject, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", subject)
	})

	t.Run("rejects empty subject at issue", func(t *testing.T) {
		_, err := svc.Issue("")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_TOKEN_ISSUE_FAILED")
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		_, err := svc.Verify("not.a.token")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_TOKEN_INVALID")
	})

	t.Run("rejects empty token", func(t *testing.T) {
		_, err := svc.Verify("")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_TOKEN_INVALID")
	})

	t.Run("rejects token signed with another key", func(t *testing.T) {
		other, err := auth.NewTokenService([]byte("a-different-secret"), time.Hour)
		require.NoError(t, err)

		token, err := other.Issue("subject-1")
		require.NoError(t, err)

		_, err = svc.Verify(token)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_TOKEN_INVALID")
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		token, err := svc.Issue("subject-1")
		require.NoError(t, err)

		tampered := token[:len(token)-2] + "xx"
		_, err = svc.Verify(tampered)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_TOKEN_INVALID")
	})
}

func TestTokenExpiry(t *testing.T) {
	svc, err := auth.NewTokenService(testSecret, time.Nanosecond)
	require.NoError(t, err)

	token, err := svc.Issue("subject-1")
	require.NoError(t, err)

	// The 1ns TTL has elapsed by the time Verify parses the token.
	time.Sleep(10 * time.Millisecond)

	_, err = svc.Verify(token)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "AUTH_TOKEN_EXPIRED")
}
