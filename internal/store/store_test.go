// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate/pkg/errutil"
)

func TestConnect_MalformedDSN(t *testing.T) {
	_, err := Connect(context.Background(), "not a dsn")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
}

func TestConnect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The pool is created lazily, so a cancelled context surfaces during
	// the ping retry loop rather than in pgxpool.New.
	_, err := Connect(ctx, "postgres://localhost:1/authgate")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
}
