// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate/pkg/errutil"
)

func execStatus(args ...string) (string, error) {
	configFile = ""
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"status"}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestStatusCommand_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := execStatus()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestStatusCommand_UnreachableDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:1/authgate")

	output, err := execStatus()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "STATUS_CHECK_FAILED")
	assert.Contains(t, output, "unreachable")
}

func TestStatusCommand_JSONOutput(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:1/authgate")

	output, err := execStatus("--json")
	require.Error(t, err)
	assert.Contains(t, output, `"database": "unreachable"`)
}

func TestProbeStatus_MalformedURL(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	status := probeStatus(ctx, "not a dsn")
	assert.Equal(t, "unreachable", status.Database)
	assert.NotEmpty(t, status.Error)
}
