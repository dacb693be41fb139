// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate/pkg/errutil"
)

func execMigrate(args ...string) error {
	configFile = ""
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"migrate"}, args...))
	return cmd.Execute()
}

func TestMigrateCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"migrate", "--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, sub := range []string{"up", "down", "version", "force"} {
		assert.Contains(t, output, sub, "Help missing %q subcommand", sub)
	}
}

func TestMigrateUp_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	err := execMigrate("up")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestMigrateDown_RequiresConfirmation(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/authgate")

	err := execMigrate("down")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIRMATION_REQUIRED")
	assert.Contains(t, err.Error(), "--yes")
}

func TestMigrateForce_RejectsNonInteger(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/authgate")

	err := execMigrate("force", "abc")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "INVALID_VERSION")
}

func TestMigrateForce_RequiresArgument(t *testing.T) {
	err := execMigrate("force")
	require.Error(t, err)
}
