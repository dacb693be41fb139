// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a create hits the unique index on
// email, including creates that raced past the controller's pre-check.
var ErrDuplicateEmail = errors.New("duplicate email")
