// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/observability"
	"github.com/authgate/authgate/pkg/errutil"
)

// subjectKey is the gin context key under which RequireAuth stores the
// verified token subject (the caller's user id).
const subjectKey = "auth.subject"

// RequireAuth gates a route behind a bearer token. A missing token is
// unauthenticated (401); a token that fails verification, including an
// expired one, is forbidden (403).
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			observability.RecordTokenRejection("missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated"})
			return
		}

		subject, err := tokens.Verify(raw)
		if err != nil {
			if errutil.Code(err) == "AUTH_TOKEN_EXPIRED" {
				observability.RecordTokenRejection("expired")
			} else {
				observability.RecordTokenRejection("invalid")
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}

		c.Set(subjectKey, subject)
		c.Next()
	}
}

// Subject returns the verified token subject stored by RequireAuth, or ""
// if the route is not behind RequireAuth.
func Subject(c *gin.Context) string {
	return c.GetString(subjectKey)
}
