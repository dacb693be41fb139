// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

package web

import (
	"github.com/gin-gonic/gin"

	"github.com/authgate/authgate/internal/auth"
)

// NewRouter wires the API routes onto a gin engine.
//
//	POST /auth/register  create an account
//	POST /auth/login     exchange credentials for a bearer token
//	GET  /user/:id       look up a profile (bearer token required)
//	GET  /health, GET /  public health check
func NewRouter(h *Handler, tokens *auth.TokenService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", h.health)
	r.GET("/health", h.health)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)

	r.GET("/user/:id", RequireAuth(tokens), h.getUser)

	return r
}
