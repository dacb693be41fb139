// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

// Package web exposes the HTTP API: registration, login, and token-gated
// profile lookup.
package web

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/observability"
	"github.com/authgate/authgate/pkg/errutil"
)

// errorStatus maps service error codes to HTTP responses. Codes not listed
// here are internal faults: they are logged with full context and surfaced
// as a generic 500 so no storage or hashing detail leaks to clients.
var errorStatus = map[string]struct {
	status  int
	message string
}{
	"AUTH_MISSING_NAME":        {http.StatusUnprocessableEntity, "Name is required"},
	"AUTH_MISSING_EMAIL":       {http.StatusUnprocessableEntity, "Email is required"},
	"AUTH_MISSING_PASSWORD":    {http.StatusUnprocessableEntity, "Password is required"},
	"AUTH_PASSWORD_MISMATCH":   {http.StatusUnprocessableEntity, "Passwords do not match"},
	"AUTH_EMAIL_EXISTS":        {http.StatusUnprocessableEntity, "Email already exists"},
	"AUTH_USER_NOT_FOUND":      {http.StatusNotFound, "User not found"},
	"AUTH_INVALID_CREDENTIALS": {http.StatusUnauthorized, "Invalid credentials"},
}

// Handler holds the dependencies for the HTTP endpoints.
type Handler struct {
	svc     *auth.Service
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewHandler creates a new Handler. metrics may be nil when the
// observability server is not running.
func NewHandler(svc *auth.Service, metrics *observability.Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, metrics: metrics, logger: logger}
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordconfirm"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// respondError translates a service error into an HTTP response.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	if mapped, ok := errorStatus[errutil.Code(err)]; ok {
		c.JSON(mapped.status, gin.H{"message": mapped.message})
		return
	}
	errutil.LogError(h.logger, op+" failed", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

func (h *Handler) recordRegistration(status string) {
	if h.metrics != nil {
		h.metrics.RegistrationsTotal.WithLabelValues(status).Inc()
	}
}

func (h *Handler) recordLogin(status string) {
	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues(status).Inc()
	}
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	err := h.svc.Register(c.Request.Context(), auth.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		if _, ok := errorStatus[errutil.Code(err)]; ok {
			h.recordRegistration("rejected")
		} else {
			h.recordRegistration("error")
		}
		h.respondError(c, "registration", err)
		return
	}

	h.recordRegistration("created")
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully!"})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	token, err := h.svc.Login(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch errutil.Code(err) {
		case "AUTH_INVALID_CREDENTIALS":
			h.recordLogin("invalid_credentials")
		case "AUTH_USER_NOT_FOUND":
			h.recordLogin("unknown_user")
		case "AUTH_MISSING_EMAIL", "AUTH_MISSING_PASSWORD":
			h.recordLogin("rejected")
		default:
			h.recordLogin("error")
		}
		h.respondError(c, "login", err)
		return
	}

	h.recordLogin("success")
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) getUser(c *gin.Context) {
	id, err := ulid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid user id"})
		return
	}

	profile, err := h.svc.Profile(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "profile lookup", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
