package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crm_backend/internal/auth/service"
	"crm_backend/internal/auth/transport"
	"crm_backend/platform/httpkit"
	"crm_backend/platform/validator"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new auth handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Login authenticates a user and returns a token pair.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pair, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{
		"tokens": transport.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken},
		"user":   transport.ToUserResponse(user),
	})
}

// Refresh exchanges a refresh token for a new token pair.
// POST /api/v1/auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var req transport.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// GetMe returns the authenticated user's account.
// GET /api/v1/users/me
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.svc.Me(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToUserResponse(user))
}
