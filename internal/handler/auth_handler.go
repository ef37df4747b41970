package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/middleware"
	"github.com/grindsup/trainer-gateway/internal/models"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

type authService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*models.LoginResult, error)
	OAuthCallback(ctx context.Context, req dto.OAuthCallbackRequest) (*models.LoginResult, error)
	Me(ctx context.Context, session *models.Session) (*models.SessionInfo, error)
	Logout(ctx context.Context, session *models.Session) error
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Authenticate trainer
// @Description Forward credentials to the backend and open a gateway session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

// OAuthCallback godoc
// @Summary Complete OAuth sign-in
// @Description Exchange the backend token issued by the OAuth flow for a gateway session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.OAuthCallbackRequest true "Callback payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/oauth/callback [post]
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	var req dto.OAuthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}

	res, err := h.service.OAuthCallback(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

// Me godoc
// @Summary Current session
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if session == nil {
		fail(c, appErrors.ErrUnauthorized)
		return
	}
	info, err := h.service.Me(c.Request.Context(), session)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// Logout godoc
// @Summary Close the session
// @Tags Authentication
// @Security BearerAuth
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.SessionFromContext(c)); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}
