// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/studentperf/internal/app/models/dto"
	"github.com/yigit/studentperf/internal/app/services"
	"github.com/yigit/studentperf/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Login handles user login
// @Summary Log in
// @Description Exact-match username and password login. Opens a session and returns its token and menu.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.StructuredResponse{data=dto.AuthResponse}
// @Failure 401 {object} dto.ErrorResponse "Please enter valid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Warn().Msg("Invalid login request payload")
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(resp, "Login successful"))
}

// Logout ends the current session
// @Summary Log out
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	sess := middleware.CurrentSession(ctx)
	if sess == nil {
		middleware.HandleAPIError(ctx, errUnauthenticated)
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), sess); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Logged out"))
}

// Session describes the current session and its menu
func (c *AuthController) Session(ctx *gin.Context) {
	sess := middleware.CurrentSession(ctx)
	if sess == nil {
		middleware.HandleAPIError(ctx, errUnauthenticated)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(services.DescribeSession(sess), "Session retrieved"))
}
