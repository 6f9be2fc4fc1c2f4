package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/studentperf/internal/app/models/dto"
	"github.com/yigit/studentperf/internal/app/services"
	"github.com/yigit/studentperf/internal/middleware"
)

// UserController handles account management
type UserController struct {
	userService *services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser creates a student or teacher account
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "Account"
// @Success 201 {object} dto.StructuredResponse{data=dto.UserResponse}
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Router /users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Warn().Msg("Invalid user request payload")
		return
	}

	user, err := c.userService.CreateUser(ctx.Request.Context(), middleware.CurrentIdentity(ctx), req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, "User created successfully"))
}
