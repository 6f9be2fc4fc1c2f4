package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/studentperf/internal/app/models/dto"
	"github.com/yigit/studentperf/internal/app/services"
	"github.com/yigit/studentperf/internal/middleware"
)

// DashboardController serves role-specific dashboards
type DashboardController struct {
	dashboardService *services.DashboardService
	logger           zerolog.Logger
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService *services.DashboardService, logger zerolog.Logger) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// View returns the caller's dashboard
func (c *DashboardController) View(ctx *gin.Context) {
	board, err := c.dashboardService.View(ctx.Request.Context(), middleware.CurrentIdentity(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(board, "Dashboard retrieved"))
}
