package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studentperf/internal/app/controllers"
	"github.com/yigit/studentperf/internal/app/models"
	"github.com/yigit/studentperf/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	dashboardController *controllers.DashboardController,
	recordController *controllers.RecordController,
	userController *controllers.UserController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Health check endpoint (public)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	v1.POST("/auth/login", authController.Login)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.SessionAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/session", authController.Session)
		authenticated.GET("/dashboard", dashboardController.View)
		authenticated.GET("/records", recordController.ListRecords)

		// Teacher-only routes. Services check the role again at their boundary.
		teacherOnly := authenticated.Group("")
		teacherOnly.Use(authMiddleware.RoleRequired(models.RoleTeacher))
		{
			teacherOnly.POST("/records", recordController.CreateRecord)
			teacherOnly.GET("/records/export", recordController.ExportRecords)
			teacherOnly.DELETE("/students/:username", recordController.DeleteStudent)
			teacherOnly.POST("/users", userController.CreateUser)
		}
	}
}
