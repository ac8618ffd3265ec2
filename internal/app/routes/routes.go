package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/classhub/internal/app/controllers"
	"github.com/yigit/classhub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	classController *controllers.ClassController,
	enrollmentController *controllers.EnrollmentController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", healthController.Health)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", healthController.Health)

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	classes := v1.Group("/classes")
	{
		classes.GET("", classController.ListClasses)
		classes.GET("/:id", classController.GetClass)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		authenticated.POST("/classes", classController.CreateClass)
		authenticated.PUT("/classes/:id", classController.UpdateClass)
		authenticated.DELETE("/classes/:id", classController.DeleteClass)

		authenticated.POST("/enroll", enrollmentController.Enroll)
		authenticated.DELETE("/enroll/:class_id", enrollmentController.Unenroll)
		authenticated.GET("/my-classes", enrollmentController.ListMyClasses)
	}

	router.NoRoute(middleware.NotFound())
}
