package routes

import (
	"scholarship-portal-api/controllers"
	"scholarship-portal-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Scholarship Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)

			// Scholarship applications
			applications := protected.Group("/applications")
			{
				applications.GET("", controllers.ListApplications)
				applications.GET("/:id", controllers.GetApplication)
				applications.GET("/:id/status", controllers.GetApplicationStatus)
				applications.GET("/:id/history", controllers.GetApplicationHistory)
				applications.POST("", middleware.RequireRole(1), controllers.CreateApplication) // 1 = applicant

				// SSC review workflow
				applications.POST("/:id/decisions", controllers.SubmitStageDecision)
				applications.POST("/:id/override", controllers.OverrideStageDecision)
			}

			// Appeals
			appeals := protected.Group("/appeals")
			{
				appeals.POST("", middleware.RequireRole(1), controllers.FileAppeal) // 1 = applicant
				appeals.POST("/:id/assign", controllers.AssignAppeal)
				appeals.POST("/:id/resolve", controllers.ResolveAppeal)
			}

			// Reviewer worklists
			queues := protected.Group("/queues")
			{
				queues.GET("/me", controllers.GetMyQueue)
				queues.GET("/stage/:stage", controllers.GetStageQueue)
			}
		}
	}

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Endpoint not found"})
	})
}
