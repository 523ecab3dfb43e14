package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"clinic-management-server/internal/config"
	"clinic-management-server/internal/handlers"
	"clinic-management-server/internal/middleware"
	"clinic-management-server/internal/models"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config, loc *time.Location) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	patientHandler := handlers.NewPatientHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db, loc)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		public.POST("/login", authHandler.Login)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		patientRoutes := private.Group("/patients")
		{
			// Reception registers patients and leads
			patientRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleReception), patientHandler.CreatePatient)

			// Every role works from the full patient list
			patientRoutes.GET("", patientHandler.GetPatients)

			// Reception looks up returning patients by contact number
			patientRoutes.GET("/search", middleware.RoleAuthMiddleware(models.RoleReception, models.RoleDoctor), patientHandler.SearchPatients)

			// Reception updates profile fields, doctors record treatments
			patientRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleReception, models.RoleDoctor), patientHandler.UpdatePatient)

			// Only doctors resolve leads
			patientRoutes.PUT("/:id/close-lead", middleware.RoleAuthMiddleware(models.RoleDoctor), patientHandler.CloseLead)
		}

		dashboardRoutes := private.Group("/dashboard")
		{
			dashboardRoutes.GET("/doctor", middleware.RoleAuthMiddleware(models.RoleDoctor), dashboardHandler.DoctorDashboard)
			dashboardRoutes.GET("/owner", middleware.RoleAuthMiddleware(models.RoleOwner), dashboardHandler.OwnerDashboard)
		}

		// Staff account management (owner-only)
		userRoutes := private.Group("/users")
		userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner))
		{
			userRoutes.POST("", userHandler.CreateUser)
			userRoutes.GET("", userHandler.GetUsers)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
