package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/miyako-dev/support-desk-api/config"
	"github.com/miyako-dev/support-desk-api/controllers"
	"github.com/miyako-dev/support-desk-api/middleware"
	"github.com/miyako-dev/support-desk-api/models"
	"github.com/miyako-dev/support-desk-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Support Desk API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Inquiry{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize S3-backed avatar storage
	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())

	registerRoutes(router, cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// registerRoutes binds the /api route table. Every route except the
// health and database probes sits behind JWT validation; the admin
// console additionally requires the admin role claim.
func registerRoutes(router *gin.Engine, cfg *config.Config) {
	api := router.Group("/api")
	{
		api.GET("/health", healthCheck)
		api.GET("/database/status", databaseStatus)
	}

	authenticated := api.Group("", middleware.EnsureValidToken(cfg))
	{
		authenticated.GET("/auth/user", controllers.GetCurrentUser)

		authenticated.GET("/messages", controllers.ListMessages)
		authenticated.POST("/messages", controllers.SendMessage)

		authenticated.GET("/inquiries", controllers.ListInquiries)
		authenticated.POST("/inquiries", controllers.CreateInquiry)

		authenticated.GET("/notifications", controllers.ListNotifications)
		authenticated.PATCH("/notifications/:id/read", controllers.MarkNotificationRead)

		authenticated.POST("/users/me/avatar", controllers.UploadAvatar)
	}

	admin := authenticated.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/users", controllers.ListChatUsers)
		admin.GET("/users/:userId/messages", controllers.ListUserMessages)
		admin.POST("/users/:userId/messages", controllers.ReplyToUser)
		admin.GET("/inquiries", controllers.ListAllInquiries)
		admin.POST("/inquiries/:id/reply", controllers.ReplyToInquiry)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Support Desk API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to get database instance",
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Database connection failed",
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to query tables",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
