package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"medcert-dashboard-go/internal/auth"
	"medcert-dashboard-go/internal/candidate"
	"medcert-dashboard-go/internal/handler"
	"medcert-dashboard-go/internal/middleware"
	"medcert-dashboard-go/internal/module"
	"medcert-dashboard-go/internal/region"
	"medcert-dashboard-go/internal/stats"
	"medcert-dashboard-go/migrations"
	"medcert-dashboard-go/pkg/config"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Connect to database
	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migrations.InitSchema(db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Initialize services
	authService := auth.NewAuthService(db, cfg.JWTSecret, cfg.EncryptionKey)
	regionService := region.NewRegionService(db)
	candidateService := candidate.NewCandidateService(db)
	moduleService := module.NewModuleService(db, candidateService)
	statsService := stats.NewStatsService(db)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	regionHandler := handler.NewRegionHandler(regionService)
	candidateHandler := handler.NewCandidateHandler(candidateService)
	moduleHandler := handler.NewModuleHandler(moduleService)
	statsHandler := handler.NewStatsHandler(statsService)
	userHandler := handler.NewUserHandler(authService)

	// Set up Gin router
	router := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:8081"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	// Public routes
	router.POST("/api/login", authHandler.Login)

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// 2FA routes
		protected.POST("/2fa/setup", authHandler.SetupTwoFactor)
		protected.POST("/2fa/verify", authHandler.VerifyTwoFactor)
		protected.POST("/2fa/disable", authHandler.DisableTwoFactor)

		// User profile
		protected.GET("/user/profile", authHandler.GetProfile)

		// Regions (reads are role-scoped inside the service)
		protected.GET("/regions", regionHandler.ListRegions)

		// Candidates
		protected.GET("/candidates", candidateHandler.ListCandidates)
		protected.PATCH("/candidates/:id", candidateHandler.UpdateCandidate)
		protected.POST("/candidates/import", candidateHandler.ImportCandidates)

		// Module exams
		protected.GET("/modules", moduleHandler.ListModuleCandidates)
		protected.POST("/modules", moduleHandler.SubmitResult)

		// Statistics
		protected.GET("/statistics/summary", statsHandler.GetSummary)
		protected.GET("/statistics/export", statsHandler.ExportStatistics)

		// Admin routes
		admin := protected.Group("")
		admin.Use(middleware.AdminOnly())
		{
			admin.POST("/regions", regionHandler.CreateRegion)
			admin.PATCH("/regions/:id", regionHandler.ResizeRegion)
			admin.DELETE("/regions/:id", regionHandler.DeleteRegion)

			admin.GET("/admin/users", userHandler.ListUsers)
			admin.POST("/admin/users", userHandler.CreateUser)
			admin.PATCH("/admin/users/:id", userHandler.UpdateUser)
		}
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
