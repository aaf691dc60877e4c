package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"lawpractice-service/internal/cache"
	"lawpractice-service/internal/config"
	"lawpractice-service/internal/events"
	"lawpractice-service/internal/handlers"
	"lawpractice-service/internal/middleware"
	"lawpractice-service/internal/models"
	"lawpractice-service/internal/repository"
	"lawpractice-service/internal/services"
)

// @title Law Practice Management API
// @version 1.0.0
// @description Multi-tenant law practice management service with firm-scoped RBAC

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Check if running health check
	if len(os.Args) > 1 && os.Args[1] == "health" {
		resp, err := http.Get("http://localhost:8080/health")
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// Set database for health checks
	handlers.SetDB(db)
	handlers.SetPagination(cfg.DefaultPageSize, cfg.MaxPageSize)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Firm{},
		&models.AdminFirm{},
		&models.Permission{},
		&models.Role{},
		&models.RolePermission{},
		&models.AccessAuditLog{},
		&models.Lawyer{},
		&models.Client{},
		&models.Case{},
		&models.CaseLawyer{},
		&models.CaseDocument{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Redis role cache; degrades to DB-only lookups when unavailable
	roleCache, err := cache.NewRoleCache(
		cfg.RedisHost,
		cfg.RedisPort,
		cfg.RedisPassword,
		cfg.RedisDB,
		cfg.CacheTTL,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize role cache: %v. Continuing without caching.", err)
	} else if roleCache.IsAvailable() {
		log.Println("Role cache initialized successfully")
		defer roleCache.Close()
	} else {
		log.Println("Role cache unavailable (Redis not connected). Continuing without caching.")
	}

	publisher := events.NewPublisher(cfg.NATSURL, logger)
	defer publisher.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	firmRepo := repository.NewFirmRepository(db)
	rbacRepo := repository.NewRBACRepository(db)
	lawyerRepo := repository.NewLawyerRepository(db)
	clientRepo := repository.NewClientRepository(db)
	caseRepo := repository.NewCaseRepository(db)

	// Seed the permission catalog, built-in roles and super admin
	bootstrapper := services.NewBootstrapper(rbacRepo, userRepo, logger)
	if err := bootstrapper.Run(context.Background(), cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
		log.Fatal("Failed to bootstrap RBAC data:", err)
	}

	// Services
	scopeResolver := services.NewScopeResolver(firmRepo, lawyerRepo, clientRepo, logger)
	caseService := services.NewCaseService(caseRepo, clientRepo, publisher, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, rbacRepo, cfg, logger)
	firmHandler := handlers.NewFirmHandler(firmRepo, publisher, logger)
	lawyerHandler := handlers.NewLawyerHandler(lawyerRepo, publisher, logger)
	clientHandler := handlers.NewClientHandler(clientRepo, publisher, logger)
	caseHandler := handlers.NewCaseHandler(caseRepo, clientRepo, caseService, logger)
	roleHandler := handlers.NewRoleHandler(rbacRepo, roleCache, logger)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret, cfg.CookieName, logger)
	permGate := middleware.NewPermissionGate(rbacRepo, roleCache)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Firm-ID", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.ErrorHandler(logger))

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.ReadinessCheck)

	// Public auth routes
	publicAuth := router.Group("/api/v1/auth")
	{
		publicAuth.POST("/login", authHandler.Login)
		publicAuth.POST("/register", authHandler.Register)
	}

	// Authenticated routes
	api := router.Group("/api/v1")
	api.Use(authMiddleware.RequireAuth())

	// Self-service auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authHandler.Me)
	}

	// Firm management. Creation and the current-firm binding are firm admin
	// operations; listing and mutating arbitrary firms is for platform
	// operators. Not firm-scoped: these routes operate on firms themselves.
	firms := api.Group("/firms")
	{
		firms.GET("/current", middleware.RequireFirmAdmin(), firmHandler.GetCurrentFirm)
		firms.PUT("/current/:id", middleware.RequireFirmAdmin(), firmHandler.SwitchCurrentFirm)

		firms.POST("", middleware.RequireFirmAdmin(), firmHandler.CreateFirm)
		firms.GET("", middleware.RequireSuperAdmin(), firmHandler.ListFirms)
		firms.GET("/:id", middleware.RequireSuperAdmin(), firmHandler.GetFirm)
		firms.PUT("/:id", middleware.RequireSuperAdmin(), firmHandler.UpdateFirm)
		firms.DELETE("/:id", middleware.RequireSuperAdmin(), firmHandler.DeleteFirm)
	}

	// Firm-scoped routes: every request resolves to exactly one firm before
	// the permission gate and the handler run.
	scoped := api.Group("")
	scoped.Use(middleware.FirmScope(scopeResolver))
	{
		lawyers := scoped.Group("/lawyers")
		{
			lawyers.POST("", permGate.RequirePermission("lawyers:create"), lawyerHandler.CreateLawyer)
			lawyers.GET("", permGate.RequirePermission("lawyers:view"), lawyerHandler.ListLawyers)
			lawyers.GET("/:id", permGate.RequirePermission("lawyers:view"), lawyerHandler.GetLawyer)
			lawyers.PUT("/:id", permGate.RequirePermission("lawyers:edit"), lawyerHandler.UpdateLawyer)
			lawyers.DELETE("/:id", permGate.RequirePermission("lawyers:delete"), lawyerHandler.DeleteLawyer)
		}

		clients := scoped.Group("/clients")
		{
			clients.POST("", permGate.RequirePermission("clients:create"), clientHandler.CreateClient)
			clients.GET("", permGate.RequirePermission("clients:view"), clientHandler.ListClients)
			clients.GET("/:id", permGate.RequirePermission("clients:view"), clientHandler.GetClient)
			clients.PUT("/:id", permGate.RequirePermission("clients:edit"), clientHandler.UpdateClient)
			clients.DELETE("/:id", permGate.RequirePermission("clients:delete"), clientHandler.DeleteClient)
		}

		cases := scoped.Group("/cases")
		{
			cases.POST("", permGate.RequirePermission("cases:create"), caseHandler.CreateCase)
			cases.GET("", permGate.RequirePermission("cases:view"), caseHandler.ListCases)
			cases.GET("/:id", permGate.RequirePermission("cases:view"), caseHandler.GetCase)
			cases.PUT("/:id", permGate.RequirePermission("cases:edit"), caseHandler.UpdateCase)
			cases.DELETE("/:id", permGate.RequirePermission("cases:delete"), caseHandler.DeleteCase)
			cases.PUT("/:id/status", permGate.RequirePermission("cases:edit"), caseHandler.UpdateCaseStatus)

			// Case team assignments
			cases.POST("/:id/lawyers/:lawyerId", permGate.RequireAnyPermission("cases:assign", "cases:edit"), caseHandler.AssignLawyer)
			cases.DELETE("/:id/lawyers/:lawyerId", permGate.RequireAnyPermission("cases:assign", "cases:edit"), caseHandler.UnassignLawyer)

			// Document metadata
			cases.POST("/:id/documents", permGate.RequirePermission("documents:create"), caseHandler.AddCaseDocument)
			cases.GET("/:id/documents", permGate.RequirePermission("documents:view"), caseHandler.ListCaseDocuments)
			cases.DELETE("/:id/documents/:docId", permGate.RequirePermission("documents:delete"), caseHandler.DeleteCaseDocument)
		}

		// Custom role management is a firm admin capability
		roles := scoped.Group("/roles", middleware.RequireFirmAdmin())
		{
			roles.POST("", roleHandler.CreateRole)
			roles.GET("", roleHandler.ListRoles)
			roles.GET("/:id", roleHandler.GetRole)
			roles.PUT("/:id", roleHandler.UpdateRole)
			roles.DELETE("/:id", roleHandler.DeleteRole)
			roles.PUT("/:id/permissions", roleHandler.SetRolePermissions)
		}

		scoped.GET("/permissions", middleware.RequireFirmAdmin(), roleHandler.ListPermissions)

		audit := scoped.Group("/audit")
		{
			audit.GET("/access", permGate.RequirePermission("audit:view"), roleHandler.ListAuditLogs)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Printf("Law practice service starting on port %s in %s mode", cfg.Port, cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
