package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Deep-1402/cafe/internal/chat"
	"github.com/Deep-1402/cafe/internal/handler"
	"github.com/Deep-1402/cafe/internal/middleware"
	"github.com/Deep-1402/cafe/internal/tenancy"
	"github.com/Deep-1402/cafe/pkg/config"
	"github.com/Deep-1402/cafe/pkg/database"
	"github.com/Deep-1402/cafe/pkg/jwtutil"
	"github.com/Deep-1402/cafe/pkg/logger"
	"github.com/Deep-1402/cafe/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("cafe")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting cafe service...", cfg.LogConfig()...)

	// Master database holds the tenant directory and subscription plans
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize master database", zap.Error(err))
	}

	// Tenancy core: factory -> registrar -> directory -> provisioner/resolver
	factory := tenancy.NewFactory(&cfg.DB)
	registrar := tenancy.NewRegistrar()
	directory := tenancy.NewDirectory(database.GetDB())
	provisioner := tenancy.NewProvisioner(directory, factory, registrar)
	resolver := tenancy.NewResolver(directory, factory, registrar)
	defer resolver.Close()

	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})

	hub := chat.NewHub()

	masterHandler := handler.NewMasterHandler(provisioner, directory, jwtUtil)
	subscriptionHandler := handler.NewSubscriptionHandler(database.GetDB(), directory)
	tenantAuthHandler := handler.NewTenantAuthHandler(resolver, database.GetDB(), jwtUtil)
	categoryHandler := handler.NewCategoryHandler()
	dishHandler := handler.NewDishHandler()
	orderHandler := handler.NewOrderHandler()
	roleHandler := handler.NewRoleHandler()
	chatHandler := handler.NewChatHandler(hub, resolver, jwtUtil)

	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Master surface
	master := e.Group("/master")
	master.POST("/signup", masterHandler.Signup)
	master.POST("/login", masterHandler.Login)

	masterAuth := master.Group("", middleware.JWTAuthMiddleware(jwtUtil), middleware.RequireMasterScope())
	masterAuth.POST("/subscriptions", subscriptionHandler.Create)
	masterAuth.GET("/subscriptions", subscriptionHandler.List)
	masterAuth.GET("/subscriptions/:id", subscriptionHandler.GetByID)
	masterAuth.PUT("/subscriptions/:id", subscriptionHandler.Update)
	masterAuth.DELETE("/subscriptions/:id", subscriptionHandler.Delete)

	// Tenant surface - login is public, everything else runs behind the
	// resolver so handlers always see a ready tenant handle
	tenant := e.Group("/tenant")
	tenant.POST("/login", tenantAuthHandler.Login)

	tenantAuth := tenant.Group("", middleware.JWTAuthMiddleware(jwtUtil), middleware.ResolveTenant(resolver))
	tenantAuth.GET("/users", tenantAuthHandler.ListUsers)
	tenantAuth.POST("/users", tenantAuthHandler.CreateUser, middleware.RequireAdmin())

	tenantAuth.POST("/categories", categoryHandler.Create)
	tenantAuth.GET("/categories", categoryHandler.List)
	tenantAuth.PUT("/categories/:id", categoryHandler.Update)
	tenantAuth.DELETE("/categories/:id", categoryHandler.Delete)

	tenantAuth.POST("/dishes", dishHandler.Create)
	tenantAuth.GET("/dishes", dishHandler.List)
	tenantAuth.PUT("/dishes/:id", dishHandler.Update)
	tenantAuth.DELETE("/dishes/:id", dishHandler.Delete)

	tenantAuth.POST("/orders", orderHandler.Create)
	tenantAuth.GET("/orders", orderHandler.List)
	tenantAuth.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	tenantAuth.POST("/orders/:id/billing", orderHandler.CreateBilling)
	tenantAuth.POST("/orders/:id/feedback", orderHandler.CreateFeedback)

	tenantAuth.POST("/roles", roleHandler.CreateRole, middleware.RequireAdmin())
	tenantAuth.GET("/roles", roleHandler.ListRoles)
	tenantAuth.POST("/modules", roleHandler.CreateModule, middleware.RequireAdmin())
	tenantAuth.GET("/modules", roleHandler.ListModules)
	tenantAuth.POST("/permissions", roleHandler.UpsertPermission, middleware.RequireAdmin())
	tenantAuth.GET("/permissions/:roleID", roleHandler.ListPermissions)

	tenantAuth.GET("/chats", chatHandler.ListChats)
	tenantAuth.GET("/chats/:id/messages", chatHandler.ListMessages)

	// Realtime relay - authenticates via token query param
	e.GET("/ws/chat", chatHandler.ServeWS)

	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
