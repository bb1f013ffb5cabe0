package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/stockpilot/stockpilot-api/internal/application/service"
	"github.com/stockpilot/stockpilot-api/internal/config"
	"github.com/stockpilot/stockpilot-api/internal/infrastructure/database"
	"github.com/stockpilot/stockpilot-api/internal/infrastructure/repository"
	"github.com/stockpilot/stockpilot-api/internal/presentation/http/handler"
	"github.com/stockpilot/stockpilot-api/internal/presentation/http/routes"
	"github.com/stockpilot/stockpilot-api/pkg/oauth"
	"github.com/stockpilot/stockpilot-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	productRepo := repository.NewProductRepository(db)
	retailerRepo := repository.NewRetailerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	chargeDefaultsRepo := repository.NewChargeDefaultsRepository(db)
	retailerOverrideRepo := repository.NewRetailerOverrideRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, jwtManager, googleOAuthService)
	tenantService := service.NewTenantService(tenantRepo)
	productService := service.NewProductService(productRepo)
	retailerService := service.NewRetailerService(retailerRepo)
	chargeSettingsService := service.NewChargeSettingsService(chargeDefaultsRepo, retailerOverrideRepo, retailerRepo, tenantRepo)
	orderService := service.NewOrderService(orderRepo, orderItemRepo, productRepo, retailerRepo, chargeSettingsService)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:           handler.NewAuthHandler(authService),
		Tenant:         handler.NewTenantHandler(tenantService),
		Product:        handler.NewProductHandler(productService),
		Retailer:       handler.NewRetailerHandler(retailerService),
		Order:          handler.NewOrderHandler(orderService),
		ChargeSettings: handler.NewChargeSettingsHandler(chargeSettingsService),
		User:           handler.NewUserHandler(userService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		TenantRepo:      tenantRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
