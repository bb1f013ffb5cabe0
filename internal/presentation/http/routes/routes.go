package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stockpilot/stockpilot-api/internal/config"
	domainRepo "github.com/stockpilot/stockpilot-api/internal/domain/repository"
	"github.com/stockpilot/stockpilot-api/internal/presentation/http/handler"
	"github.com/stockpilot/stockpilot-api/internal/presentation/http/middleware"
	"github.com/stockpilot/stockpilot-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth           *handler.AuthHandler
	Tenant         *handler.TenantHandler
	Product        *handler.ProductHandler
	Retailer       *handler.RetailerHandler
	Order          *handler.OrderHandler
	ChargeSettings *handler.ChargeSettingsHandler
	User           *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	TenantRepo      domainRepo.TenantRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.TenantMiddleware(deps.TenantRepo))

		// Per-tenant rate limiter
		rateLimiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Tenants
	registerTenantRoutes(protected, h)

	// Products
	registerProductRoutes(protected, h)

	// Retailers
	registerRetailerRoutes(protected, h)

	// Orders
	registerOrderRoutes(protected, h, deps)

	// Charge settings (global defaults + per-retailer overrides)
	registerChargeSettingsRoutes(protected, h)

	// Reports
	registerReportRoutes(protected)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Roles (Admin)
	registerRoleRoutes(protected, h)

	// Permissions (Admin)
	registerPermissionRoutes(protected, h)

	// Super Admin routes
	registerAdminRoutes(protected, h)
}

func registerTenantRoutes(protected *gin.RouterGroup, h *Handlers) {
	tenants := protected.Group("/tenants")
	{
		tenants.GET("", h.Tenant.ListTenants)
		tenants.GET("/current", h.Tenant.GetCurrentTenant)
		tenants.PUT("/current", h.Tenant.UpdateTenant)
		tenants.GET("/current/members", h.Tenant.ListMembers)
		tenants.POST("/current/members", h.Tenant.InviteMember)
		tenants.PUT("/current/members/:user_id", h.Tenant.UpdateMemberRole)
		tenants.DELETE("/current/members/:user_id", h.Tenant.RemoveMember)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	products.Use(middleware.RequirePermission("manage-products"))
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.POST("/import", h.Product.Import)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/sku/:sku", h.Product.GetBySKU)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}
}

func registerRetailerRoutes(protected *gin.RouterGroup, h *Handlers) {
	retailers := protected.Group("/retailers")
	retailers.Use(middleware.RequirePermission("manage-retailers"))
	{
		retailers.GET("", h.Retailer.List)
		retailers.POST("", h.Retailer.Create)
		retailers.GET("/:id", h.Retailer.Get)
		retailers.PUT("/:id", h.Retailer.Update)
		retailers.DELETE("/:id", h.Retailer.Delete)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := protected.Group("/orders")
	orders.Use(middleware.RequirePermission("manage-orders"))
	{
		orders.GET("", h.Order.List)
		// Order creation uses idempotency middleware to prevent duplicates
		orders.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
		orders.POST("/:id/cancel", h.Order.Cancel)
	}
}

func registerChargeSettingsRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Tenant-wide defaults
	settings := protected.Group("/charge-settings")
	settings.Use(middleware.RequirePermission("manage-charge-settings"))
	{
		settings.GET("", h.ChargeSettings.GetGlobalDefaults)
		settings.PUT("", h.ChargeSettings.UpdateGlobalDefaults)
	}

	// Per-retailer overrides
	overrides := protected.Group("/retailers/:id/charge-settings")
	overrides.Use(middleware.RequirePermission("manage-charge-settings"))
	{
		overrides.GET("", h.ChargeSettings.GetRetailerOverride)
		overrides.PUT("", h.ChargeSettings.UpdateRetailerOverride)
		overrides.DELETE("", h.ChargeSettings.ClearRetailerOverride)
		overrides.GET("/effective", h.ChargeSettings.GetEffectiveDefaults)
		overrides.POST("/preview", h.ChargeSettings.PreviewCharges)
	}
}

func registerReportRoutes(protected *gin.RouterGroup) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequirePermission("view-reports"))
	{
		reports.GET("/orders", func(c *gin.Context) {
			c.JSON(200, gin.H{"message": "Orders report - Coming soon"})
		})
		reports.GET("/products", func(c *gin.Context) {
			c.JSON(200, gin.H{"message": "Products report - Coming soon"})
		})
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerRoleRoutes(protected *gin.RouterGroup, h *Handlers) {
	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerPermissionRoutes(protected *gin.RouterGroup, h *Handlers) {
	permissions := protected.Group("/permissions")
	permissions.Use(middleware.RequirePermission("manage-users"))
	{
		permissions.GET("", h.User.ListPermissions)
	}
}

func registerAdminRoutes(protected *gin.RouterGroup, h *Handlers) {
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole("super-admin"))
	{
		admin.GET("/tenants", h.Tenant.ListAllTenants)
		admin.POST("/tenants", h.Tenant.CreateTenant)
		admin.POST("/tenants/assign-user", h.Tenant.AssignUserToTenant)
	}
}
