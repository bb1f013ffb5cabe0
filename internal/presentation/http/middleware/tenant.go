package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
	"github.com/stockpilot/stockpilot-api/internal/domain/repository"
	infraRepo "github.com/stockpilot/stockpilot-api/internal/infrastructure/repository"
	"github.com/stockpilot/stockpilot-api/internal/presentation/http/dto/response"
)

// ExtractTenantFromHost extracts tenant slug from subdomain
// e.g., "acme.stockpilot.io" -> "acme"
func ExtractTenantFromHost(host string) (string, error) {
	// Remove port if present
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return "", errors.New("invalid subdomain")
	}
	return parts[0], nil
}

// TenantMiddleware resolves the active tenant and threads it through the
// request context. The tenant comes from the subdomain slug when one is
// present, otherwise from an X-Tenant-ID header. Requests that resolve
// neither pass through without a tenant; operations that need one reject
// them downstream.
func TenantMiddleware(tenantRepo repository.TenantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tenant *entity.Tenant

		if tenantSlug, err := ExtractTenantFromHost(c.Request.Host); err == nil {
			t, err := tenantRepo.GetBySlug(c.Request.Context(), tenantSlug)
			if err != nil || t == nil {
				response.NotFound(c, "Tenant not found")
				c.Abort()
				return
			}
			tenant = t
		} else if header := c.GetHeader("X-Tenant-ID"); header != "" {
			tenantID, err := uuid.Parse(header)
			if err != nil {
				response.BadRequest(c, "Invalid X-Tenant-ID header")
				c.Abort()
				return
			}
			t, err := tenantRepo.GetByID(c.Request.Context(), tenantID)
			if err != nil || t == nil {
				response.NotFound(c, "Tenant not found")
				c.Abort()
				return
			}
			tenant = t
		}

		if tenant == nil {
			c.Set("tenant_id", uuid.Nil)
			c.Next()
			return
		}

		// Validate user has access to this tenant (if authenticated);
		// super-admins may act on any tenant.
		userIDVal, exists := c.Get("user_id")
		if exists && !hasRole(c, "super-admin") {
			userID, ok := userIDVal.(uuid.UUID)
			if ok && userID != uuid.Nil {
				isMember, _ := tenantRepo.IsMember(c.Request.Context(), tenant.ID, userID)
				if !isMember {
					response.Forbidden(c, "Access denied to this tenant")
					c.Abort()
					return
				}
			}
		}

		// Set tenant ID in Gin context (for middleware/handlers)
		c.Set("tenant_id", tenant.ID)
		c.Set("tenant", tenant)

		// Also set tenant ID in request context (for services/repositories)
		ctx := infraRepo.WithTenant(c.Request.Context(), tenant.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireTenant ensures a valid tenant context exists
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, exists := c.Get("tenant_id")
		if !exists {
			response.BadRequest(c, "Tenant context required")
			c.Abort()
			return
		}

		id, ok := tenantID.(uuid.UUID)
		if !ok || id == uuid.Nil {
			response.BadRequest(c, "Invalid tenant context")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) uuid.UUID {
	tenantID, exists := c.Get("tenant_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := tenantID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
