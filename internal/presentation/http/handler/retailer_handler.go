package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/application/service"
	infraRepo "github.com/stockpilot/stockpilot-api/internal/infrastructure/repository"
	"github.com/stockpilot/stockpilot-api/internal/presentation/http/dto/response"
	"github.com/stockpilot/stockpilot-api/pkg/pagination"
)

// RetailerHandler handles retailer-related HTTP requests
type RetailerHandler struct {
	retailerService *service.RetailerService
}

// NewRetailerHandler creates a new retailer handler
func NewRetailerHandler(retailerService *service.RetailerService) *RetailerHandler {
	return &RetailerHandler{retailerService: retailerService}
}

// List handles listing retailers (supports both page-based and cursor-based pagination)
func (h *RetailerHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	search := c.Query("search")
	isSuperAdmin := IsSuperAdmin(c)

	// Check if cursor-based pagination is requested
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c, *userID, search, isSuperAdmin)
		return
	}

	// Default to page-based pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	// For super admins, skip tenant scope to see all retailers
	ctx := c.Request.Context()
	if isSuperAdmin {
		ctx = infraRepo.WithSkipTenantScope(ctx, true)
		// Allow super admin to filter by specific tenant if provided
		if tenantIDStr := c.Query("tenant_id"); tenantIDStr != "" {
			if tenantID, err := uuid.Parse(tenantIDStr); err == nil {
				ctx = infraRepo.WithTenant(ctx, tenantID)
				ctx = infraRepo.WithSkipTenantScope(ctx, false)
			}
		}
	}

	result, err := h.retailerService.ListRetailers(ctx, *userID, params, search, isSuperAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Retailers retrieved successfully", result)
}

// listWithCursor handles listing retailers with cursor-based pagination
func (h *RetailerHandler) listWithCursor(c *gin.Context, userID uuid.UUID, search string, isSuperAdmin bool) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))
	cursor := c.Query("cursor")
	direction := c.DefaultQuery("direction", "next")

	params := &pagination.CursorParams{
		Cursor:    cursor,
		Direction: pagination.CursorDirection(direction),
		Limit:     limit,
	}

	// For super admins, skip tenant scope to see all retailers
	ctx := c.Request.Context()
	if isSuperAdmin {
		ctx = infraRepo.WithSkipTenantScope(ctx, true)
		// Allow super admin to filter by specific tenant if provided
		if tenantIDStr := c.Query("tenant_id"); tenantIDStr != "" {
			if tenantID, err := uuid.Parse(tenantIDStr); err == nil {
				ctx = infraRepo.WithTenant(ctx, tenantID)
				ctx = infraRepo.WithSkipTenantScope(ctx, false)
			}
		}
	}

	result, err := h.retailerService.ListRetailersWithCursor(ctx, userID, params, search, isSuperAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Retailers retrieved successfully", result)
}

// Create handles creating a retailer
func (h *RetailerHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Name      string  `json:"name" binding:"required"`
		Email     *string `json:"email"`
		Phone     *string `json:"phone"`
		GSTIN     *string `json:"gstin"`
		StateCode *string `json:"state_code"`
		City      *string `json:"city"`
		Address   *string `json:"address"`
		Photo     *string `json:"photo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	retailer, err := h.retailerService.CreateRetailer(c.Request.Context(), &service.CreateRetailerInput{
		UserID:    *userID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		GSTIN:     req.GSTIN,
		StateCode: req.StateCode,
		City:      req.City,
		Address:   req.Address,
		Photo:     req.Photo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Retailer created successfully", retailer)
}

// Get handles getting a single retailer
func (h *RetailerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid retailer ID")
		return
	}

	retailer, err := h.retailerService.GetRetailer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Retailer retrieved successfully", retailer)
}

// Update handles updating a retailer
func (h *RetailerHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isSuperAdmin := IsSuperAdmin(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid retailer ID")
		return
	}

	var req struct {
		Name      *string `json:"name"`
		Email     *string `json:"email"`
		Phone     *string `json:"phone"`
		GSTIN     *string `json:"gstin"`
		StateCode *string `json:"state_code"`
		City      *string `json:"city"`
		Address   *string `json:"address"`
		Photo     *string `json:"photo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	retailer, err := h.retailerService.UpdateRetailer(c.Request.Context(), &service.UpdateRetailerInput{
		UserID:       *userID,
		ID:           id,
		IsSuperAdmin: isSuperAdmin,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		GSTIN:        req.GSTIN,
		StateCode:    req.StateCode,
		City:         req.City,
		Address:      req.Address,
		Photo:        req.Photo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Retailer updated successfully", retailer)
}

// Delete handles deleting a retailer
func (h *RetailerHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isSuperAdmin := IsSuperAdmin(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid retailer ID")
		return
	}

	if err := h.retailerService.DeleteRetailer(c.Request.Context(), *userID, id, isSuperAdmin); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
