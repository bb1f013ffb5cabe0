package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/application/service"
	"github.com/stockpilot/stockpilot-api/internal/domain/charges"
	"github.com/stockpilot/stockpilot-api/internal/presentation/http/dto/request"
	"github.com/stockpilot/stockpilot-api/internal/presentation/http/dto/response"
)

// ChargeSettingsHandler handles charge configuration HTTP requests
type ChargeSettingsHandler struct {
	chargeSettingsService *service.ChargeSettingsService
}

// NewChargeSettingsHandler creates a new charge settings handler
func NewChargeSettingsHandler(chargeSettingsService *service.ChargeSettingsService) *ChargeSettingsHandler {
	return &ChargeSettingsHandler{chargeSettingsService: chargeSettingsService}
}

// GetGlobalDefaults retrieves the tenant-wide charge defaults
func (h *ChargeSettingsHandler) GetGlobalDefaults(c *gin.Context) {
	defaults, err := h.chargeSettingsService.GetGlobalDefaults(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Charge defaults retrieved successfully", defaults)
}

// UpdateGlobalDefaults applies a partial update to the tenant-wide charge defaults
func (h *ChargeSettingsHandler) UpdateGlobalDefaults(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.ChargeSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	defaults, err := h.chargeSettingsService.UpdateGlobalDefaults(c.Request.Context(), *userID, &service.ChargeDefaultsInput{
		Enabled:           req.Enabled,
		TaxType:           req.TaxType,
		AutodetectTaxType: req.AutodetectTaxType,
		GSTRate:           req.GSTRate,
		CGSTRate:          req.CGSTRate,
		SGSTRate:          req.SGSTRate,
		IGSTRate:          req.IGSTRate,
		DeliveryFee:       req.DeliveryFee,
		PackingFee:        req.PackingFee,
		InsuranceFee:      req.InsuranceFee,
		OtherFee:          req.OtherFee,
		DiscountPct:       req.DiscountPct,
		DiscountAmt:       req.DiscountAmt,
		RoundRule:         req.RoundRule,
		SkipProforma:      req.SkipProforma,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Charge defaults updated successfully", defaults)
}

// GetRetailerOverride retrieves a retailer's charge override
func (h *ChargeSettingsHandler) GetRetailerOverride(c *gin.Context) {
	retailerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid retailer ID")
		return
	}

	override, err := h.chargeSettingsService.GetRetailerOverride(c.Request.Context(), retailerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Retailer charge override retrieved successfully", override)
}

// UpdateRetailerOverride applies a partial update to a retailer's charge override
func (h *ChargeSettingsHandler) UpdateRetailerOverride(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	retailerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid retailer ID")
		return
	}

	var req request.ChargeSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	override, err := h.chargeSettingsService.UpdateRetailerOverride(c.Request.Context(), *userID, retailerID, &service.RetailerOverrideInput{
		Enabled:           req.Enabled,
		TaxType:           req.TaxType,
		AutodetectTaxType: req.AutodetectTaxType,
		GSTRate:           req.GSTRate,
		CGSTRate:          req.CGSTRate,
		SGSTRate:          req.SGSTRate,
		IGSTRate:          req.IGSTRate,
		DeliveryFee:       req.DeliveryFee,
		PackingFee:        req.PackingFee,
		InsuranceFee:      req.InsuranceFee,
		OtherFee:          req.OtherFee,
		DiscountPct:       req.DiscountPct,
		DiscountAmt:       req.DiscountAmt,
		RoundRule:         req.RoundRule,
		SkipProforma:      req.SkipProforma,
		Notes:             req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Retailer charge override updated successfully", override)
}

// ClearRetailerOverride resets a retailer's override to full inheritance
func (h *ChargeSettingsHandler) ClearRetailerOverride(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	retailerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid retailer ID")
		return
	}

	if err := h.chargeSettingsService.ClearRetailerOverride(c.Request.Context(), *userID, retailerID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetEffectiveDefaults retrieves the merged effective configuration for a retailer
func (h *ChargeSettingsHandler) GetEffectiveDefaults(c *gin.Context) {
	retailerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid retailer ID")
		return
	}

	eff, err := h.chargeSettingsService.GetEffectiveDefaults(c.Request.Context(), retailerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Effective charge defaults retrieved successfully", eff)
}

// PreviewCharges computes a charge breakdown for the given items without persisting
func (h *ChargeSettingsHandler) PreviewCharges(c *gin.Context) {
	retailerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid retailer ID")
		return
	}

	var req request.PreviewChargesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]charges.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = charges.LineItem{
			SKU:             item.SKU,
			Name:            item.Name,
			Unit:            item.Unit,
			ImageURL:        item.ImageURL,
			Qty:             item.Qty,
			Price:           item.Price,
			ItemDiscountPct: item.ItemDiscountPct,
		}
	}

	result, err := h.chargeSettingsService.PreviewCharges(c.Request.Context(), retailerID, items)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Charges preview computed successfully", result)
}
