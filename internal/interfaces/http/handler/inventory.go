package handler

import (
	"github.com/gin-gonic/gin"
	appinventory "github.com/stockroom/backend/internal/application/inventory"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// InventoryHandler handles balance and movement ledger API endpoints
type InventoryHandler struct {
	BaseHandler
	balances *appinventory.BalanceService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(balances *appinventory.BalanceService) *InventoryHandler {
	return &InventoryHandler{balances: balances}
}

// RegisterRoutes registers balance and movement routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/balances", h.List)
	rg.GET("/balances/lookup", h.Lookup)
	rg.GET("/balances/:id", h.GetByID)
	rg.GET("/locations/:id/balances", h.ListByLocation)
	rg.GET("/movements", h.ListMovements)
}

func (h *InventoryHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	filter := req.ToFilter()
	if productID := c.Query("product_id"); productID != "" {
		filter.Filters["product_id"] = productID
	}
	if locationID := c.Query("location_id"); locationID != "" {
		filter.Filters["location_id"] = locationID
	}
	if lotNumber := c.Query("lot_number"); lotNumber != "" {
		filter.Filters["lot_number"] = lotNumber
	}
	if hasStock := c.Query("has_stock"); hasStock != "" {
		filter.Filters["has_stock"] = hasStock == "true"
	}

	balances, total, err := h.balances.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, balances, total, filter.Page, filter.PageSize)
}

// Lookup resolves a single balance by its product, location and lot key
func (h *InventoryHandler) Lookup(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var query appinventory.BalanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "product_id and location_id are required")
		return
	}

	balance, err := h.balances.GetByKey(c.Request.Context(), tenantID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

func (h *InventoryHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	balance, err := h.balances.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

func (h *InventoryHandler) ListByLocation(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	locationID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	filter := req.ToFilter()

	balances, err := h.balances.ListByLocation(c.Request.Context(), tenantID, locationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balances)
}

// ListMovements returns a page of the append-only stock movement ledger
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var filter appinventory.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	movements, total, err := h.balances.ListMovements(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, movements, total, page, pageSize)
}
