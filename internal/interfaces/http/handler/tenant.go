package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/stockroom/backend/internal/application/identity"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
	"github.com/stockroom/backend/internal/interfaces/http/middleware"
)

// TenantHandler handles tenant provisioning and lifecycle endpoints
type TenantHandler struct {
	BaseHandler
	tenants *identity.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenants *identity.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// RegisterRoutes registers tenant routes. All of them require the admin role.
func (h *TenantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := middleware.RequireRole("admin")
	rg.GET("/tenants", admin, h.List)
	rg.POST("/tenants", admin, h.Provision)
	rg.GET("/tenants/:id", admin, h.GetByID)
	rg.POST("/tenants/:id/suspend", admin, h.Suspend)
	rg.POST("/tenants/:id/activate", admin, h.Activate)
}

func (h *TenantHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	filter := req.ToFilter()
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	tenants, total, err := h.tenants.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, tenants, total, filter.Page, filter.PageSize)
}

func (h *TenantHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	tenant, err := h.tenants.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Provision creates a tenant together with its admin user and default roles
func (h *TenantHandler) Provision(c *gin.Context) {
	var req identity.ProvisionTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tenant, err := h.tenants.Provision(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tenant)
}

// Suspend blocks all API access for the tenant's users
func (h *TenantHandler) Suspend(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	tenant, err := h.tenants.Suspend(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

func (h *TenantHandler) Activate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	tenant, err := h.tenants.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}
