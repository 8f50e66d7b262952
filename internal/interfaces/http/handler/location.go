package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/stockroom/backend/internal/application/partner"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// LocationHandler handles warehouse location API endpoints
type LocationHandler struct {
	BaseHandler
	locations *partner.LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locations *partner.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// RegisterRoutes registers location routes
func (h *LocationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/locations", h.List)
	rg.POST("/locations", h.Create)
	rg.GET("/locations/code/:code", h.GetByCode)
	rg.GET("/locations/:id", h.GetByID)
	rg.PUT("/locations/:id", h.Update)
	rg.DELETE("/locations/:id", h.Delete)
	rg.POST("/locations/:id/activate", h.Activate)
	rg.POST("/locations/:id/deactivate", h.Deactivate)
}

func (h *LocationHandler) List(c *gin.Context) {
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
	if locType := c.Query("type"); locType != "" {
		filter.Filters["type"] = locType
	}
	if isActive := c.Query("is_active"); isActive != "" {
		filter.Filters["is_active"] = isActive == "true"
	}

	locations, total, err := h.locations.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, locations, total, filter.Page, filter.PageSize)
}

func (h *LocationHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	location, err := h.locations.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

func (h *LocationHandler) GetByCode(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	location, err := h.locations.GetByCode(c.Request.Context(), tenantID, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

func (h *LocationHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req partner.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	location, err := h.locations.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, location)
}

func (h *LocationHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req partner.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	location, err := h.locations.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

func (h *LocationHandler) Activate(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	location, err := h.locations.Activate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

func (h *LocationHandler) Deactivate(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	location, err := h.locations.Deactivate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

func (h *LocationHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.locations.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
