package handler

import (
	"github.com/gin-gonic/gin"
	appdocument "github.com/stockroom/backend/internal/application/document"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// ShipmentHandler handles outbound shipment API endpoints
type ShipmentHandler struct {
	BaseHandler
	shipments *appdocument.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(shipments *appdocument.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments}
}

// RegisterRoutes registers shipment routes
func (h *ShipmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/shipments", h.List)
	rg.POST("/shipments", h.Create)
	rg.GET("/shipments/:id", h.GetByID)
	rg.DELETE("/shipments/:id", h.Delete)
	rg.POST("/shipments/:id/lines", h.AddLine)
	rg.DELETE("/shipments/:id/lines/:line_id", h.RemoveLine)
	rg.POST("/shipments/:id/confirm", h.Confirm)
	rg.POST("/shipments/:id/ship", h.Ship)
	rg.POST("/shipments/:id/cancel", h.Cancel)
}

func (h *ShipmentHandler) List(c *gin.Context) {
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
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if locationID := c.Query("location_id"); locationID != "" {
		filter.Filters["location_id"] = locationID
	}

	shipments, total, err := h.shipments.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, shipments, total, filter.Page, filter.PageSize)
}

func (h *ShipmentHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	shipment, err := h.shipments.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}

func (h *ShipmentHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req appdocument.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	shipment, err := h.shipments.Create(c.Request.Context(), tenantID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, shipment)
}

func (h *ShipmentHandler) AddLine(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req appdocument.ShipmentLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	shipment, err := h.shipments.AddLine(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}

func (h *ShipmentHandler) RemoveLine(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.pathID(c, "line_id")
	if !ok {
		return
	}

	shipment, err := h.shipments.RemoveLine(c.Request.Context(), tenantID, id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}

// Confirm reserves the shipment for picking
func (h *ShipmentHandler) Confirm(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	shipment, err := h.shipments.Confirm(c.Request.Context(), tenantID, id, h.actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}

// Ship posts the stock issue for every line
func (h *ShipmentHandler) Ship(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	shipment, err := h.shipments.Ship(c.Request.Context(), tenantID, id, h.actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}

func (h *ShipmentHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req appdocument.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Cancellation reason is required")
		return
	}

	shipment, err := h.shipments.Cancel(c.Request.Context(), tenantID, id, h.actor(c), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}

func (h *ShipmentHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.shipments.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
