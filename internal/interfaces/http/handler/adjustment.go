package handler

import (
	"github.com/gin-gonic/gin"
	appdocument "github.com/stockroom/backend/internal/application/document"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// AdjustmentHandler handles manual stock adjustment API endpoints
type AdjustmentHandler struct {
	BaseHandler
	adjustments *appdocument.AdjustmentService
}

// NewAdjustmentHandler creates a new AdjustmentHandler
func NewAdjustmentHandler(adjustments *appdocument.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{adjustments: adjustments}
}

// RegisterRoutes registers adjustment routes
func (h *AdjustmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/adjustments", h.List)
	rg.POST("/adjustments", h.Create)
	rg.GET("/adjustments/:id", h.GetByID)
	rg.DELETE("/adjustments/:id", h.Delete)
	rg.POST("/adjustments/:id/lines", h.AddLine)
	rg.POST("/adjustments/:id/complete", h.Complete)
	rg.POST("/adjustments/:id/cancel", h.Cancel)
}

func (h *AdjustmentHandler) List(c *gin.Context) {
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

	adjustments, total, err := h.adjustments.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, adjustments, total, filter.Page, filter.PageSize)
}

func (h *AdjustmentHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	adjustment, err := h.adjustments.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adjustment)
}

func (h *AdjustmentHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req appdocument.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	adjustment, err := h.adjustments.Create(c.Request.Context(), tenantID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, adjustment)
}

func (h *AdjustmentHandler) AddLine(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req appdocument.AdjustmentLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	adjustment, err := h.adjustments.AddLine(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adjustment)
}

// Complete posts every adjustment line against the stock ledger
func (h *AdjustmentHandler) Complete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	adjustment, err := h.adjustments.Complete(c.Request.Context(), tenantID, id, h.actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adjustment)
}

func (h *AdjustmentHandler) Cancel(c *gin.Context) {
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

	adjustment, err := h.adjustments.Cancel(c.Request.Context(), tenantID, id, h.actor(c), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adjustment)
}

func (h *AdjustmentHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.adjustments.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
