package handler

import (
	"github.com/gin-gonic/gin"
	appdocument "github.com/stockroom/backend/internal/application/document"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// ReturnOrderHandler handles customer and supplier return API endpoints
type ReturnOrderHandler struct {
	BaseHandler
	returns *appdocument.ReturnService
}

// NewReturnOrderHandler creates a new ReturnOrderHandler
func NewReturnOrderHandler(returns *appdocument.ReturnService) *ReturnOrderHandler {
	return &ReturnOrderHandler{returns: returns}
}

// RegisterRoutes registers return order routes
func (h *ReturnOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/returns", h.List)
	rg.POST("/returns", h.Create)
	rg.GET("/returns/:id", h.GetByID)
	rg.DELETE("/returns/:id", h.Delete)
	rg.POST("/returns/:id/lines", h.AddLine)
	rg.POST("/returns/:id/complete", h.Complete)
	rg.POST("/returns/:id/cancel", h.Cancel)
}

func (h *ReturnOrderHandler) List(c *gin.Context) {
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
	if direction := c.Query("direction"); direction != "" {
		filter.Filters["direction"] = direction
	}
	if locationID := c.Query("location_id"); locationID != "" {
		filter.Filters["location_id"] = locationID
	}

	returns, total, err := h.returns.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, returns, total, filter.Page, filter.PageSize)
}

func (h *ReturnOrderHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	ret, err := h.returns.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

func (h *ReturnOrderHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req appdocument.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ret, err := h.returns.Create(c.Request.Context(), tenantID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ret)
}

func (h *ReturnOrderHandler) AddLine(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req appdocument.ReturnLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ret, err := h.returns.AddLine(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// Complete posts the return movements and closes the document
func (h *ReturnOrderHandler) Complete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	ret, err := h.returns.Complete(c.Request.Context(), tenantID, id, h.actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

func (h *ReturnOrderHandler) Cancel(c *gin.Context) {
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

	ret, err := h.returns.Cancel(c.Request.Context(), tenantID, id, h.actor(c), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

func (h *ReturnOrderHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.returns.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
