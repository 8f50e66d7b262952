package handler

import (
	"github.com/gin-gonic/gin"
	appdocument "github.com/stockroom/backend/internal/application/document"
	appinventory "github.com/stockroom/backend/internal/application/inventory"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// CycleCountHandler handles physical count API endpoints
type CycleCountHandler struct {
	BaseHandler
	counts *appinventory.CycleCountService
}

// NewCycleCountHandler creates a new CycleCountHandler
func NewCycleCountHandler(counts *appinventory.CycleCountService) *CycleCountHandler {
	return &CycleCountHandler{counts: counts}
}

// RegisterRoutes registers cycle count routes
func (h *CycleCountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cycle-counts", h.List)
	rg.POST("/cycle-counts", h.Create)
	rg.GET("/cycle-counts/:id", h.GetByID)
	rg.DELETE("/cycle-counts/:id", h.Delete)
	rg.POST("/cycle-counts/:id/lines", h.AddLine)
	rg.POST("/cycle-counts/:id/record", h.RecordCount)
	rg.POST("/cycle-counts/:id/complete", h.Complete)
	rg.POST("/cycle-counts/:id/cancel", h.Cancel)
}

func (h *CycleCountHandler) List(c *gin.Context) {
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

	counts, total, err := h.counts.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, counts, total, filter.Page, filter.PageSize)
}

func (h *CycleCountHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	count, err := h.counts.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

func (h *CycleCountHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req appinventory.CreateCycleCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	count, err := h.counts.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, count)
}

// AddLine snapshots the current balance for one product/lot onto the sheet
func (h *CycleCountHandler) AddLine(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req appinventory.AddCycleCountLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	count, err := h.counts.AddLine(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// RecordCount stores the physically counted quantity for one line
func (h *CycleCountHandler) RecordCount(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req appinventory.RecordCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	count, err := h.counts.RecordCount(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// Complete posts variance adjustments for every counted line
func (h *CycleCountHandler) Complete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	count, err := h.counts.Complete(c.Request.Context(), tenantID, id, h.actorID(c), c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

func (h *CycleCountHandler) Cancel(c *gin.Context) {
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

	count, err := h.counts.Cancel(c.Request.Context(), tenantID, id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

func (h *CycleCountHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.counts.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
