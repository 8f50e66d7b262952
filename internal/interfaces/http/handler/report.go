package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/stockroom/backend/internal/application/report"
)

// ReportHandler handles inventory reporting endpoints
type ReportHandler struct {
	BaseHandler
	reports *report.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *report.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/valuation", h.Valuation)
	rg.GET("/reports/reconciliation", h.Reconciliation)
}

// Valuation returns on-hand quantity and value grouped by location
func (h *ReportHandler) Valuation(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	rpt, err := h.reports.ValuationByLocation(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rpt)
}

// Reconciliation cross-checks every balance against its movement ledger sum
func (h *ReportHandler) Reconciliation(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	rpt, err := h.reports.Reconcile(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rpt)
}
