package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/domain/settlement"
	"frostdesk/internal/infrastructure/export"
	"frostdesk/internal/infrastructure/http/v1/dto"
)

// SettlementHandler serves monthly expense reports and the affiliate
// settlement summary.
type SettlementHandler struct {
	*BaseHandler
	service *settlement.Service
}

// NewSettlementHandler creates the settlement handler.
func NewSettlementHandler(base *BaseHandler, service *settlement.Service) *SettlementHandler {
	return &SettlementHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Get handles GET /settlement/reports/:year/:month.
func (h *SettlementHandler) Get(c *gin.Context) {
	year, month, ok := h.ParsePeriod(c)
	if !ok {
		return
	}

	report, err := h.service.Get(c.Request.Context(), year, month)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Generate handles POST /settlement/reports/:year/:month.
func (h *SettlementHandler) Generate(c *gin.Context) {
	year, month, ok := h.ParsePeriod(c)
	if !ok {
		return
	}

	report, err := h.service.Generate(c.Request.Context(), year, month)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// Rewrite handles POST /settlement/reports/:year/:month/rewrite. The
// existing snapshot is archived and replaced; manual edits are lost.
func (h *SettlementHandler) Rewrite(c *gin.Context) {
	year, month, ok := h.ParsePeriod(c)
	if !ok {
		return
	}

	report, err := h.service.Rewrite(c.Request.Context(), year, month)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// SaveEdited handles PUT /settlement/reports/:year/:month. Derived fields,
// totals and groups are recomputed from the submitted rows.
func (h *SettlementHandler) SaveEdited(c *gin.Context) {
	year, month, ok := h.ParsePeriod(c)
	if !ok {
		return
	}

	var req dto.SaveEditedReportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	report, err := h.service.SaveEdited(c.Request.Context(), year, month, req.ToLineItems())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// MonthlySettlement handles GET /settlement/monthly/:year/:month - the
// per-affiliate AS settlement summary, computed on the fly.
func (h *SettlementHandler) MonthlySettlement(c *gin.Context) {
	year, month, ok := h.ParsePeriod(c)
	if !ok {
		return
	}

	groups, err := h.service.MonthlySettlement(c.Request.Context(), year, month)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":   year,
		"month":  int(month),
		"groups": groups,
	})
}

// Export handles GET /settlement/reports/:year/:month/export - xlsx
// download of the report rows.
func (h *SettlementHandler) Export(c *gin.Context) {
	year, month, ok := h.ParsePeriod(c)
	if !ok {
		return
	}

	report, err := h.service.Get(c.Request.Context(), year, month)
	if err != nil {
		h.Error(c, err)
		return
	}

	cols := []export.Column[settlement.LineItem]{
		{Header: "No", Value: func(li settlement.LineItem) any { return li.LineNo }, Width: 6},
		{Header: "Business", Value: func(li settlement.LineItem) any { return li.BusinessName }, Width: 24},
		{Header: "Affiliate", Value: func(li settlement.LineItem) any { return li.Affiliate }, Width: 16},
		{Header: "Supplier", Value: func(li settlement.LineItem) any { return li.Supplier }, Width: 14},
		{Header: "Type", Value: func(li settlement.LineItem) any { return li.ItemType }, Width: 12},
		{Header: "Spec", Value: func(li settlement.LineItem) any { return li.Spec }, Width: 24},
		{Header: "Qty", Value: func(li settlement.LineItem) any { return li.Quantity }, Width: 6},
		{Header: "List Price", Value: func(li settlement.LineItem) any { return int64(li.ListPrice) }, NumFmt: export.FmtInteger, Width: 14},
		{Header: "Discount", Value: func(li settlement.LineItem) any { return li.DiscountRate }, NumFmt: export.FmtPercent, Width: 10},
		{Header: "Purchase Unit", Value: func(li settlement.LineItem) any { return int64(li.PurchaseUnitPrice) }, NumFmt: export.FmtInteger, Width: 14},
		{Header: "Purchase Total", Value: func(li settlement.LineItem) any { return int64(li.PurchaseTotalPrice) }, NumFmt: export.FmtInteger, Width: 14},
		{Header: "Sales Unit", Value: func(li settlement.LineItem) any { return int64(li.SalesUnitPrice) }, NumFmt: export.FmtInteger, Width: 14},
		{Header: "Sales Total", Value: func(li settlement.LineItem) any { return int64(li.SalesTotalPrice) }, NumFmt: export.FmtInteger, Width: 14},
		{Header: "Front Margin", Value: func(li settlement.LineItem) any { return int64(li.FrontMarginTotal) }, NumFmt: export.FmtInteger, Width: 14},
		{Header: "Incentive", Value: func(li settlement.LineItem) any { return int64(li.IncentiveGradeAmount + li.IncentiveItemAmount) }, NumFmt: export.FmtInteger, Width: 14},
		{Header: "Total Margin", Value: func(li settlement.LineItem) any { return int64(li.TotalMargin) }, NumFmt: export.FmtInteger, Width: 14},
	}

	f, err := export.Table("Expense Report", cols, report.Items)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("expense-report-%04d-%02d.xlsx", year, int(month))
	h.Excel(c, filename, func(w gin.ResponseWriter) error {
		return f.Write(w)
	})
}

// RegisterRoutes registers settlement routes.
func (h *SettlementHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/reports/:year/:month", h.Get)
	group.POST("/reports/:year/:month", h.Generate)
	group.POST("/reports/:year/:month/rewrite", h.Rewrite)
	group.PUT("/reports/:year/:month", h.SaveEdited)
	group.GET("/reports/:year/:month/export", h.Export)
	group.GET("/monthly/:year/:month", h.MonthlySettlement)
}
