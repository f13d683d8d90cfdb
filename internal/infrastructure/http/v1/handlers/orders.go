package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/id"
	"frostdesk/internal/domain"
	domainFilter "frostdesk/internal/domain/filter"
	"frostdesk/internal/domain/orders"
	"frostdesk/internal/infrastructure/export"
	"frostdesk/internal/infrastructure/http/v1/dto"
	"frostdesk/pkg/logger"
	"frostdesk/pkg/savequeue"
)

// quoteSave is one pending quote auto-save. Rapid keystroke saves for the
// same order coalesce in the queue; only the newest state hits the database.
type quoteSave struct {
	OrderID id.ID
	Quote   *orders.Quote
}

// OrderHandler serves purchase orders: CRUD, lifecycle moves, the quote
// auto-save path and quote export.
type OrderHandler struct {
	*BaseHandler
	service *orders.Service
	quotes  *savequeue.Queue[quoteSave]
}

// NewOrderHandler creates the order handler. The auto-save delay is how
// long the quote editor may keep typing before the pending state flushes.
func NewOrderHandler(base *BaseHandler, service *orders.Service, autosaveDelay time.Duration) *OrderHandler {
	h := &OrderHandler{
		BaseHandler: base,
		service:     service,
	}
	h.quotes = savequeue.New(autosaveDelay, h.flushQuote,
		savequeue.WithErrorHandler[quoteSave](func(err error) {
			logger.Error(context.Background(), "quote autosave failed", "error", err)
		}),
	)
	return h
}

// Close flushes any pending quote save.
func (h *OrderHandler) Close() {
	h.quotes.Close()
}

func (h *OrderHandler) flushQuote(ctx context.Context, save quoteSave) error {
	order, err := h.service.GetByID(ctx, save.OrderID)
	if err != nil {
		return fmt.Errorf("load order for quote save: %w", err)
	}
	order.Quote = save.Quote
	if err := h.service.Update(ctx, order); err != nil {
		return fmt.Errorf("save quote for %s: %w", save.OrderID, err)
	}
	return nil
}

// List handles GET /orders.
func (h *OrderHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	if filterJSON := c.Query("filter"); filterJSON != "" {
		var advFilters []domainFilter.Item
		if err := json.Unmarshal([]byte(filterJSON), &advFilters); err != nil {
			h.Error(c, apperror.NewValidation("invalid filter format (json expected)"))
			return
		}
		filter.AdvancedFilters = advFilters
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	order, err := h.service.GetByID(ctx, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order := req.ToEntity()
	if err := h.service.Create(ctx, order); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// Update handles PUT /orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.GetByID(ctx, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(order)

	if err := h.service.Update(ctx, order); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Schedule handles POST /orders/:id/schedule.
func (h *OrderHandler) Schedule(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.ScheduleOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Schedule(ctx, orderID, req.Date); err != nil {
		h.Error(c, err)
		return
	}
	h.respondWithOrder(c, orderID)
}

// CompleteInstall handles POST /orders/:id/complete.
func (h *OrderHandler) CompleteInstall(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.CompleteInstallRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.CompleteInstall(ctx, orderID, req.Date); err != nil {
		h.Error(c, err)
		return
	}
	h.respondWithOrder(c, orderID)
}

// Cancel handles POST /orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Cancel(ctx, orderID); err != nil {
		h.Error(c, err)
		return
	}
	h.respondWithOrder(c, orderID)
}

// SaveQuote handles PUT /orders/:id/quote - the auto-save path. The quote
// is accepted immediately and written after the coalescing delay.
func (h *OrderHandler) SaveQuote(c *gin.Context) {
	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.quotes.Submit(quoteSave{OrderID: orderID, Quote: req.ToQuote()})

	c.JSON(http.StatusAccepted, dto.SuccessResponse{Success: true, Message: "quote save queued"})
}

// ExportQuote handles GET /orders/:id/quote/export - xlsx download.
func (h *OrderHandler) ExportQuote(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	// Flush so the export reflects the latest queued edit.
	h.quotes.Flush()

	order, err := h.service.GetByID(ctx, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if order.Quote == nil {
		h.Error(c, apperror.NewNotFound("quote", orderID.String()))
		return
	}

	cols := []export.Column[orders.QuoteLine]{
		{Header: "Kind", Value: func(l orders.QuoteLine) any { return string(l.Kind) }, Width: 12},
		{Header: "Name", Value: func(l orders.QuoteLine) any { return l.Name }, Width: 32},
		{Header: "Unit Price", Value: func(l orders.QuoteLine) any { return int64(l.UnitPrice) }, NumFmt: export.FmtInteger, Width: 14},
		{Header: "Quantity", Value: func(l orders.QuoteLine) any { return l.Quantity }, Width: 10},
		{Header: "Total", Value: func(l orders.QuoteLine) any { return int64(l.Total()) }, NumFmt: export.FmtInteger, Width: 14},
	}

	f, err := export.Table("Quote", cols, order.Quote.Lines)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("quote-%s.xlsx", order.Number)
	h.Excel(c, filename, func(w gin.ResponseWriter) error {
		return f.Write(w)
	})
}

func (h *OrderHandler) respondWithOrder(c *gin.Context, orderID id.ID) {
	order, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// RegisterRoutes registers order routes.
func (h *OrderHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.POST("/:id/schedule", h.Schedule)
	group.POST("/:id/complete", h.CompleteInstall)
	group.POST("/:id/cancel", h.Cancel)
	group.PUT("/:id/quote", h.SaveQuote)
	group.GET("/:id/quote/export", h.ExportQuote)
}
