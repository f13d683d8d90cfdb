package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/id"
	"frostdesk/internal/domain/pricetable"
	"frostdesk/internal/infrastructure/http/v1/dto"
)

// PriceTableHandler serves the equipment price table. Components are a
// table part, so create, get and update run through the service methods
// that carry them.
type PriceTableHandler struct {
	*BaseHandler
	service *pricetable.Service
}

// NewPriceTableHandler creates the price table handler.
func NewPriceTableHandler(base *BaseHandler, service *pricetable.Service) *PriceTableHandler {
	return &PriceTableHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ListByYear handles GET /price-table?year=YYYY.
func (h *PriceTableHandler) ListByYear(c *gin.Context) {
	ctx := c.Request.Context()

	year := h.ParseIntQuery(c, "year", 0)
	if year == 0 {
		h.Error(c, apperror.NewValidation("year query parameter is required"))
		return
	}

	rows, err := h.service.LookupForYear(ctx, year)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*pricetable.PriceRow, 0, len(rows))
	for _, row := range rows {
		items = append(items, row)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].SetModel < items[j].SetModel })

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      len(items),
	})
}

// Get handles GET /price-table/:id.
func (h *PriceTableHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	rowID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	row, err := h.service.GetWithComponents(ctx, rowID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

// Create handles POST /price-table.
func (h *PriceTableHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePriceRowRequest
	if !h.BindJSON(c, &req) {
		return
	}

	row := req.ToEntity()
	if err := h.service.CreateWithComponents(ctx, row); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, row)
}

// Update handles PUT /price-table/:id.
func (h *PriceTableHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	rowID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdatePriceRowRequest
	if !h.BindJSON(c, &req) {
		return
	}

	row, err := h.service.GetWithComponents(ctx, rowID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(row)

	if err := h.service.UpdateWithComponents(ctx, row); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

// Delete handles DELETE /price-table/:id.
func (h *PriceTableHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	rowID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, rowID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers price table routes.
func (h *PriceTableHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.ListByYear)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
