package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/id"
	"frostdesk/internal/domain"
	"frostdesk/internal/domain/asrequest"
	domainFilter "frostdesk/internal/domain/filter"
	"frostdesk/internal/infrastructure/http/v1/dto"
)

// ASRequestHandler serves after-sales service tickets.
type ASRequestHandler struct {
	*BaseHandler
	service *asrequest.Service
}

// NewASRequestHandler creates the AS ticket handler.
func NewASRequestHandler(base *BaseHandler, service *asrequest.Service) *ASRequestHandler {
	return &ASRequestHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /as-requests.
func (h *ASRequestHandler) List(c *gin.Context) {
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

// Get handles GET /as-requests/:id.
func (h *ASRequestHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	reqID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	ticket, err := h.service.GetByID(ctx, reqID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// Create handles POST /as-requests.
func (h *ASRequestHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateASRequestRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ticket := req.ToEntity()
	if err := h.service.Create(ctx, ticket); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// Update handles PUT /as-requests/:id.
func (h *ASRequestHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	reqID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateASRequestRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ticket, err := h.service.GetByID(ctx, reqID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(ticket)

	if err := h.service.Update(ctx, ticket); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// Transition handles POST /as-requests/:id/transition.
func (h *ASRequestHandler) Transition(c *gin.Context) {
	ctx := c.Request.Context()

	reqID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.TransitionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ticket, err := h.service.Transition(ctx, reqID, asrequest.Status(req.To))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// RegisterRoutes registers AS ticket routes.
func (h *ASRequestHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.POST("/:id/transition", h.Transition)
}
