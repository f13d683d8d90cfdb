package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/id"
	"frostdesk/internal/domain/warehouse"
	"frostdesk/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler serves the stored equipment catalog plus release and
// scrap operations.
type WarehouseHandler struct {
	*CatalogHandler[*warehouse.StoredItem, dto.CreateStoredItemRequest, dto.UpdateStoredItemRequest]
	service *warehouse.Service
}

// NewWarehouseHandler creates the warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	config := CatalogHandlerConfig[
		*warehouse.StoredItem,
		dto.CreateStoredItemRequest,
		dto.UpdateStoredItemRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "stored_item",

		MapCreateDTO: func(req dto.CreateStoredItemRequest) (*warehouse.StoredItem, error) {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateStoredItemRequest, existing *warehouse.StoredItem) *warehouse.StoredItem {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(item *warehouse.StoredItem) any {
			return item
		},
	}

	return &WarehouseHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// Release handles POST /warehouse/items/:id/release.
func (h *WarehouseHandler) Release(c *gin.Context) {
	h.transition(c, h.service.Release)
}

// Scrap handles POST /warehouse/items/:id/scrap.
func (h *WarehouseHandler) Scrap(c *gin.Context) {
	h.transition(c, h.service.Scrap)
}

func (h *WarehouseHandler) transition(c *gin.Context, op func(ctx context.Context, itemID id.ID, at time.Time) error) {
	ctx := c.Request.Context()

	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.ReleaseStoredItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	at := time.Now().UTC()
	if req.At != nil {
		at = *req.At
	}

	if err := op(ctx, itemID, at); err != nil {
		h.Error(c, err)
		return
	}

	item, err := h.service.GetByID(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
