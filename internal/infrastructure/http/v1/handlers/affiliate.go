package handlers

import (
	"frostdesk/internal/domain/affiliate"
	"frostdesk/internal/infrastructure/http/v1/dto"
)

// AffiliateHTTPHandler serves the affiliate catalog.
type AffiliateHTTPHandler = CatalogHandler[
	*affiliate.Affiliate,
	dto.CreateAffiliateRequest,
	dto.UpdateAffiliateRequest,
]

// NewAffiliateHandler creates the affiliate catalog handler.
func NewAffiliateHandler(base *BaseHandler, service *affiliate.Service) *AffiliateHTTPHandler {
	config := CatalogHandlerConfig[
		*affiliate.Affiliate,
		dto.CreateAffiliateRequest,
		dto.UpdateAffiliateRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "affiliate",

		MapCreateDTO: func(req dto.CreateAffiliateRequest) (*affiliate.Affiliate, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdateAffiliateRequest, existing *affiliate.Affiliate) *affiliate.Affiliate {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(a *affiliate.Affiliate) any {
			return a
		},
	}

	return NewCatalogHandler(base, config)
}
