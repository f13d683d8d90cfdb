package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"frostdesk/internal/domain/affiliate"
	"frostdesk/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ affiliate.Repository = (*AffiliateRepo)(nil)

// AffiliateRepo implements affiliate.Repository.
type AffiliateRepo struct {
	*BaseCatalogRepo[*affiliate.Affiliate]
}

// NewAffiliateRepo creates the affiliate repository.
func NewAffiliateRepo(tm *postgres.TxManager) *AffiliateRepo {
	return &AffiliateRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			tm,
			"affiliates",
			postgres.ExtractDBColumns[affiliate.Affiliate](),
			func() *affiliate.Affiliate { return &affiliate.Affiliate{} },
		),
	}
}

// ListOrdered retrieves active affiliates sorted by priority, then name.
func (r *AffiliateRepo) ListOrdered(ctx context.Context) ([]*affiliate.Affiliate, error) {
	q := r.SelectBuilder().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("priority ASC", "name ASC")

	return r.FindMany(ctx, q)
}
