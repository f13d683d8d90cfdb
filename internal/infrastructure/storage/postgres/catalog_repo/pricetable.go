package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"frostdesk/internal/core/id"
	"frostdesk/internal/domain/pricetable"
	"frostdesk/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ pricetable.Repository = (*PriceTableRepo)(nil)

// PriceTableRepo implements pricetable.Repository. Components live in
// price_row_components and are replaced wholesale on save.
type PriceTableRepo struct {
	*BaseCatalogRepo[*pricetable.PriceRow]
	tm *postgres.TxManager
}

// NewPriceTableRepo creates the price table repository.
func NewPriceTableRepo(tm *postgres.TxManager) *PriceTableRepo {
	return &PriceTableRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			tm,
			"price_rows",
			postgres.ExtractDBColumns[pricetable.PriceRow](),
			func() *pricetable.PriceRow { return &pricetable.PriceRow{} },
		),
		tm: tm,
	}
}

// ListByYear retrieves all rows for a price year, with components.
func (r *PriceTableRepo) ListByYear(ctx context.Context, year int) ([]*pricetable.PriceRow, error) {
	q := r.SelectBuilder().
		Where(squirrel.Eq{"year": year}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("set_model ASC")

	rows, err := r.FindMany(ctx, q)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		components, err := r.GetComponents(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		row.Components = components
	}
	return rows, nil
}

// componentRow is the storage shape of a set component.
type componentRow struct {
	Kind      string `db:"kind"`
	Name      string `db:"name"`
	Model     string `db:"model"`
	SalePrice int64  `db:"sale_price"`
}

// GetComponents loads the components of a single row.
func (r *PriceTableRepo) GetComponents(ctx context.Context, rowID id.ID) ([]pricetable.Component, error) {
	sql, args, err := r.Builder().
		Select("kind", "name", "model", "sale_price").
		From("price_row_components").
		Where(squirrel.Eq{"price_row_id": rowID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build components query: %w", err)
	}

	var stored []componentRow
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &stored, sql, args...); err != nil {
		return nil, fmt.Errorf("select components: %w", err)
	}

	components := make([]pricetable.Component, len(stored))
	for i, c := range stored {
		components[i] = pricetable.Component{
			Kind:      pricetable.ComponentKind(c.Kind),
			Name:      c.Name,
			Model:     c.Model,
			SalePrice: c.SalePrice,
		}
	}
	return components, nil
}

// SaveComponents replaces the components of a row.
func (r *PriceTableRepo) SaveComponents(ctx context.Context, rowID id.ID, components []pricetable.Component) error {
	querier := r.tm.GetQuerier(ctx)

	delSQL, delArgs, err := r.Builder().
		Delete("price_row_components").
		Where(squirrel.Eq{"price_row_id": rowID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build components delete: %w", err)
	}
	if _, err := querier.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete components: %w", err)
	}

	if len(components) == 0 {
		return nil
	}

	ins := r.Builder().
		Insert("price_row_components").
		Columns("price_row_id", "position", "kind", "name", "model", "sale_price")
	for i, c := range components {
		ins = ins.Values(rowID, i, string(c.Kind), c.Name, c.Model, c.SalePrice)
	}

	insSQL, insArgs, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build components insert: %w", err)
	}
	if _, err := querier.Exec(ctx, insSQL, insArgs...); err != nil {
		return fmt.Errorf("insert components: %w", err)
	}
	return nil
}
