// Package document_repo provides PostgreSQL implementations for document
// repositories (orders, AS tickets).
package document_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/id"
	"frostdesk/internal/domain"
	"frostdesk/internal/domain/orders"
	"frostdesk/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ orders.Repository = (*OrderRepo)(nil)

// OrderRepo implements orders.Repository. Work items and quote lines are
// table parts replaced wholesale on every update.
type OrderRepo struct {
	tm         *postgres.TxManager
	selectCols []string
}

// NewOrderRepo creates the order repository.
func NewOrderRepo(tm *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		tm:         tm,
		selectCols: postgres.ExtractDBColumns[orders.Order](),
	}
}

func (r *OrderRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts the order with its work items and quote.
func (r *OrderRepo) Create(ctx context.Context, order *orders.Order) error {
	data := postgres.StructToMap(order)
	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert("orders").
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build order insert: %w", err)
	}

	querier := r.tm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := r.saveWorkItems(ctx, order.ID, order.WorkItems); err != nil {
		return err
	}
	return r.saveQuote(ctx, order.ID, order.Quote)
}

// GetByID retrieves the order including work items and quote.
func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*orders.Order, error) {
	sql, args, err := r.builder().
		Select(r.selectCols...).
		From("orders").
		Where(squirrel.Eq{"id": orderID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build order query: %w", err)
	}

	order := &orders.Order{}
	querier := r.tm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, order, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := r.loadParts(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Update rewrites the order header and table parts with optimistic locking.
func (r *OrderRepo) Update(ctx context.Context, order *orders.Order) error {
	data := postgres.StructToMap(order)
	version, _ := data["version"].(int)

	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "version" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Update("orders").
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": order.ID}).
		Where(squirrel.Eq{"version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build order update: %w", err)
	}

	querier := r.tm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("order", order.ID.String())
	}

	if err := r.deleteParts(ctx, order.ID); err != nil {
		return err
	}
	if err := r.saveWorkItems(ctx, order.ID, order.WorkItems); err != nil {
		return err
	}
	return r.saveQuote(ctx, order.ID, order.Quote)
}

// List retrieves order headers with filtering.
func (r *OrderRepo) List(ctx context.Context, listFilter domain.ListFilter) (domain.ListResult[*orders.Order], error) {
	result := domain.ListResult[*orders.Order]{
		Limit:  listFilter.Limit,
		Offset: listFilter.Offset,
	}

	q := r.builder().
		Select(r.selectCols...).
		From("orders")

	if listFilter.Search != "" {
		pattern := "%" + listFilter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"business_name": pattern},
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"affiliate": pattern},
		})
	}
	if len(listFilter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": listFilter.IDs})
	}

	countSQL, countArgs, err := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.tm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count orders: %w", err)
	}

	q = q.OrderBy("date DESC", "number DESC")
	if listFilter.Limit > 0 {
		q = q.Limit(uint64(listFilter.Limit))
	}
	if listFilter.Offset > 0 {
		q = q.Offset(uint64(listFilter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build list query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list orders: %w", err)
	}
	return result, nil
}

// ListForMonth retrieves full orders whose install completion date falls
// into the given month, excluding cancelled ones.
func (r *OrderRepo) ListForMonth(ctx context.Context, year int, month time.Month) ([]*orders.Order, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	sql, args, err := r.builder().
		Select(r.selectCols...).
		From("orders").
		Where(squirrel.GtOrEq{"install_completion_date": monthStart}).
		Where(squirrel.Lt{"install_completion_date": nextMonth}).
		Where(squirrel.NotEq{"status": string(orders.StatusCancelled)}).
		OrderBy("install_completion_date ASC", "number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build month query: %w", err)
	}

	var items []*orders.Order
	querier := r.tm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list orders for month: %w", err)
	}

	for _, order := range items {
		if err := r.loadParts(ctx, order); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// --- table parts ---

func (r *OrderRepo) loadParts(ctx context.Context, order *orders.Order) error {
	querier := r.tm.GetQuerier(ctx)

	itemsSQL, itemsArgs, err := r.builder().
		Select("work_type", "equipment_category", "set_model", "component_model", "quantity", "stored_unit_price").
		From("order_work_items").
		Where(squirrel.Eq{"order_id": order.ID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build work items query: %w", err)
	}
	order.WorkItems = order.WorkItems[:0]
	if err := pgxscan.Select(ctx, querier, &order.WorkItems, itemsSQL, itemsArgs...); err != nil {
		return fmt.Errorf("load work items: %w", err)
	}

	quoteSQL, quoteArgs, err := r.builder().
		Select("profit_markup_rate").
		From("order_quotes").
		Where(squirrel.Eq{"order_id": order.ID}).
		Limit(1).
		ToSql()
	if err != nil {
		return fmt.Errorf("build quote query: %w", err)
	}

	var markup float64
	err = querier.QueryRow(ctx, quoteSQL, quoteArgs...).Scan(&markup)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			order.Quote = nil
			return nil
		}
		return fmt.Errorf("load quote: %w", err)
	}

	quote := &orders.Quote{ProfitMarkupRate: markup}
	linesSQL, linesArgs, err := r.builder().
		Select("kind", "name", "unit_price", "quantity").
		From("order_quote_lines").
		Where(squirrel.Eq{"order_id": order.ID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build quote lines query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &quote.Lines, linesSQL, linesArgs...); err != nil {
		return fmt.Errorf("load quote lines: %w", err)
	}

	order.Quote = quote
	return nil
}

func (r *OrderRepo) deleteParts(ctx context.Context, orderID id.ID) error {
	querier := r.tm.GetQuerier(ctx)
	for _, table := range []string{"order_work_items", "order_quote_lines", "order_quotes"} {
		sql, args, err := r.builder().
			Delete(table).
			Where(squirrel.Eq{"order_id": orderID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build %s delete: %w", table, err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

func (r *OrderRepo) saveWorkItems(ctx context.Context, orderID id.ID, items []orders.WorkItem) error {
	if len(items) == 0 {
		return nil
	}

	ins := r.builder().
		Insert("order_work_items").
		Columns("order_id", "position", "work_type", "equipment_category", "set_model", "component_model", "quantity", "stored_unit_price")
	for i, wi := range items {
		ins = ins.Values(orderID, i, string(wi.WorkType), wi.EquipmentCategory, wi.SetModel, wi.ComponentModel, wi.Quantity, wi.StoredUnitPrice)
	}

	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build work items insert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert work items: %w", err)
	}
	return nil
}

func (r *OrderRepo) saveQuote(ctx context.Context, orderID id.ID, quote *orders.Quote) error {
	if quote == nil {
		return nil
	}
	querier := r.tm.GetQuerier(ctx)

	headSQL, headArgs, err := r.builder().
		Insert("order_quotes").
		Columns("order_id", "profit_markup_rate").
		Values(orderID, quote.ProfitMarkupRate).
		ToSql()
	if err != nil {
		return fmt.Errorf("build quote insert: %w", err)
	}
	if _, err := querier.Exec(ctx, headSQL, headArgs...); err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}

	if len(quote.Lines) == 0 {
		return nil
	}
	ins := r.builder().
		Insert("order_quote_lines").
		Columns("order_id", "position", "kind", "name", "unit_price", "quantity")
	for i, l := range quote.Lines {
		ins = ins.Values(orderID, i, string(l.Kind), l.Name, l.UnitPrice, l.Quantity)
	}

	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build quote lines insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert quote lines: %w", err)
	}
	return nil
}
