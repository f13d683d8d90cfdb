package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/id"
	"frostdesk/internal/domain"
	"frostdesk/internal/domain/asrequest"
	"frostdesk/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ asrequest.Repository = (*ASRequestRepo)(nil)

// ASRequestRepo implements asrequest.Repository.
type ASRequestRepo struct {
	tm         *postgres.TxManager
	selectCols []string
}

// NewASRequestRepo creates the AS ticket repository.
func NewASRequestRepo(tm *postgres.TxManager) *ASRequestRepo {
	return &ASRequestRepo{
		tm:         tm,
		selectCols: postgres.ExtractDBColumns[asrequest.ASRequest](),
	}
}

func (r *ASRequestRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a ticket.
func (r *ASRequestRepo) Create(ctx context.Context, req *asrequest.ASRequest) error {
	data := postgres.StructToMap(req)
	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert("as_requests").
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build as_request insert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert as_request: %w", err)
	}
	return nil
}

// GetByID retrieves a ticket.
func (r *ASRequestRepo) GetByID(ctx context.Context, reqID id.ID) (*asrequest.ASRequest, error) {
	sql, args, err := r.builder().
		Select(r.selectCols...).
		From("as_requests").
		Where(squirrel.Eq{"id": reqID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build as_request query: %w", err)
	}

	req := &asrequest.ASRequest{}
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), req, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("as_request", reqID.String())
		}
		return nil, fmt.Errorf("get as_request: %w", err)
	}
	return req, nil
}

// Update rewrites a ticket with optimistic locking.
func (r *ASRequestRepo) Update(ctx context.Context, req *asrequest.ASRequest) error {
	data := postgres.StructToMap(req)
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
		Update("as_requests").
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": req.ID}).
		Where(squirrel.Eq{"version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build as_request update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update as_request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("as_request", req.ID.String())
	}
	return nil
}

// List retrieves tickets with filtering.
func (r *ASRequestRepo) List(ctx context.Context, listFilter domain.ListFilter) (domain.ListResult[*asrequest.ASRequest], error) {
	result := domain.ListResult[*asrequest.ASRequest]{
		Limit:  listFilter.Limit,
		Offset: listFilter.Offset,
	}

	q := r.builder().
		Select(r.selectCols...).
		From("as_requests")

	if listFilter.Search != "" {
		pattern := "%" + listFilter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"business_name": pattern},
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"affiliate": pattern},
			squirrel.ILike{"symptom": pattern},
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
		return result, fmt.Errorf("count as_requests: %w", err)
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
		return result, fmt.Errorf("list as_requests: %w", err)
	}
	return result, nil
}

// ListForSettlement retrieves tickets that are completed or settled and
// carry the given settlement month tag.
func (r *ASRequestRepo) ListForSettlement(ctx context.Context, monthTag string) ([]*asrequest.ASRequest, error) {
	sql, args, err := r.builder().
		Select(r.selectCols...).
		From("as_requests").
		Where(squirrel.Eq{"settlement_month": monthTag}).
		Where(squirrel.Eq{"status": []string{
			string(asrequest.StatusCompleted),
			string(asrequest.StatusSettled),
		}}).
		OrderBy("affiliate ASC", "number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build settlement query: %w", err)
	}

	var items []*asrequest.ASRequest
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list as_requests for settlement: %w", err)
	}
	return items, nil
}
