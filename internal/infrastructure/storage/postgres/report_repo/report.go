// Package report_repo provides PostgreSQL persistence for expense report
// snapshots: header with totals, line items, and per-affiliate groups.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/id"
	"frostdesk/internal/domain/settlement"
	"frostdesk/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ settlement.Repository = (*ReportRepo)(nil)

var lineCols = []string{
	"line_no", "business_name", "affiliate", "supplier", "item_type", "spec",
	"quantity", "list_price", "discount_rate",
	"purchase_unit_price", "purchase_total_price", "margin_rate",
	"sales_unit_price", "sales_total_price",
	"front_margin_unit", "front_margin_total",
	"incentive_grade_rate", "incentive_grade_amount", "incentive_item_amount",
	"total_margin", "source", "pricing_incomplete",
}

var groupCols = []string{"affiliate", "raw_sum", "subtotal", "grand_total", "vat"}

// ReportRepo implements settlement.Repository.
type ReportRepo struct {
	tm         *postgres.TxManager
	headerCols []string
}

// NewReportRepo creates the expense report repository.
func NewReportRepo(tm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		tm:         tm,
		headerCols: postgres.ExtractDBColumns[settlement.ExpenseReport](),
	}
}

func (r *ReportRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetByPeriod retrieves the report for a (year, month) with its items,
// totals and groups.
func (r *ReportRepo) GetByPeriod(ctx context.Context, year int, month time.Month) (*settlement.ExpenseReport, error) {
	sql, args, err := r.builder().
		Select(r.headerCols...).
		From("expense_reports").
		Where(squirrel.Eq{"year": year, "month": int(month)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build report query: %w", err)
	}

	querier := r.tm.GetQuerier(ctx)
	report := &settlement.ExpenseReport{}
	if err := pgxscan.Get(ctx, querier, report, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("expense_report", fmt.Sprintf("%04d-%02d", year, int(month)))
		}
		return nil, fmt.Errorf("get report: %w", err)
	}

	if err := r.loadTotals(ctx, report); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, report); err != nil {
		return nil, err
	}
	if err := r.loadGroups(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Create persists a freshly generated snapshot.
func (r *ReportRepo) Create(ctx context.Context, report *settlement.ExpenseReport) error {
	data := postgres.StructToMap(report)
	filtered := make(map[string]any, len(r.headerCols))
	for _, col := range r.headerCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}
	mergeTotals(filtered, report.Totals)

	sql, args, err := r.builder().
		Insert("expense_reports").
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build report insert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	if err := r.saveItems(ctx, report.ID, report.Items); err != nil {
		return err
	}
	return r.saveGroups(ctx, report.ID, report.Groups)
}

// Update rewrites the report's items, totals, groups and status.
func (r *ReportRepo) Update(ctx context.Context, report *settlement.ExpenseReport) error {
	data := postgres.StructToMap(report)
	version, _ := data["version"].(int)

	filtered := make(map[string]any, len(r.headerCols))
	for _, col := range r.headerCols {
		if col == "id" || col == "version" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}
	mergeTotals(filtered, report.Totals)

	sql, args, err := r.builder().
		Update("expense_reports").
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": report.ID}).
		Where(squirrel.Eq{"version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build report update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("expense_report", report.ID.String())
	}

	if err := r.deleteParts(ctx, report.ID); err != nil {
		return err
	}
	if err := r.saveItems(ctx, report.ID, report.Items); err != nil {
		return err
	}
	return r.saveGroups(ctx, report.ID, report.Groups)
}

// Delete removes the report and its parts.
func (r *ReportRepo) Delete(ctx context.Context, reportID id.ID) error {
	if err := r.deleteParts(ctx, reportID); err != nil {
		return err
	}

	sql, args, err := r.builder().
		Delete("expense_reports").
		Where(squirrel.Eq{"id": reportID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build report delete: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("expense_report", reportID.String())
	}
	return nil
}

// --- parts ---

func mergeTotals(m map[string]any, t settlement.Totals) {
	m["purchase_total"] = t.PurchaseTotal
	m["sales_total"] = t.SalesTotal
	m["front_margin_total"] = t.FrontMarginTotal
	m["incentive_grade_total"] = t.IncentiveGradeTotal
	m["total_margin"] = t.TotalMargin
}

func (r *ReportRepo) loadTotals(ctx context.Context, report *settlement.ExpenseReport) error {
	sql, args, err := r.builder().
		Select("purchase_total", "sales_total", "front_margin_total", "incentive_grade_total", "total_margin").
		From("expense_reports").
		Where(squirrel.Eq{"id": report.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build totals query: %w", err)
	}

	t := &report.Totals
	err = r.tm.GetQuerier(ctx).QueryRow(ctx, sql, args...).
		Scan(&t.PurchaseTotal, &t.SalesTotal, &t.FrontMarginTotal, &t.IncentiveGradeTotal, &t.TotalMargin)
	if err != nil {
		return fmt.Errorf("load totals: %w", err)
	}
	return nil
}

func (r *ReportRepo) loadItems(ctx context.Context, report *settlement.ExpenseReport) error {
	sql, args, err := r.builder().
		Select(lineCols...).
		From("report_line_items").
		Where(squirrel.Eq{"report_id": report.ID}).
		OrderBy("line_no ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build items query: %w", err)
	}

	report.Items = nil
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &report.Items, sql, args...); err != nil {
		return fmt.Errorf("load report items: %w", err)
	}
	return nil
}

func (r *ReportRepo) loadGroups(ctx context.Context, report *settlement.ExpenseReport) error {
	sql, args, err := r.builder().
		Select(groupCols...).
		From("report_groups").
		Where(squirrel.Eq{"report_id": report.ID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build groups query: %w", err)
	}

	report.Groups = nil
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &report.Groups, sql, args...); err != nil {
		return fmt.Errorf("load report groups: %w", err)
	}
	return nil
}

func (r *ReportRepo) deleteParts(ctx context.Context, reportID id.ID) error {
	querier := r.tm.GetQuerier(ctx)
	for _, table := range []string{"report_line_items", "report_groups"} {
		sql, args, err := r.builder().
			Delete(table).
			Where(squirrel.Eq{"report_id": reportID}).
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

func (r *ReportRepo) saveItems(ctx context.Context, reportID id.ID, items []settlement.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	cols := append([]string{"report_id"}, lineCols...)
	ins := r.builder().Insert("report_line_items").Columns(cols...)
	for _, li := range items {
		ins = ins.Values(
			reportID,
			li.LineNo, li.BusinessName, li.Affiliate, li.Supplier, li.ItemType, li.Spec,
			li.Quantity, li.ListPrice, li.DiscountRate,
			li.PurchaseUnitPrice, li.PurchaseTotalPrice, li.MarginRate,
			li.SalesUnitPrice, li.SalesTotalPrice,
			li.FrontMarginUnit, li.FrontMarginTotal,
			li.IncentiveGradeRate, li.IncentiveGradeAmount, li.IncentiveItemAmount,
			li.TotalMargin, string(li.Source), li.PricingIncomplete,
		)
	}

	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build items insert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert report items: %w", err)
	}
	return nil
}

func (r *ReportRepo) saveGroups(ctx context.Context, reportID id.ID, groups []settlement.AffiliateGroup) error {
	if len(groups) == 0 {
		return nil
	}

	cols := append([]string{"report_id", "position"}, groupCols...)
	ins := r.builder().Insert("report_groups").Columns(cols...)
	for i, g := range groups {
		ins = ins.Values(reportID, i, g.Affiliate, g.RawSum, g.Subtotal, g.GrandTotal, g.VAT)
	}

	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build groups insert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert report groups: %w", err)
	}
	return nil
}
