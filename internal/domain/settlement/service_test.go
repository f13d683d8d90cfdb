package settlement

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/id"
	"frostdesk/internal/domain/affiliate"
	"frostdesk/internal/domain/asrequest"
	"frostdesk/internal/domain/orders"
	"frostdesk/internal/domain/pricetable"
)

// --- in-memory fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memReportRepo struct {
	byPeriod map[string]*ExpenseReport
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{byPeriod: make(map[string]*ExpenseReport)}
}

func periodKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

func (r *memReportRepo) GetByPeriod(ctx context.Context, year int, month time.Month) (*ExpenseReport, error) {
	rep, ok := r.byPeriod[periodKey(year, month)]
	if !ok {
		return nil, apperror.NewNotFound("expense_report", periodKey(year, month))
	}
	return rep, nil
}

func (r *memReportRepo) Create(ctx context.Context, report *ExpenseReport) error {
	r.byPeriod[periodKey(report.Year, report.Month)] = report
	return nil
}

func (r *memReportRepo) Update(ctx context.Context, report *ExpenseReport) error {
	r.byPeriod[periodKey(report.Year, report.Month)] = report
	return nil
}

func (r *memReportRepo) Delete(ctx context.Context, reportID id.ID) error {
	for k, rep := range r.byPeriod {
		if rep.ID == reportID {
			delete(r.byPeriod, k)
		}
	}
	return nil
}

type memArchiver struct {
	archived []*ExpenseReport
}

func (a *memArchiver) Archive(ctx context.Context, report *ExpenseReport) error {
	a.archived = append(a.archived, report)
	return nil
}

type memSources struct {
	orders  []*orders.Order
	tickets []*asrequest.ASRequest
	prices  pricetable.Lookup
}

func (s *memSources) ListForMonth(ctx context.Context, year int, month time.Month) ([]*orders.Order, error) {
	return s.orders, nil
}

func (s *memSources) ListForSettlement(ctx context.Context, year int, month time.Month) ([]*asrequest.ASRequest, error) {
	return s.tickets, nil
}

func (s *memSources) LookupForYear(ctx context.Context, year int) (pricetable.Lookup, error) {
	return s.prices, nil
}

func (s *memSources) Ordering(ctx context.Context) (affiliate.Ordering, error) {
	return testOrdering(), nil
}

func newTestService(src *memSources) (*Service, *memReportRepo, *memArchiver) {
	repo := newMemReportRepo()
	arch := &memArchiver{}
	svc := NewService(repo, arch, src, src, src, src, fakeTxManager{})
	return svc, repo, arch
}

func monthOrder(businessName string) *orders.Order {
	o := orders.NewOrder("CoolAir", businessName)
	o.Status = orders.StatusInstalled
	o.WorkItems = []orders.WorkItem{
		{WorkType: orders.WorkNewInstall, SetModel: "AC-100", Quantity: 1},
	}
	return o
}

// --- tests ---

func TestService_Generate(t *testing.T) {
	ctx := context.Background()
	src := &memSources{
		orders:  []*orders.Order{monthOrder("Lee Cafe")},
		tickets: []*asrequest.ASRequest{asTicket("FrostTech", 21_000)},
		prices:  testPrices(),
	}
	svc, _, _ := newTestService(src)

	report, err := svc.Generate(ctx, 2025, time.March)
	require.NoError(t, err)
	require.Len(t, report.Items, 2)
	assert.Equal(t, ReportGenerated, report.Status)
	assert.NotEmpty(t, report.Groups)

	got, err := svc.Get(ctx, 2025, time.March)
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)
}

func TestService_Generate_AlreadyExists(t *testing.T) {
	ctx := context.Background()
	src := &memSources{prices: testPrices()}
	svc, _, _ := newTestService(src)

	_, err := svc.Generate(ctx, 2025, time.March)
	require.NoError(t, err)

	_, err = svc.Generate(ctx, 2025, time.March)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeReportExists, appErr.Code)
}

func TestService_Get_NotGenerated(t *testing.T) {
	svc, _, _ := newTestService(&memSources{prices: testPrices()})

	_, err := svc.Get(context.Background(), 2025, time.July)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeReportNotFound, appErr.Code)
}

func TestService_Rewrite_Destructive(t *testing.T) {
	ctx := context.Background()
	src := &memSources{
		orders: []*orders.Order{monthOrder("Old Customer")},
		prices: testPrices(),
	}
	svc, _, arch := newTestService(src)

	old, err := svc.Generate(ctx, 2025, time.March)
	require.NoError(t, err)
	require.Equal(t, "Old Customer", old.Items[0].BusinessName)

	// Live data changes between generation and rewrite.
	src.orders = []*orders.Order{monthOrder("New Customer")}

	rewritten, err := svc.Rewrite(ctx, 2025, time.March)
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, rewritten.ID)

	// The old snapshot's identifying data no longer appears in the
	// reloaded report.
	reloaded, err := svc.Get(ctx, 2025, time.March)
	require.NoError(t, err)
	for _, li := range reloaded.Items {
		assert.NotEqual(t, "Old Customer", li.BusinessName)
	}

	// The discarded snapshot went to the archive.
	require.Len(t, arch.archived, 1)
	assert.Equal(t, old.ID, arch.archived[0].ID)
}

func TestService_Rewrite_RequiresExisting(t *testing.T) {
	svc, _, _ := newTestService(&memSources{prices: testPrices()})

	_, err := svc.Rewrite(context.Background(), 2025, time.March)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeReportNotFound, appErr.Code)
}

func TestService_SaveEdited(t *testing.T) {
	ctx := context.Background()
	src := &memSources{
		orders: []*orders.Order{monthOrder("Lee Cafe")},
		prices: testPrices(),
	}
	svc, _, _ := newTestService(src)

	report, err := svc.Generate(ctx, 2025, time.March)
	require.NoError(t, err)

	// Edit: tweak the discount rate and append a manual row.
	edited := make([]LineItem, len(report.Items))
	copy(edited, report.Items)
	edited[0].DiscountRate = 0.45
	edited = append(edited, LineItem{
		BusinessName:      "Manual Entry",
		Affiliate:         "Polar",
		ItemType:          "equipment",
		Quantity:          1,
		PurchaseUnitPrice: 100_000,
		SalesUnitPrice:    150_000,
		Source:            SourceManual,
	})

	saved, err := svc.SaveEdited(ctx, 2025, time.March, edited)
	require.NoError(t, err)
	assert.Equal(t, ReportEdited, saved.Status)
	require.Len(t, saved.Items, len(edited))

	// Derived fields re-run per row.
	first := saved.Items[0]
	assert.Equal(t, int64(550_000), first.PurchaseUnitPrice)
	manual := saved.Items[len(saved.Items)-1]
	assert.Equal(t, int64(50_000), manual.FrontMarginTotal)
	assert.Equal(t, len(saved.Items), manual.LineNo)

	// Totals and groups recomputed.
	assert.Equal(t, SumTotals(saved.Items), saved.Totals)
}
