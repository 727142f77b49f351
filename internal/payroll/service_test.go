package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

type memoryPayrollRepo struct {
	groups     map[int64]*Group
	records    map[int64][]ProductionRecord
	statuses   map[string]Status
	nextRecID  int64
	setStatusN int
}

func newMemoryPayrollRepo() *memoryPayrollRepo {
	return &memoryPayrollRepo{
		groups:   make(map[int64]*Group),
		records:  make(map[int64][]ProductionRecord),
		statuses: make(map[string]Status),
	}
}

func statusKey(groupID int64, month Month) string {
	return fmt.Sprintf("%d/%s", groupID, month)
}

func (r *memoryPayrollRepo) GetGroup(ctx context.Context, groupID int64) (*Group, error) {
	g, ok := r.groups[groupID]
	if !ok {
		return nil, ErrGroupNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *memoryPayrollRepo) ListGroups(ctx context.Context) ([]Group, error) {
	var out []Group
	for _, g := range r.groups {
		out = append(out, *g)
	}
	return out, nil
}

func (r *memoryPayrollRepo) CreateRecord(ctx context.Context, rec ProductionRecord) (*ProductionRecord, error) {
	r.nextRecID++
	rec.ID = r.nextRecID
	r.records[rec.GroupID] = append(r.records[rec.GroupID], rec)
	return &rec, nil
}

func (r *memoryPayrollRepo) ListRecords(ctx context.Context, groupID int64, month Month) ([]ProductionRecord, error) {
	var out []ProductionRecord
	for _, rec := range r.records[groupID] {
		if month.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memoryPayrollRepo) GetStatus(ctx context.Context, groupID int64, month Month) (Status, error) {
	if s, ok := r.statuses[statusKey(groupID, month)]; ok {
		return s, nil
	}
	return StatusPending, nil
}

func (r *memoryPayrollRepo) SetStatus(ctx context.Context, groupID int64, month Month, status Status) error {
	r.setStatusN++
	r.statuses[statusKey(groupID, month)] = status
	return nil
}

type stubWorkerPrices map[string]money.Amount

func (p stubWorkerPrices) WorkerUnitPrice(ctx context.Context, code string) (money.Amount, bool, error) {
	price, ok := p[code]
	return price, ok, nil
}

func newPayrollService(t *testing.T, repo *memoryPayrollRepo) (*Service, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	prices := stubWorkerPrices{"2029": 45000, "2087": 50000}
	return NewService(repo, prices, cache, nil, slog.Default()), cache
}

func seedGroup(repo *memoryPayrollRepo) {
	repo.groups[1] = &Group{
		ID:   1,
		Name: "Ca Hanh",
		Members: []Member{
			{ID: 1, Name: "Hanh"},
			{ID: 2, Name: "Tuan Anh"},
		},
	}
}

func TestAddRecordSnapshotsFullRoster(t *testing.T) {
	repo := newMemoryPayrollRepo()
	seedGroup(repo)
	svc, _ := newPayrollService(t, repo)

	rec, err := svc.AddRecord(context.Background(), CreateRecordRequest{
		GroupID:     1,
		Date:        day(15),
		ProductCode: "2029",
		Quantity:    50,
	})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, rec.ActiveMemberIDs, "default resolves to current roster at creation time")
	require.Equal(t, money.Amount(45000), rec.UnitPrice, "worker price resolved from catalog")
}

func TestAddRecordExplicitSubset(t *testing.T) {
	repo := newMemoryPayrollRepo()
	seedGroup(repo)
	svc, _ := newPayrollService(t, repo)

	rec, err := svc.AddRecord(context.Background(), CreateRecordRequest{
		GroupID:         1,
		Date:            day(16),
		ProductCode:     "2087",
		Quantity:        70,
		ActiveMemberIDs: []int64{1},
	})
	require.NoError(t, err)
	require.Equal(t, []int64{1}, rec.ActiveMemberIDs)
}

func TestAddRecordUnknownMember(t *testing.T) {
	repo := newMemoryPayrollRepo()
	seedGroup(repo)
	svc, _ := newPayrollService(t, repo)

	_, err := svc.AddRecord(context.Background(), CreateRecordRequest{
		GroupID:         1,
		Date:            day(16),
		ProductCode:     "2029",
		Quantity:        10,
		ActiveMemberIDs: []int64{99},
	})
	require.ErrorIs(t, err, ErrUnknownMember)
}

func TestAddRecordUnknownProduct(t *testing.T) {
	repo := newMemoryPayrollRepo()
	seedGroup(repo)
	svc, _ := newPayrollService(t, repo)

	_, err := svc.AddRecord(context.Background(), CreateRecordRequest{
		GroupID:     1,
		Date:        day(16),
		ProductCode: "0000",
		Quantity:    10,
	})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestGroupSummaryMatchesExample(t *testing.T) {
	repo := newMemoryPayrollRepo()
	seedGroup(repo)
	svc, _ := newPayrollService(t, repo)
	ctx := context.Background()

	price := money.Amount(1000)
	_, err := svc.AddRecord(ctx, CreateRecordRequest{
		GroupID: 1, Date: day(15), ProductCode: "2029", UnitPrice: &price, Quantity: 50,
	})
	require.NoError(t, err)

	summary, err := svc.GroupSummary(ctx, 1, "2024-07")
	require.NoError(t, err)
	require.Equal(t, StatusPending, summary.Status)
	require.Equal(t, int64(50*QtyScale), summary.QuantityMilli)
	require.Equal(t, money.Amount(50000), summary.TotalSalary)
	require.Len(t, summary.Members, 2)
	for _, m := range summary.Members {
		require.Equal(t, int64(25*QtyScale), m.QuantityMilli)
		require.Equal(t, money.Amount(25000), m.Salary)
	}
}

func TestGroupSummaryUsesCache(t *testing.T) {
	repo := newMemoryPayrollRepo()
	seedGroup(repo)
	svc, _ := newPayrollService(t, repo)
	ctx := context.Background()

	price := money.Amount(1000)
	_, err := svc.AddRecord(ctx, CreateRecordRequest{
		GroupID: 1, Date: day(15), ProductCode: "2029", UnitPrice: &price, Quantity: 50,
	})
	require.NoError(t, err)

	first, err := svc.GroupSummary(ctx, 1, "2024-07")
	require.NoError(t, err)

	// Mutate the store behind the cache; the cached summary must win until a
	// bump invalidates it.
	repo.records[1][0].Quantity = 999
	cached, err := svc.GroupSummary(ctx, 1, "2024-07")
	require.NoError(t, err)
	require.Equal(t, first.QuantityMilli, cached.QuantityMilli)

	_, err = svc.AddRecord(ctx, CreateRecordRequest{
		GroupID: 1, Date: day(16), ProductCode: "2029", UnitPrice: &price, Quantity: 1,
	})
	require.NoError(t, err)

	fresh, err := svc.GroupSummary(ctx, 1, "2024-07")
	require.NoError(t, err)
	require.NotEqual(t, first.QuantityMilli, fresh.QuantityMilli)
}

func TestMarkPaidIdempotent(t *testing.T) {
	repo := newMemoryPayrollRepo()
	seedGroup(repo)
	svc, _ := newPayrollService(t, repo)
	ctx := context.Background()

	require.NoError(t, svc.MarkPaid(ctx, 1, "2024-07"))
	require.Equal(t, 1, repo.setStatusN)

	// Second MarkPaid is a no-op.
	require.NoError(t, svc.MarkPaid(ctx, 1, "2024-07"))
	require.Equal(t, 1, repo.setStatusN)

	require.NoError(t, svc.MarkPending(ctx, 1, "2024-07"))
	require.Equal(t, 2, repo.setStatusN)

	status, err := repo.GetStatus(ctx, 1, "2024-07")
	require.NoError(t, err)
	require.Equal(t, StatusPending, status)
}

func TestMarkPaidUnknownGroup(t *testing.T) {
	repo := newMemoryPayrollRepo()
	svc, _ := newPayrollService(t, repo)
	require.ErrorIs(t, svc.MarkPaid(context.Background(), 42, "2024-07"), ErrGroupNotFound)
}

func TestRefreshMonth(t *testing.T) {
	repo := newMemoryPayrollRepo()
	seedGroup(repo)
	repo.groups[2] = &Group{ID: 2, Name: "Ca Yen", Members: []Member{{ID: 3, Name: "Yen"}}}
	svc, _ := newPayrollService(t, repo)
	ctx := context.Background()

	price := money.Amount(500)
	_, err := svc.AddRecord(ctx, CreateRecordRequest{
		GroupID: 1, Date: day(15), ProductCode: "2029", UnitPrice: &price, Quantity: 10,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RefreshMonth(ctx, "2024-07"))

	summaries, err := svc.MonthlySummaries(ctx, "2024-07")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// The refresh must have written through to the cache: a record added
	// behind the service's back is invisible until the next version bump.
	repo.records[1] = append(repo.records[1], ProductionRecord{
		ID: 99, GroupID: 1, Date: day(16), ProductCode: "2029",
		UnitPrice: 500, Quantity: 5, ActiveMemberIDs: []int64{1},
	})
	cached, err := svc.MonthlySummaries(ctx, "2024-07")
	require.NoError(t, err)
	require.Equal(t, summaries, cached)
}

func TestDailyProductionsAggregatesAcrossGroups(t *testing.T) {
	repo := newMemoryPayrollRepo()
	seedGroup(repo)
	repo.groups[2] = &Group{ID: 2, Name: "Ca Yen", Members: []Member{{ID: 3, Name: "Yen"}}}
	svc, _ := newPayrollService(t, repo)
	ctx := context.Background()

	price := money.Amount(500)
	_, err := svc.AddRecord(ctx, CreateRecordRequest{
		GroupID: 1, Date: day(15), ProductCode: "2029", UnitPrice: &price, Quantity: 10,
	})
	require.NoError(t, err)
	_, err = svc.AddRecord(ctx, CreateRecordRequest{
		GroupID: 2, Date: day(15), ProductCode: "2029", UnitPrice: &price, Quantity: 25,
	})
	require.NoError(t, err)
	_, err = svc.AddRecord(ctx, CreateRecordRequest{
		GroupID: 1, Date: day(16), ProductCode: "2087", Quantity: 4,
	})
	require.NoError(t, err)

	rows, err := svc.DailyProductions(ctx, "2024-07")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.True(t, rows[0].Date.Equal(day(15)))
	require.Equal(t, "2029", rows[0].ProductCode)
	require.Equal(t, int64(35), rows[0].TotalQuantity)
	require.Equal(t, money.Amount(17500), rows[0].TotalSalary)
	require.Equal(t, map[int64]int64{1: 10, 2: 25}, rows[0].QuantityByGroup)

	require.Equal(t, "2087", rows[1].ProductCode)
	require.Equal(t, money.Amount(200000), rows[1].TotalSalary, "price resolved from catalog when not set explicitly")
}

func TestDailyProductionsSplitsMixedPrices(t *testing.T) {
	repo := newMemoryPayrollRepo()
	seedGroup(repo)
	svc, _ := newPayrollService(t, repo)
	ctx := context.Background()

	oldPrice, newPrice := money.Amount(400), money.Amount(500)
	_, err := svc.AddRecord(ctx, CreateRecordRequest{
		GroupID: 1, Date: day(15), ProductCode: "2029", UnitPrice: &oldPrice, Quantity: 10,
	})
	require.NoError(t, err)
	_, err = svc.AddRecord(ctx, CreateRecordRequest{
		GroupID: 1, Date: day(15), ProductCode: "2029", UnitPrice: &newPrice, Quantity: 10,
	})
	require.NoError(t, err)

	rows, err := svc.DailyProductions(ctx, "2024-07")
	require.NoError(t, err)
	require.Len(t, rows, 2, "same day and product but different prices stay separate")
	require.Equal(t, money.Amount(9000), rows[0].TotalSalary+rows[1].TotalSalary)
}
