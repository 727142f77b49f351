package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

type memoryLedgerRepo struct {
	accounts map[int64]*Account
	entries  map[int64][]Entry
}

func newMemoryLedgerRepo() *memoryLedgerRepo {
	return &memoryLedgerRepo{
		accounts: make(map[int64]*Account),
		entries:  make(map[int64][]Entry),
	}
}

func (r *memoryLedgerRepo) addAccount(id int64, currency money.Currency, openingDebt money.Amount) {
	r.accounts[id] = &Account{
		ID:          id,
		Currency:    currency,
		OpeningDebt: openingDebt,
		Balances:    Balances{Debt: openingDebt},
	}
}

func (r *memoryLedgerRepo) GetAccount(ctx context.Context, accountID int64) (*Account, error) {
	acc, ok := r.accounts[accountID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	copied := *acc
	return &copied, nil
}

func (r *memoryLedgerRepo) AppendEntry(ctx context.Context, expected Balances, entry Entry, after Balances) error {
	acc, ok := r.accounts[entry.AccountID]
	if !ok {
		return ErrAccountNotFound
	}
	if acc.Balances != expected {
		return ErrStaleBalance
	}
	r.entries[entry.AccountID] = append(r.entries[entry.AccountID], entry)
	acc.Balances = after
	return nil
}

func (r *memoryLedgerRepo) ListEntries(ctx context.Context, accountID int64, from, to *time.Time) ([]Entry, error) {
	var out []Entry
	for _, e := range r.entries[accountID] {
		if from != nil && e.At.Before(*from) {
			continue
		}
		if to != nil && e.At.After(*to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type stubPrices struct {
	prices map[string]money.Amount
}

func (p stubPrices) CustomerUnitPrice(ctx context.Context, code string) (money.Amount, bool, error) {
	price, ok := p.prices[code]
	return price, ok, nil
}

func newTestService(repo *memoryLedgerRepo) *Service {
	prices := stubPrices{prices: map[string]money.Amount{"2029": 540, "1989": 200}}
	now := time.Date(2024, 7, 20, 12, 0, 0, 0, time.UTC)
	return NewService(repo, prices,
		WithClock(func() time.Time { now = now.Add(time.Minute); return now }),
		WithIDGenerator(uuid.New),
	)
}

func TestAppendTransactionResolvesCatalogPrice(t *testing.T) {
	repo := newMemoryLedgerRepo()
	repo.addAccount(1, money.RUB, 10000)
	svc := newTestService(repo)

	entry, bal, err := svc.AppendTransaction(context.Background(), AppendRequest{
		AccountID: 1,
		Intent:    ShipmentIntent{ProductCode: "2029", Quantity: 50},
	})
	require.NoError(t, err)
	require.Equal(t, money.Amount(540), entry.Shipment.UnitPrice)
	require.Equal(t, money.Amount(27000), entry.Shipment.GoodsValue)
	require.Equal(t, money.Amount(37000), bal.Debt)
}

func TestAppendTransactionUnknownProduct(t *testing.T) {
	repo := newMemoryLedgerRepo()
	repo.addAccount(1, money.RUB, 0)
	svc := newTestService(repo)

	_, _, err := svc.AppendTransaction(context.Background(), AppendRequest{
		AccountID: 1,
		Intent:    ShipmentIntent{ProductCode: "9999", Quantity: 10},
	})
	require.ErrorIs(t, err, ErrProductNotFound)
	require.Empty(t, repo.entries[1], "rejected intent must persist nothing")
}

func TestAppendTransactionUnknownAccount(t *testing.T) {
	svc := newTestService(newMemoryLedgerRepo())
	_, _, err := svc.AppendTransaction(context.Background(), AppendRequest{
		AccountID: 404,
		Intent:    PaymentIntent{Amount: 100},
	})
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAppendTransactionStaleBalance(t *testing.T) {
	repo := newMemoryLedgerRepo()
	repo.addAccount(1, money.RUB, 10000)
	svc := newTestService(repo)

	stale := money.Amount(9000)
	_, _, err := svc.AppendTransaction(context.Background(), AppendRequest{
		AccountID:    1,
		Intent:       PaymentIntent{Amount: 100},
		ExpectedDebt: &stale,
	})
	require.ErrorIs(t, err, ErrStaleBalance)

	fresh := money.Amount(10000)
	_, bal, err := svc.AppendTransaction(context.Background(), AppendRequest{
		AccountID:    1,
		Intent:       PaymentIntent{Amount: 100},
		ExpectedDebt: &fresh,
	})
	require.NoError(t, err)
	require.Equal(t, money.Amount(9900), bal.Debt)
}

func TestHistoryAndVerify(t *testing.T) {
	repo := newMemoryLedgerRepo()
	repo.addAccount(1, money.RUB, 10000)
	svc := newTestService(repo)
	ctx := context.Background()

	steps := []Intent{
		ShipmentIntent{ProductCode: "2029", Quantity: 50},
		PaymentIntent{Amount: 20000, Method: MethodCash},
		DepositIntent{Change: 5000, Method: MethodCard, ProductCode: "1989"},
	}
	for _, in := range steps {
		_, _, err := svc.AppendTransaction(ctx, AppendRequest{AccountID: 1, Intent: in})
		require.NoError(t, err)
	}

	entries, err := svc.History(ctx, 1, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, KindShipment, entries[0].Kind)
	require.Equal(t, KindPayment, entries[1].Kind)
	require.Equal(t, KindDeposit, entries[2].Kind)

	debt, err := svc.CurrentDebt(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, money.Amount(17000), debt)

	deposit, err := svc.CurrentDeposit(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, money.Amount(5000), deposit)

	require.NoError(t, svc.Verify(ctx, 1))
}

func TestHistoryDateRange(t *testing.T) {
	repo := newMemoryLedgerRepo()
	repo.addAccount(1, money.VND, 0)
	svc := newTestService(repo)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := svc.AppendTransaction(ctx, AppendRequest{AccountID: 1, Intent: DepositIntent{Change: 1000}})
		require.NoError(t, err)
	}

	all, err := svc.History(ctx, 1, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 5)

	from := all[2].At
	bounded, err := svc.History(ctx, 1, &from, nil)
	require.NoError(t, err)
	require.Len(t, bounded, 3)
}
