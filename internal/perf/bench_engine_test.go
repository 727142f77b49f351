package perf

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stitchdesk/stitchdesk/internal/ledger"
	"github.com/stitchdesk/stitchdesk/internal/money"
	"github.com/stitchdesk/stitchdesk/internal/payroll"
)

// The console appends a handful of transactions per customer per day, but
// replay runs over whole histories on every verify call, so the hot paths
// worth watching are Apply, Replay and the payroll split.

func BenchmarkLedgerApply(b *testing.B) {
	bal := ledger.Balances{Debt: 1_500_000, Deposit: 200_000}
	intent := ledger.ShipmentIntent{
		ProductCode:    "2029",
		Quantity:       30,
		UnitPrice:      money.Amount(45_000),
		DepositApplied: money.Amount(50_000),
	}
	meta := ledger.EntryMeta{ID: uuid.New(), AccountID: 1, At: time.Now()}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, _, err := ledger.Apply(bal, intent, meta); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLedgerReplay(b *testing.B) {
	opening := ledger.Balances{Debt: 100_000}
	bal := opening
	entries := make([]ledger.Entry, 0, 1000)
	for i := 0; i < 1000; i++ {
		entry, next, err := ledger.Apply(bal, ledger.PaymentIntent{Amount: 10, Method: ledger.MethodCash}, ledger.EntryMeta{
			ID:        uuid.New(),
			AccountID: 1,
			At:        time.Now(),
		})
		if err != nil {
			b.Fatal(err)
		}
		entries = append(entries, entry)
		bal = next
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ledger.Replay(opening, entries); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPayrollAllocate(b *testing.B) {
	roster := make([]payroll.Member, 7)
	for i := range roster {
		roster[i] = payroll.Member{ID: int64(i + 1)}
	}
	rec := payroll.ProductionRecord{
		ID:        1,
		Quantity:  500,
		UnitPrice: money.Amount(4_500),
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := payroll.Allocate(rec, roster); err != nil {
			b.Fatal(err)
		}
	}
}
