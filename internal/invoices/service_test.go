package invoices

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

type memoryInvoiceRepo struct {
	nextID   int64
	invoices map[int64]Invoice
}

func newMemoryInvoiceRepo() *memoryInvoiceRepo {
	return &memoryInvoiceRepo{nextID: 1, invoices: make(map[int64]Invoice)}
}

func (r *memoryInvoiceRepo) Create(_ context.Context, inv Invoice) (int64, error) {
	for _, existing := range r.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return 0, ErrDuplicateNumber
		}
	}
	inv.ID = r.nextID
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	r.nextID++
	r.invoices[inv.ID] = inv
	return inv.ID, nil
}

func (r *memoryInvoiceRepo) Get(_ context.Context, id int64) (*Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &inv, nil
}

func (r *memoryInvoiceRepo) List(_ context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	var out []Invoice
	for _, inv := range r.invoices {
		if req.Type != nil && string(inv.Type) != *req.Type {
			continue
		}
		if req.Status != nil && string(inv.Status) != *req.Status {
			continue
		}
		if req.PartyID != nil && inv.PartyID != *req.PartyID {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := len(out)
	if req.Limit > 0 && len(out) > req.Limit {
		out = out[:req.Limit]
	}
	return out, total, nil
}

func (r *memoryInvoiceRepo) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	inv, ok := r.invoices[id]
	if !ok {
		return ErrNotFound
	}
	for col, val := range updates {
		switch col {
		case "due_date":
			v := val.(time.Time)
			inv.DueDate = &v
		case "amount_paid":
			inv.AmountPaid = val.(money.Amount)
		case "status":
			inv.Status = InvoiceStatus(val.(string))
		case "notes":
			v := val.(string)
			inv.Notes = &v
		}
	}
	inv.UpdatedAt = time.Now()
	r.invoices[id] = inv
	return nil
}

func (r *memoryInvoiceRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.invoices[id]; !ok {
		return ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func TestCreateInvoiceTotalFromItems(t *testing.T) {
	svc := NewService(newMemoryInvoiceRepo())

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		InvoiceNumber: "HDM001",
		CreationDate:  "2024-07-01",
		Type:          "purchase",
		PartyID:       1,
		PartyName:     "Hung Yen Textiles",
		Items: []ItemRequest{
			{Description: "Cotton roll", Quantity: 10, UnitPrice: 450000},
			{Description: "Buttons", Quantity: 200, UnitPrice: 500},
		},
	})
	require.NoError(t, err)
	require.Equal(t, money.Amount(4600000), inv.TotalAmount)
	require.Equal(t, money.Amount(4500000), inv.Items[0].Total)
	require.Equal(t, StatusUnpaid, inv.Status)
}

func TestCreateInvoiceStatusDerivedFromPayment(t *testing.T) {
	svc := NewService(newMemoryInvoiceRepo())

	total := int64(1000000)
	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		InvoiceNumber: "HDM002",
		CreationDate:  "2024-07-10",
		Type:          "purchase",
		PartyID:       2,
		PartyName:     "Phu Lieu XYZ",
		TotalAmount:   &total,
		AmountPaid:    500000,
	})
	require.NoError(t, err)
	require.Equal(t, StatusPartiallyPaid, inv.Status)

	_, err = svc.Create(context.Background(), CreateInvoiceRequest{
		InvoiceNumber: "HDM003",
		CreationDate:  "2024-07-10",
		Type:          "purchase",
		PartyID:       2,
		PartyName:     "Phu Lieu XYZ",
		TotalAmount:   &total,
		AmountPaid:    1500000,
	})
	require.ErrorIs(t, err, ErrOverpaid)
}

func TestCreateInvoiceDuplicateNumber(t *testing.T) {
	svc := NewService(newMemoryInvoiceRepo())

	total := int64(100)
	req := CreateInvoiceRequest{
		InvoiceNumber: "HDB001",
		CreationDate:  "2024-07-05",
		Type:          "sale",
		PartyID:       1,
		PartyName:     "Anh Tuan",
		TotalAmount:   &total,
	}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrDuplicateNumber)
}

func TestUpdateInvoicePaymentRederivesStatus(t *testing.T) {
	repo := newMemoryInvoiceRepo()
	svc := NewService(repo)

	total := int64(5400000)
	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		InvoiceNumber: "HDB002",
		CreationDate:  "2024-07-05",
		Type:          "sale",
		PartyID:       1,
		PartyName:     "Anh Tuan",
		TotalAmount:   &total,
	})
	require.NoError(t, err)
	require.Equal(t, StatusUnpaid, inv.Status)

	paid := int64(5400000)
	updated, err := svc.Update(context.Background(), inv.ID, UpdateInvoiceRequest{AmountPaid: &paid})
	require.NoError(t, err)
	require.Equal(t, StatusPaid, updated.Status)
	require.Equal(t, money.Amount(5400000), updated.AmountPaid)

	// Explicit status wins over derivation.
	overdue := "overdue"
	zero := int64(0)
	updated, err = svc.Update(context.Background(), inv.ID, UpdateInvoiceRequest{AmountPaid: &zero, Status: &overdue})
	require.NoError(t, err)
	require.Equal(t, StatusOverdue, updated.Status)
}

func TestListInvoicesFilters(t *testing.T) {
	svc := NewService(newMemoryInvoiceRepo())

	total := int64(100)
	for _, req := range []CreateInvoiceRequest{
		{InvoiceNumber: "A1", CreationDate: "2024-07-01", Type: "purchase", PartyID: 1, PartyName: "S1", TotalAmount: &total},
		{InvoiceNumber: "A2", CreationDate: "2024-07-02", Type: "sale", PartyID: 2, PartyName: "C1", TotalAmount: &total},
		{InvoiceNumber: "A3", CreationDate: "2024-07-03", Type: "sale", PartyID: 2, PartyName: "C1", TotalAmount: &total, AmountPaid: 100},
	} {
		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
	}

	saleType := "sale"
	outs, totalCount, err := svc.List(context.Background(), ListInvoicesRequest{Type: &saleType, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 2, totalCount)
	require.Len(t, outs, 2)

	paid := "paid"
	outs, totalCount, err = svc.List(context.Background(), ListInvoicesRequest{Status: &paid, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, totalCount)
	require.Equal(t, "A3", outs[0].InvoiceNumber)
}
