package customers

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

type memoryCustomerRepo struct {
	nextID    int64
	customers map[int64]Customer
	withEntry map[int64]bool
}

func newMemoryCustomerRepo() *memoryCustomerRepo {
	return &memoryCustomerRepo{
		nextID:    1,
		customers: make(map[int64]Customer),
		withEntry: make(map[int64]bool),
	}
}

func (r *memoryCustomerRepo) Create(_ context.Context, c Customer) (int64, error) {
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.nextID++
	r.customers[c.ID] = c
	return c.ID, nil
}

func (r *memoryCustomerRepo) Get(_ context.Context, id int64) (*Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *memoryCustomerRepo) List(_ context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	var out []Customer
	for _, c := range r.customers {
		if req.Search != nil && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(*req.Search)) {
			continue
		}
		if req.Building != nil && (c.Building == nil || *c.Building != *req.Building) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	total := len(out)
	if req.Offset < len(out) {
		out = out[req.Offset:]
	} else {
		out = nil
	}
	if req.Limit > 0 && len(out) > req.Limit {
		out = out[:req.Limit]
	}
	return out, total, nil
}

func (r *memoryCustomerRepo) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	c, ok := r.customers[id]
	if !ok {
		return ErrNotFound
	}
	for col, val := range updates {
		v := val.(string)
		switch col {
		case "name":
			c.Name = v
		case "building":
			c.Building = &v
		case "shop_number":
			c.ShopNumber = &v
		case "phone":
			c.Phone = &v
		case "notes":
			c.Notes = &v
		}
	}
	c.UpdatedAt = time.Now()
	r.customers[id] = c
	return nil
}

func (r *memoryCustomerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.customers[id]; !ok {
		return ErrNotFound
	}
	if r.withEntry[id] {
		return ErrHasEntries
	}
	delete(r.customers, id)
	return nil
}

func strPtr(v string) *string { return &v }

func TestCreateCustomerSeedsBalances(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())

	created, err := svc.Create(context.Background(), CreateCustomerRequest{
		Name:        "Anna",
		Building:    strPtr("A1"),
		ShopNumber:  strPtr("214"),
		Currency:    "RUB",
		OpeningDebt: 10000,
	})
	require.NoError(t, err)
	require.Equal(t, money.RUB, created.Currency)
	require.Equal(t, money.Amount(10000), created.OpeningDebt)
	require.Equal(t, money.Amount(10000), created.DebtBalance)
	require.Equal(t, money.Amount(0), created.DepositBalance)
}

func TestCreateCustomerRejectsUnknownCurrency(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())

	_, err := svc.Create(context.Background(), CreateCustomerRequest{
		Name:     "Anna",
		Currency: "USD",
	})
	require.ErrorIs(t, err, money.ErrUnknownCurrency)
}

func TestUpdateCustomerPartial(t *testing.T) {
	repo := newMemoryCustomerRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateCustomerRequest{
		Name:     "Anna",
		Phone:    strPtr("0901234567"),
		Currency: "VND",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdateCustomerRequest{
		Notes: strPtr("prefers morning delivery"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Notes)
	require.Equal(t, "prefers morning delivery", *updated.Notes)
	require.NotNil(t, updated.Phone)
	require.Equal(t, "0901234567", *updated.Phone)
}

func TestListCustomersByBuilding(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())

	for _, c := range []CreateCustomerRequest{
		{Name: "Anna", Building: strPtr("A1"), Currency: "VND"},
		{Name: "Boris", Building: strPtr("A1"), Currency: "RUB"},
		{Name: "Chau", Building: strPtr("B3"), Currency: "VND"},
	} {
		_, err := svc.Create(context.Background(), c)
		require.NoError(t, err)
	}

	customers, total, err := svc.List(context.Background(), ListCustomersRequest{
		Building: strPtr("A1"),
		Limit:    10,
	})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, customers, 2)
}

func TestDeleteCustomerWithLedgerHistory(t *testing.T) {
	repo := newMemoryCustomerRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "Anna", Currency: "VND"})
	require.NoError(t, err)
	repo.withEntry[created.ID] = true

	err = svc.Delete(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrHasEntries)

	err = svc.Delete(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}
