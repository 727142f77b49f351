package catalog

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

type memoryCatalogRepo struct {
	nextID   int64
	products map[int64]Product
}

func newMemoryCatalogRepo() *memoryCatalogRepo {
	return &memoryCatalogRepo{nextID: 1, products: make(map[int64]Product)}
}

func (r *memoryCatalogRepo) Create(_ context.Context, p Product) (*Product, error) {
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.nextID++
	r.products[p.ID] = p
	return &p, nil
}

func (r *memoryCatalogRepo) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	p, ok := r.products[id]
	if !ok {
		return ErrNotFound
	}
	for col, val := range updates {
		switch col {
		case "description":
			v := val.(string)
			p.Description = &v
		case "fabric_type":
			v := val.(string)
			p.FabricType = &v
		case "worker_price":
			p.WorkerPrice = money.Amount(val.(int64))
		case "customer_price":
			v := money.Amount(val.(int64))
			p.CustomerPrice = &v
		case "image_url":
			v := val.(string)
			p.ImageURL = &v
		}
	}
	p.UpdatedAt = time.Now()
	r.products[id] = p
	return nil
}

func (r *memoryCatalogRepo) Get(_ context.Context, id int64) (*Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *memoryCatalogRepo) GetByCode(_ context.Context, code string) (*Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryCatalogRepo) List(_ context.Context, req ListProductsRequest) ([]Product, int, error) {
	var out []Product
	for _, p := range r.products {
		if req.Search != nil && !strings.Contains(strings.ToLower(p.Code), strings.ToLower(*req.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
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

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func TestCreateProductRejectsDuplicateCode(t *testing.T) {
	svc := NewService(newMemoryCatalogRepo())

	_, err := svc.Create(context.Background(), CreateProductRequest{Code: "2029", WorkerPrice: 200})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateProductRequest{Code: "2029", WorkerPrice: 250})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUpdateProductAppliesPartialChanges(t *testing.T) {
	svc := NewService(newMemoryCatalogRepo())

	created, err := svc.Create(context.Background(), CreateProductRequest{
		Code:        "1989",
		WorkerPrice: 200,
		Description: strPtr("summer dress"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdateProductRequest{
		WorkerPrice:   int64Ptr(220),
		CustomerPrice: int64Ptr(540),
	})
	require.NoError(t, err)
	require.Equal(t, money.Amount(220), updated.WorkerPrice)
	require.NotNil(t, updated.CustomerPrice)
	require.Equal(t, money.Amount(540), *updated.CustomerPrice)
	require.NotNil(t, updated.Description)
	require.Equal(t, "summer dress", *updated.Description)
}

func TestUpdateProductUnknownID(t *testing.T) {
	svc := NewService(newMemoryCatalogRepo())

	_, err := svc.Update(context.Background(), 99, UpdateProductRequest{WorkerPrice: int64Ptr(100)})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListProductsSearchAndPaging(t *testing.T) {
	svc := NewService(newMemoryCatalogRepo())

	for _, code := range []string{"2029", "2030", "1989"} {
		_, err := svc.Create(context.Background(), CreateProductRequest{Code: code, WorkerPrice: 100})
		require.NoError(t, err)
	}

	products, total, err := svc.List(context.Background(), ListProductsRequest{Search: strPtr("20"), Limit: 1})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, products, 1)
	require.Equal(t, "2029", products[0].Code)
}

func TestCustomerUnitPricePort(t *testing.T) {
	svc := NewService(newMemoryCatalogRepo())

	_, err := svc.Create(context.Background(), CreateProductRequest{
		Code:          "2029",
		WorkerPrice:   200,
		CustomerPrice: int64Ptr(540),
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateProductRequest{Code: "1989", WorkerPrice: 180})
	require.NoError(t, err)

	price, ok, err := svc.CustomerUnitPrice(context.Background(), "2029")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, money.Amount(540), price)

	// No customer price configured.
	_, ok, err = svc.CustomerUnitPrice(context.Background(), "1989")
	require.NoError(t, err)
	require.False(t, ok)

	// Unknown code.
	_, ok, err = svc.CustomerUnitPrice(context.Background(), "9999")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWorkerUnitPricePort(t *testing.T) {
	svc := NewService(newMemoryCatalogRepo())

	_, err := svc.Create(context.Background(), CreateProductRequest{Code: "2029", WorkerPrice: 200})
	require.NoError(t, err)

	price, ok, err := svc.WorkerUnitPrice(context.Background(), "2029")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, money.Amount(200), price)

	_, ok, err = svc.WorkerUnitPrice(context.Background(), "9999")
	require.NoError(t, err)
	require.False(t, ok)
}
