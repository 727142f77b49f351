package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

// Repository defines data access for products.
type Repository interface {
	Create(ctx context.Context, p Product) (*Product, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Get(ctx context.Context, id int64) (*Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	List(ctx context.Context, req ListProductsRequest) ([]Product, int, error)
}

// Service handles catalog business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	existing, err := s.repo.GetByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check existing product: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, req.Code)
	}

	product := Product{
		Code:        req.Code,
		Description: req.Description,
		FabricType:  req.FabricType,
		WorkerPrice: money.Amount(req.WorkerPrice),
		ImageURL:    req.ImageURL,
	}
	if req.CustomerPrice != nil {
		price := money.Amount(*req.CustomerPrice)
		product.CustomerPrice = &price
	}
	return s.repo.Create(ctx, product)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.FabricType != nil {
		updates["fabric_type"] = *req.FabricType
	}
	if req.WorkerPrice != nil {
		updates["worker_price"] = *req.WorkerPrice
	}
	if req.CustomerPrice != nil {
		updates["customer_price"] = *req.CustomerPrice
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if len(updates) == 0 {
		return existing, nil
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Product, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	return s.repo.List(ctx, req)
}

// CustomerUnitPrice resolves the per-unit price agreed with customers.
// Implements the ledger's price port.
func (s *Service) CustomerUnitPrice(ctx context.Context, code string) (money.Amount, bool, error) {
	product, err := s.repo.GetByCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if product.CustomerPrice == nil {
		return 0, false, nil
	}
	return *product.CustomerPrice, true, nil
}

// WorkerUnitPrice resolves the per-unit worker price. Implements the payroll
// price port.
func (s *Service) WorkerUnitPrice(ctx context.Context, code string) (money.Amount, bool, error) {
	product, err := s.repo.GetByCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return product.WorkerPrice, true, nil
}
