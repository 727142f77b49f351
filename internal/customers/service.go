package customers

import (
	"context"
	"fmt"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

// Repository defines data access for customers.
type Repository interface {
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error)
	Create(ctx context.Context, customer Customer) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a customer. The opening debt seeds the debt balance; all
// later balance movement goes through the ledger.
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	currency, err := money.ParseCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	customer := Customer{
		Name:           req.Name,
		Building:       req.Building,
		ShopNumber:     req.ShopNumber,
		Phone:          req.Phone,
		Notes:          req.Notes,
		Currency:       currency,
		OpeningDebt:    money.Amount(req.OpeningDebt),
		DebtBalance:    money.Amount(req.OpeningDebt),
		DepositBalance: 0,
	}

	id, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	customer.ID = id
	return &customer, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Building != nil {
		updates["building"] = *req.Building
	}
	if req.ShopNumber != nil {
		updates["shop_number"] = *req.ShopNumber
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	return s.repo.List(ctx, req)
}

// Delete removes a customer without ledger history. Customers with entries
// are kept so the transaction chain stays replayable.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
