package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/money"
	"github.com/stitchdesk/stitchdesk/internal/suppliers"
)

// Repository defines data access for stock entries.
type Repository interface {
	Create(ctx context.Context, e StockEntry) (int64, error)
	Get(ctx context.Context, id int64) (*StockEntry, error)
	List(ctx context.Context, req ListStockEntriesRequest) ([]StockEntry, int, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

// SupplierDirectory checks supplier existence before linking an entry.
type SupplierDirectory interface {
	Get(ctx context.Context, id int64) (*suppliers.Supplier, error)
}

type Service struct {
	repo      Repository
	directory SupplierDirectory
}

func NewService(repo Repository, directory SupplierDirectory) *Service {
	return &Service{repo: repo, directory: directory}
}

const dateLayout = "2006-01-02"

func (s *Service) Create(ctx context.Context, req CreateStockEntryRequest) (*StockEntry, error) {
	entryDate, err := time.Parse(dateLayout, req.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("parse entry date: %w", err)
	}
	if _, err := s.directory.Get(ctx, req.SupplierID); err != nil {
		if errors.Is(err, suppliers.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownSupplier, req.SupplierID)
		}
		return nil, fmt.Errorf("check supplier: %w", err)
	}

	entry := StockEntry{
		Kind:        Kind(req.Kind),
		EntryDate:   entryDate,
		Code:        req.Code,
		Name:        req.Name,
		Color:       req.Color,
		ProductCode: req.ProductCode,
		SupplierID:  req.SupplierID,
		Quantity:    req.Quantity,
		UnitCost:    money.Amount(req.UnitCost),
		Notes:       req.Notes,
	}

	id, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("create stock entry: %w", err)
	}
	entry.ID = id
	return &entry, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateStockEntryRequest) (*StockEntry, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.ProductCode != nil {
		updates["product_code"] = *req.ProductCode
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.UnitCost != nil {
		updates["unit_cost"] = *req.UnitCost
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update stock entry: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*StockEntry, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListStockEntriesRequest) ([]StockEntry, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
