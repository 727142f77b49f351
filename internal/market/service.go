package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/customers"
)

// Repository defines data access for market goods.
type Repository interface {
	Create(ctx context.Context, g Good) (int64, error)
	Get(ctx context.Context, id int64) (*Good, error)
	List(ctx context.Context, req ListGoodsRequest) ([]Good, int, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

// CustomerDirectory resolves customer references.
type CustomerDirectory interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

type Service struct {
	repo      Repository
	directory CustomerDirectory
}

func NewService(repo Repository, directory CustomerDirectory) *Service {
	return &Service{repo: repo, directory: directory}
}

const dateLayout = "2006-01-02"

func (s *Service) Create(ctx context.Context, req CreateGoodRequest) (*Good, error) {
	shipDate, err := time.Parse(dateLayout, req.ShipDate)
	if err != nil {
		return nil, fmt.Errorf("parse ship date: %w", err)
	}
	if err := s.checkCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	good := Good{
		ShipDate:         shipDate,
		ProductCode:      req.ProductCode,
		CustomerID:       req.CustomerID,
		QuantityNeeded:   req.QuantityNeeded,
		QuantityProduced: req.QuantityProduced,
		Status:           deriveStatus(req.QuantityProduced, req.QuantityNeeded, false),
		Notes:            req.Notes,
	}

	id, err := s.repo.Create(ctx, good)
	if err != nil {
		return nil, fmt.Errorf("create market good: %w", err)
	}
	good.ID = id
	return &good, nil
}

// Update re-derives coverage status from the quantities unless the entry has
// been marked delivered, which is terminal until explicitly reopened.
func (s *Service) Update(ctx context.Context, id int64, req UpdateGoodRequest) (*Good, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	needed, produced := existing.QuantityNeeded, existing.QuantityProduced
	delivered := existing.Status == StatusDelivered
	updates := make(map[string]interface{})
	if req.ShipDate != nil {
		shipDate, err := time.Parse(dateLayout, *req.ShipDate)
		if err != nil {
			return nil, fmt.Errorf("parse ship date: %w", err)
		}
		updates["ship_date"] = shipDate
	}
	if req.QuantityNeeded != nil {
		needed = *req.QuantityNeeded
		updates["quantity_needed"] = needed
	}
	if req.QuantityProduced != nil {
		produced = *req.QuantityProduced
		updates["quantity_produced"] = produced
	}
	if req.Delivered != nil {
		delivered = *req.Delivered
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	status := deriveStatus(produced, needed, delivered)
	if status != existing.Status {
		updates["status"] = string(status)
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update market good: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Good, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListGoodsRequest) ([]Good, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) checkCustomer(ctx context.Context, id int64) error {
	if s.directory == nil {
		return nil
	}
	_, err := s.directory.Get(ctx, id)
	if errors.Is(err, customers.ErrNotFound) {
		return fmt.Errorf("%w: %d", ErrUnknownCustomer, id)
	}
	return err
}

func deriveStatus(produced, needed int64, delivered bool) GoodStatus {
	switch {
	case delivered:
		return StatusDelivered
	case produced == 0:
		return StatusPendingProduction
	case produced >= needed:
		return StatusSufficient
	default:
		return StatusDeficit
	}
}
