package premises

import (
	"context"
	"fmt"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

// Repository defines data access for premises.
type Repository interface {
	Create(ctx context.Context, p Premises) (int64, error)
	Get(ctx context.Context, id int64) (*Premises, error)
	List(ctx context.Context, req ListPremisesRequest) ([]Premises, int, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreatePremisesRequest) (*Premises, error) {
	p := Premises{
		Location:             req.Location,
		RentCost:             money.Amount(req.RentCost),
		Area:                 req.Area,
		ElectricityWaterCost: money.Amount(req.ElectricityWaterCost),
		LivingCost:           money.Amount(req.LivingCost),
		WorkerSuppliesCost:   money.Amount(req.WorkerSuppliesCost),
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create premises: %w", err)
	}
	p.ID = id
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdatePremisesRequest) (*Premises, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.RentCost != nil {
		updates["rent_cost"] = *req.RentCost
	}
	if req.Area != nil {
		updates["area_m2"] = *req.Area
	}
	if req.ElectricityWaterCost != nil {
		updates["electricity_water_cost"] = *req.ElectricityWaterCost
	}
	if req.LivingCost != nil {
		updates["living_cost"] = *req.LivingCost
	}
	if req.WorkerSuppliesCost != nil {
		updates["worker_supplies_cost"] = *req.WorkerSuppliesCost
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, id)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update premises: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Premises, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListPremisesRequest) ([]Premises, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
