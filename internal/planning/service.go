package planning

import (
	"context"
	"fmt"
	"time"
)

// Repository defines data access for production plans.
type Repository interface {
	Create(ctx context.Context, p Plan) (int64, error)
	Get(ctx context.Context, id int64) (*Plan, error)
	List(ctx context.Context, req ListPlansRequest) ([]Plan, int, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

const dateLayout = "2006-01-02"

// Create registers a plan. New plans always start pending.
func (s *Service) Create(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("parse end date: %w", err)
	}
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	plan := Plan{
		StartDate:   start,
		EndDate:     end,
		ProductCode: req.ProductCode,
		CustomerID:  req.CustomerID,
		Quantity:    req.Quantity,
		Planner:     req.Planner,
		Status:      StatusPending,
		Priority:    PlanPriority(req.Priority),
		Notes:       req.Notes,
	}

	id, err := s.repo.Create(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	plan.ID = id
	return &plan, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdatePlanRequest) (*Plan, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end := existing.StartDate, existing.EndDate
	updates := make(map[string]interface{})
	if req.StartDate != nil {
		start, err = time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parse start date: %w", err)
		}
		updates["start_date"] = start
	}
	if req.EndDate != nil {
		end, err = time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("parse end date: %w", err)
		}
		updates["end_date"] = end
	}
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.Planner != nil {
		updates["planner"] = *req.Planner
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Plan, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListPlansRequest) ([]Plan, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
