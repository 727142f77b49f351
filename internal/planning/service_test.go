package planning

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryPlanRepo struct {
	nextID int64
	plans  map[int64]Plan
}

func newMemoryPlanRepo() *memoryPlanRepo {
	return &memoryPlanRepo{nextID: 1, plans: make(map[int64]Plan)}
}

func (r *memoryPlanRepo) Create(_ context.Context, p Plan) (int64, error) {
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.nextID++
	r.plans[p.ID] = p
	return p.ID, nil
}

func (r *memoryPlanRepo) Get(_ context.Context, id int64) (*Plan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *memoryPlanRepo) List(_ context.Context, req ListPlansRequest) ([]Plan, int, error) {
	var out []Plan
	for id := int64(1); id < r.nextID; id++ {
		p, ok := r.plans[id]
		if !ok {
			continue
		}
		if req.Status != nil && p.Status != *req.Status {
			continue
		}
		if req.Priority != nil && p.Priority != *req.Priority {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *memoryPlanRepo) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	p, ok := r.plans[id]
	if !ok {
		return ErrNotFound
	}
	for col, val := range updates {
		switch col {
		case "start_date":
			p.StartDate = val.(time.Time)
		case "end_date":
			p.EndDate = val.(time.Time)
		case "quantity":
			p.Quantity = val.(int64)
		case "planner":
			p.Planner = val.(string)
		case "status":
			p.Status = PlanStatus(val.(string))
		case "priority":
			p.Priority = PlanPriority(val.(string))
		case "notes":
			v := val.(string)
			p.Notes = &v
		}
	}
	p.UpdatedAt = time.Now()
	r.plans[id] = p
	return nil
}

func (r *memoryPlanRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.plans[id]; !ok {
		return ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

func strPtr(v string) *string { return &v }

func TestCreatePlanStartsPending(t *testing.T) {
	svc := NewService(newMemoryPlanRepo())

	plan, err := svc.Create(context.Background(), CreatePlanRequest{
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-15",
		ProductCode: "2029",
		Quantity:    500,
		Planner:     "Huong",
		Priority:    "high",
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, plan.Status)
	require.Equal(t, PriorityHigh, plan.Priority)
}

func TestCreatePlanRejectsInvertedRange(t *testing.T) {
	svc := NewService(newMemoryPlanRepo())

	_, err := svc.Create(context.Background(), CreatePlanRequest{
		StartDate:   "2026-09-15",
		EndDate:     "2026-09-01",
		ProductCode: "2029",
		Quantity:    500,
		Planner:     "Huong",
		Priority:    "low",
	})
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestUpdatePlanStatusTransition(t *testing.T) {
	svc := NewService(newMemoryPlanRepo())

	plan, err := svc.Create(context.Background(), CreatePlanRequest{
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-15",
		ProductCode: "2029",
		Quantity:    500,
		Planner:     "Huong",
		Priority:    "medium",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), plan.ID, UpdatePlanRequest{
		Status: strPtr("assigned"),
	})
	require.NoError(t, err)
	require.Equal(t, StatusAssigned, updated.Status)
}

func TestUpdatePlanRejectsRangeInversion(t *testing.T) {
	svc := NewService(newMemoryPlanRepo())

	plan, err := svc.Create(context.Background(), CreatePlanRequest{
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-15",
		ProductCode: "2029",
		Quantity:    500,
		Planner:     "Huong",
		Priority:    "medium",
	})
	require.NoError(t, err)

	// Moving the start past the stored end must fail too.
	_, err = svc.Update(context.Background(), plan.ID, UpdatePlanRequest{
		StartDate: strPtr("2026-09-20"),
	})
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestListPlansByStatus(t *testing.T) {
	svc := NewService(newMemoryPlanRepo())

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), CreatePlanRequest{
			StartDate:   "2026-09-01",
			EndDate:     "2026-09-15",
			ProductCode: "2029",
			Quantity:    100,
			Planner:     "Huong",
			Priority:    "low",
		})
		require.NoError(t, err)
	}
	_, err := svc.Update(context.Background(), 1, UpdatePlanRequest{Status: strPtr("completed")})
	require.NoError(t, err)

	pending := StatusPending
	plans, total, err := svc.List(context.Background(), ListPlansRequest{Status: &pending, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, plans, 2)
}
