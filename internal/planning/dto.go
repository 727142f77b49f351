package planning

type CreatePlanRequest struct {
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	ProductCode string  `json:"product_code" validate:"required,max=50"`
	CustomerID  *int64  `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	Quantity    int64   `json:"quantity" validate:"required,gt=0"`
	Planner     string  `json:"planner" validate:"required,max=200"`
	Priority    string  `json:"priority" validate:"required,oneof=high medium low"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdatePlanRequest struct {
	StartDate *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Quantity  *int64  `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Planner   *string `json:"planner,omitempty" validate:"omitempty,max=200"`
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=pending assigned completed on_hold"`
	Priority  *string `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ListPlansRequest struct {
	Status   *PlanStatus   `json:"status,omitempty"`
	Priority *PlanPriority `json:"priority,omitempty"`
	Limit    int           `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int           `json:"offset" validate:"gte=0"`
}
