package premises

type CreatePremisesRequest struct {
	Location             string  `json:"location" validate:"required,max=255"`
	RentCost             int64   `json:"rent_cost" validate:"gte=0"`
	Area                 float64 `json:"area_m2" validate:"gt=0"`
	ElectricityWaterCost int64   `json:"electricity_water_cost" validate:"gte=0"`
	LivingCost           int64   `json:"living_cost" validate:"gte=0"`
	WorkerSuppliesCost   int64   `json:"worker_supplies_cost" validate:"gte=0"`
}

type UpdatePremisesRequest struct {
	Location             *string  `json:"location,omitempty" validate:"omitempty,max=255"`
	RentCost             *int64   `json:"rent_cost,omitempty" validate:"omitempty,gte=0"`
	Area                 *float64 `json:"area_m2,omitempty" validate:"omitempty,gt=0"`
	ElectricityWaterCost *int64   `json:"electricity_water_cost,omitempty" validate:"omitempty,gte=0"`
	LivingCost           *int64   `json:"living_cost,omitempty" validate:"omitempty,gte=0"`
	WorkerSuppliesCost   *int64   `json:"worker_supplies_cost,omitempty" validate:"omitempty,gte=0"`
}

type ListPremisesRequest struct {
	Limit  int `json:"limit" validate:"gte=0,lte=1000"`
	Offset int `json:"offset" validate:"gte=0"`
}

// premisesResponse carries the derived monthly total alongside the row.
type premisesResponse struct {
	Premises
	MonthlyCost int64 `json:"monthly_cost"`
}

func toResponse(p Premises) premisesResponse {
	return premisesResponse{Premises: p, MonthlyCost: int64(p.MonthlyCost())}
}
