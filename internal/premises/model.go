// Package premises tracks the workshop's rented locations and their running
// monthly costs.
package premises

import (
	"errors"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

type Premises struct {
	ID                   int64        `json:"id"`
	Location             string       `json:"location"`
	RentCost             money.Amount `json:"rent_cost"`
	Area                 float64      `json:"area_m2"`
	ElectricityWaterCost money.Amount `json:"electricity_water_cost"`
	LivingCost           money.Amount `json:"living_cost"`
	WorkerSuppliesCost   money.Amount `json:"worker_supplies_cost"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// MonthlyCost is the sum of all recurring costs for the location.
func (p Premises) MonthlyCost() money.Amount {
	return p.RentCost + p.ElectricityWaterCost + p.LivingCost + p.WorkerSuppliesCost
}

var ErrNotFound = errors.New("premises: premises not found")
