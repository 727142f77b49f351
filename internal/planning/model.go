// Package planning manages production plans: dated, prioritised intents to
// produce a quantity of a product for a customer.
package planning

import (
	"errors"
	"time"
)

// PlanStatus enumerates the lifecycle of a production plan.
type PlanStatus string

const (
	StatusPending   PlanStatus = "pending"
	StatusAssigned  PlanStatus = "assigned"
	StatusCompleted PlanStatus = "completed"
	StatusOnHold    PlanStatus = "on_hold"
)

// PlanPriority enumerates plan urgency.
type PlanPriority string

const (
	PriorityHigh   PlanPriority = "high"
	PriorityMedium PlanPriority = "medium"
	PriorityLow    PlanPriority = "low"
)

type Plan struct {
	ID          int64        `json:"id"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     time.Time    `json:"end_date"`
	ProductCode string       `json:"product_code"`
	CustomerID  *int64       `json:"customer_id,omitempty"`
	Quantity    int64        `json:"quantity"`
	Planner     string       `json:"planner"`
	Status      PlanStatus   `json:"status"`
	Priority    PlanPriority `json:"priority"`
	Notes       *string      `json:"notes,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

var (
	ErrNotFound = errors.New("planning: plan not found")
	// ErrInvalidRange indicates end date before start date.
	ErrInvalidRange = errors.New("planning: end date before start date")
)
