// Package market tracks goods ordered for shipment to market customers and
// whether production has covered them.
package market

import (
	"errors"
	"time"
)

// GoodStatus reports production coverage for one ordered item.
type GoodStatus string

const (
	StatusPendingProduction GoodStatus = "pending_production"
	StatusSufficient        GoodStatus = "sufficient"
	StatusDeficit           GoodStatus = "deficit"
	StatusDelivered         GoodStatus = "delivered"
)

type Good struct {
	ID               int64      `json:"id"`
	ShipDate         time.Time  `json:"ship_date"`
	ProductCode      string     `json:"product_code"`
	CustomerID       int64      `json:"customer_id"`
	QuantityNeeded   int64      `json:"quantity_needed"`
	QuantityProduced int64      `json:"quantity_produced"`
	Status           GoodStatus `json:"status"`
	Notes            *string    `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

var (
	ErrNotFound = errors.New("market: good not found")
	// ErrUnknownCustomer indicates a customer reference that does not exist.
	ErrUnknownCustomer = errors.New("market: unknown customer")
)
