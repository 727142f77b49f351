// Package suppliers manages the supplier directory for material purchasing.
package suppliers

import (
	"errors"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

type Supplier struct {
	ID              int64         `json:"id"`
	Name            string        `json:"name"`
	Address         *string       `json:"address,omitempty"`
	ContactPerson   *string       `json:"contact_person,omitempty"`
	Phone           *string       `json:"phone,omitempty"`
	Email           *string       `json:"email,omitempty"`
	SuppliesType    string        `json:"supplies_type"`
	TotalOrderValue *money.Amount `json:"total_order_value,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

var (
	ErrNotFound = errors.New("suppliers: supplier not found")
	// ErrInUse guards deletion of suppliers referenced by stock entries.
	ErrInUse = errors.New("suppliers: supplier has stock entries")
)
