// Package catalog manages the product catalog and supplies unit prices to
// the ledger (customer price) and payroll (worker price) modules.
package catalog

import (
	"errors"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

// Product is one catalog item. WorkerPrice is what a worker earns per unit;
// CustomerPrice, when set, is the default per-unit price agreed with
// customers.
type Product struct {
	ID            int64         `json:"id"`
	Code          string        `json:"code"`
	Description   *string       `json:"description,omitempty"`
	FabricType    *string       `json:"fabric_type,omitempty"`
	WorkerPrice   money.Amount  `json:"worker_price"`
	CustomerPrice *money.Amount `json:"customer_price,omitempty"`
	ImageURL      *string       `json:"image_url,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

var (
	// ErrNotFound indicates a missing product.
	ErrNotFound = errors.New("catalog: product not found")
	// ErrAlreadyExists indicates a duplicate product code.
	ErrAlreadyExists = errors.New("catalog: product code already exists")
)
