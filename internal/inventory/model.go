// Package inventory tracks material stock entries. Fabric and accessory
// purchases share one table, discriminated by kind; fabric quantities are
// meters or kilograms, so quantity is fractional here unlike production
// counts.
package inventory

import (
	"errors"
	"math"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

// Kind discriminates material stock entries.
type Kind string

const (
	KindFabric    Kind = "fabric"
	KindAccessory Kind = "accessory"
)

type StockEntry struct {
	ID          int64        `json:"id"`
	Kind        Kind         `json:"kind"`
	EntryDate   time.Time    `json:"entry_date"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Color       *string      `json:"color,omitempty"`
	ProductCode *string      `json:"product_code,omitempty"`
	SupplierID  int64        `json:"supplier_id"`
	Quantity    float64      `json:"quantity"`
	UnitCost    money.Amount `json:"unit_cost"`
	Notes       *string      `json:"notes,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TotalCost is the entry's purchase value, rounded to the nearest minor
// unit.
func (e StockEntry) TotalCost() money.Amount {
	return money.Amount(math.Round(e.Quantity * float64(e.UnitCost)))
}

var (
	ErrNotFound = errors.New("inventory: stock entry not found")
	// ErrUnknownSupplier indicates the referenced supplier does not exist.
	ErrUnknownSupplier = errors.New("inventory: unknown supplier")
)
