// Package customers manages the customer directory. Each customer row also
// carries the debt and deposit balance columns that the ledger moves; this
// package owns the descriptive fields, the ledger owns the balances.
package customers

import (
	"errors"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

type Customer struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Building       *string        `json:"building,omitempty"`
	ShopNumber     *string        `json:"shop_number,omitempty"`
	Phone          *string        `json:"phone,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
	Currency       money.Currency `json:"currency"`
	OpeningDebt    money.Amount   `json:"opening_debt"`
	DebtBalance    money.Amount   `json:"debt_balance"`
	DepositBalance money.Amount   `json:"deposit_balance"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

var (
	ErrNotFound = errors.New("customers: customer not found")
	// ErrHasEntries guards deletion of customers with ledger history.
	ErrHasEntries = errors.New("customers: customer has ledger entries")
)
