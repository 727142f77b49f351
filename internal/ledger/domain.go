// Package ledger implements the per-customer transaction ledger: an
// append-only sequence of payment, deposit, and shipment entries with running
// debt and prepaid-deposit balances.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

// Kind enumerates ledger entry kinds.
type Kind string

const (
	KindPayment  Kind = "payment"
	KindDeposit  Kind = "deposit"
	KindShipment Kind = "shipment"
)

// PaymentMethod enumerates how money changed hands.
type PaymentMethod string

const (
	MethodCash PaymentMethod = "cash"
	MethodCard PaymentMethod = "card"
)

// Balances is the running state of an account: what the customer owes and
// what they have prepaid and not yet consumed.
type Balances struct {
	Debt    money.Amount `json:"debt"`
	Deposit money.Amount `json:"deposit"`
}

// Account is one customer's ledger view.
type Account struct {
	ID          int64
	Currency    money.Currency
	OpeningDebt money.Amount
	Balances    Balances
}

// PaymentDetails carries the fields specific to a payment entry.
type PaymentDetails struct {
	Amount money.Amount  `json:"amount"`
	Method PaymentMethod `json:"method,omitempty"`
}

// DepositDetails carries the fields specific to a deposit entry. Change is
// signed: positive when the customer adds prepayment, negative for a refund.
type DepositDetails struct {
	Change          money.Amount  `json:"change"`
	Method          PaymentMethod `json:"method,omitempty"`
	ProductCode     string        `json:"product_code,omitempty"`
	PlannedShipDate *time.Time    `json:"planned_ship_date,omitempty"`
}

// ShipmentDetails carries the fields specific to a shipment entry.
type ShipmentDetails struct {
	ProductCode    string       `json:"product_code"`
	Quantity       int64        `json:"quantity"`
	UnitPrice      money.Amount `json:"unit_price"`
	GoodsValue     money.Amount `json:"goods_value"`
	DepositApplied money.Amount `json:"deposit_applied,omitempty"`
}

// Entry is one immutable ledger record. Exactly one of Payment, Deposit, or
// Shipment is set, matching Kind. Entries are never mutated or deleted;
// corrections are new offsetting entries.
type Entry struct {
	ID          uuid.UUID        `json:"id"`
	AccountID   int64            `json:"account_id"`
	At          time.Time        `json:"at"`
	Kind        Kind             `json:"kind"`
	Description string           `json:"description,omitempty"`
	DebtBefore  money.Amount     `json:"debt_before"`
	DebtAfter   money.Amount     `json:"debt_after"`
	Payment     *PaymentDetails  `json:"payment,omitempty"`
	Deposit     *DepositDetails  `json:"deposit,omitempty"`
	Shipment    *ShipmentDetails `json:"shipment,omitempty"`
}

// Intent is a proposed transaction. The three concrete intents are the only
// implementations; invalid field combinations are unrepresentable.
type Intent interface {
	Kind() Kind
	validate() error
}

// PaymentIntent reduces the customer's debt.
type PaymentIntent struct {
	Amount      money.Amount
	Method      PaymentMethod
	Description string
}

// Kind implements Intent.
func (PaymentIntent) Kind() Kind { return KindPayment }

func (in PaymentIntent) validate() error {
	if in.Amount.IsNegative() {
		return errValidation("payment amount must not be negative")
	}
	return nil
}

// DepositIntent adds to or refunds from the customer's prepaid deposit. The
// debt balance is not touched.
type DepositIntent struct {
	Change          money.Amount
	Method          PaymentMethod
	ProductCode     string
	PlannedShipDate *time.Time
	Description     string
}

// Kind implements Intent.
func (DepositIntent) Kind() Kind { return KindDeposit }

func (in DepositIntent) validate() error {
	if in.Change == 0 {
		return errValidation("deposit change must not be zero")
	}
	return nil
}

// ShipmentIntent records delivery of finished goods, valued at the unit price
// agreed with this customer, optionally consuming existing deposit.
type ShipmentIntent struct {
	ProductCode    string
	Quantity       int64
	UnitPrice      money.Amount
	DepositApplied money.Amount
	Description    string
}

// Kind implements Intent.
func (ShipmentIntent) Kind() Kind { return KindShipment }

func (in ShipmentIntent) validate() error {
	if in.ProductCode == "" {
		return errValidation("shipment product code required")
	}
	if in.Quantity < 0 {
		return errValidation("shipment quantity must not be negative")
	}
	if in.UnitPrice.IsNegative() {
		return errValidation("shipment unit price must not be negative")
	}
	if in.DepositApplied.IsNegative() {
		return errValidation("deposit applied must not be negative")
	}
	return nil
}

var (
	// ErrValidation indicates malformed or missing intent fields.
	ErrValidation = errors.New("ledger: validation failed")
	// ErrInsufficientDeposit indicates a refund or shipment deduction that
	// would drive the deposit balance below zero.
	ErrInsufficientDeposit = errors.New("ledger: insufficient deposit")
	// ErrStaleBalance indicates the caller's assumed pre-state does not match
	// the authoritative running balance.
	ErrStaleBalance = errors.New("ledger: stale balance")
	// ErrAccountNotFound indicates a reference to a nonexistent account.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrProductNotFound indicates a shipment product code that does not
	// resolve in the catalog.
	ErrProductNotFound = errors.New("ledger: product not found")
	// ErrReplayMismatch indicates a stored entry chain that no longer
	// reproduces its recorded balances.
	ErrReplayMismatch = errors.New("ledger: replay mismatch")
)
