package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntryMeta supplies caller-provided identity and time for a new entry, so
// the engine never reads global state and stays replayable in tests.
type EntryMeta struct {
	ID        uuid.UUID
	AccountID int64
	At        time.Time
}

// Apply computes the entry and post-transaction balances for an intent
// against the given snapshot. It is a pure function: a rejected intent
// returns the zero entry and leaves the caller's snapshot untouched.
//
// Transition rules:
//
//	payment:  debt' = debt − amount
//	deposit:  debt' = debt; deposit' = deposit + change (reject if < 0)
//	shipment: debt' = debt + qty×unitPrice − applied; deposit' = deposit − applied
func Apply(bal Balances, in Intent, meta EntryMeta) (Entry, Balances, error) {
	if in == nil {
		return Entry{}, bal, errValidation("intent required")
	}
	if err := in.validate(); err != nil {
		return Entry{}, bal, err
	}

	entry := Entry{
		ID:         meta.ID,
		AccountID:  meta.AccountID,
		At:         meta.At,
		Kind:       in.Kind(),
		DebtBefore: bal.Debt,
	}
	after := bal

	switch v := in.(type) {
	case PaymentIntent:
		after.Debt = bal.Debt - v.Amount
		entry.Description = v.Description
		entry.Payment = &PaymentDetails{Amount: v.Amount, Method: v.Method}

	case DepositIntent:
		next := bal.Deposit + v.Change
		if next.IsNegative() {
			return Entry{}, bal, fmt.Errorf("%w: refund %d exceeds deposit %d", ErrInsufficientDeposit, -v.Change, bal.Deposit)
		}
		after.Deposit = next
		entry.Description = v.Description
		entry.Deposit = &DepositDetails{
			Change:          v.Change,
			Method:          v.Method,
			ProductCode:     v.ProductCode,
			PlannedShipDate: v.PlannedShipDate,
		}

	case ShipmentIntent:
		if v.DepositApplied > bal.Deposit {
			return Entry{}, bal, fmt.Errorf("%w: applied %d exceeds deposit %d", ErrInsufficientDeposit, v.DepositApplied, bal.Deposit)
		}
		goods := v.UnitPrice.MulQty(v.Quantity)
		after.Debt = bal.Debt + goods - v.DepositApplied
		after.Deposit = bal.Deposit - v.DepositApplied
		entry.Description = v.Description
		entry.Shipment = &ShipmentDetails{
			ProductCode:    v.ProductCode,
			Quantity:       v.Quantity,
			UnitPrice:      v.UnitPrice,
			GoodsValue:     goods,
			DepositApplied: v.DepositApplied,
		}

	default:
		return Entry{}, bal, errValidation("unknown intent kind")
	}

	entry.DebtAfter = after.Debt
	return entry, after, nil
}

// Replay re-derives balances from an entry sequence and verifies that each
// entry's recorded DebtBefore/DebtAfter chain matches. History must always
// reproduce the same chain as when entries were appended; a mismatch means
// the stored ledger has been corrupted.
func Replay(opening Balances, entries []Entry) (Balances, error) {
	bal := opening
	for i, e := range entries {
		if e.DebtBefore != bal.Debt {
			return opening, fmt.Errorf("%w: entry %d debt_before %d, running %d", ErrReplayMismatch, i, e.DebtBefore, bal.Debt)
		}
		after, err := transition(bal, e)
		if err != nil {
			return opening, fmt.Errorf("%w: entry %d: %v", ErrReplayMismatch, i, err)
		}
		if e.DebtAfter != after.Debt {
			return opening, fmt.Errorf("%w: entry %d debt_after %d, computed %d", ErrReplayMismatch, i, e.DebtAfter, after.Debt)
		}
		bal = after
	}
	return bal, nil
}

// transition applies a stored entry's effect. It mirrors Apply but trusts the
// recorded details rather than re-validating an intent.
func transition(bal Balances, e Entry) (Balances, error) {
	after := bal
	switch e.Kind {
	case KindPayment:
		if e.Payment == nil {
			return bal, fmt.Errorf("payment entry missing details")
		}
		after.Debt = bal.Debt - e.Payment.Amount
	case KindDeposit:
		if e.Deposit == nil {
			return bal, fmt.Errorf("deposit entry missing details")
		}
		after.Deposit = bal.Deposit + e.Deposit.Change
		if after.Deposit.IsNegative() {
			return bal, fmt.Errorf("deposit balance went negative")
		}
	case KindShipment:
		if e.Shipment == nil {
			return bal, fmt.Errorf("shipment entry missing details")
		}
		after.Debt = bal.Debt + e.Shipment.GoodsValue - e.Shipment.DepositApplied
		after.Deposit = bal.Deposit - e.Shipment.DepositApplied
		if after.Deposit.IsNegative() {
			return bal, fmt.Errorf("deposit balance went negative")
		}
	default:
		return bal, fmt.Errorf("unknown kind %q", e.Kind)
	}
	return after, nil
}

func errValidation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
