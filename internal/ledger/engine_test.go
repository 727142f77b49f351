package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

func meta(accountID int64) EntryMeta {
	return EntryMeta{ID: uuid.New(), AccountID: accountID, At: time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)}
}

func TestApplyPayment(t *testing.T) {
	bal := Balances{Debt: 37000, Deposit: 1000}

	entry, after, err := Apply(bal, PaymentIntent{Amount: 20000, Method: MethodCash}, meta(1))
	require.NoError(t, err)
	require.Equal(t, money.Amount(37000), entry.DebtBefore)
	require.Equal(t, money.Amount(17000), entry.DebtAfter)
	require.Equal(t, money.Amount(17000), after.Debt)
	require.Equal(t, money.Amount(1000), after.Deposit, "payment must not touch deposit")
	require.Equal(t, KindPayment, entry.Kind)
	require.NotNil(t, entry.Payment)
	require.Nil(t, entry.Deposit)
	require.Nil(t, entry.Shipment)
}

func TestApplyPaymentNegativeAmount(t *testing.T) {
	bal := Balances{Debt: 100}
	_, after, err := Apply(bal, PaymentIntent{Amount: -5}, meta(1))
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, bal, after, "rejection must leave balances unchanged")
}

func TestApplyDeposit(t *testing.T) {
	bal := Balances{Debt: 17000, Deposit: 0}

	entry, after, err := Apply(bal, DepositIntent{Change: 5000, Method: MethodCard, ProductCode: "1989"}, meta(1))
	require.NoError(t, err)
	require.Equal(t, money.Amount(17000), entry.DebtBefore)
	require.Equal(t, money.Amount(17000), entry.DebtAfter, "deposit must not change debt")
	require.Equal(t, money.Amount(17000), after.Debt)
	require.Equal(t, money.Amount(5000), after.Deposit)
}

func TestApplyDepositRefund(t *testing.T) {
	bal := Balances{Debt: 0, Deposit: 3000}

	_, after, err := Apply(bal, DepositIntent{Change: -2000}, meta(1))
	require.NoError(t, err)
	require.Equal(t, money.Amount(1000), after.Deposit)
}

func TestApplyDepositRefundExceedsBalance(t *testing.T) {
	bal := Balances{Debt: 0, Deposit: 3000}

	_, after, err := Apply(bal, DepositIntent{Change: -4000}, meta(1))
	require.ErrorIs(t, err, ErrInsufficientDeposit)
	require.Equal(t, bal, after)
}

func TestApplyShipment(t *testing.T) {
	bal := Balances{Debt: 10000, Deposit: 0}

	entry, after, err := Apply(bal, ShipmentIntent{ProductCode: "2029", Quantity: 50, UnitPrice: 540}, meta(1))
	require.NoError(t, err)
	require.Equal(t, money.Amount(27000), entry.Shipment.GoodsValue)
	require.Equal(t, money.Amount(37000), after.Debt)
	require.Equal(t, money.Amount(0), after.Deposit)
}

func TestApplyShipmentWithDeposit(t *testing.T) {
	bal := Balances{Debt: 10000, Deposit: 8000}

	entry, after, err := Apply(bal, ShipmentIntent{
		ProductCode: "2029", Quantity: 10, UnitPrice: 1000, DepositApplied: 5000,
	}, meta(1))
	require.NoError(t, err)
	require.Equal(t, money.Amount(10000), entry.Shipment.GoodsValue)
	require.Equal(t, money.Amount(15000), after.Debt)
	require.Equal(t, money.Amount(3000), after.Deposit)
}

func TestApplyShipmentDepositExceedsBalance(t *testing.T) {
	bal := Balances{Debt: 10000, Deposit: 4000}

	_, after, err := Apply(bal, ShipmentIntent{
		ProductCode: "2029", Quantity: 10, UnitPrice: 1000, DepositApplied: 5000,
	}, meta(1))
	require.ErrorIs(t, err, ErrInsufficientDeposit)
	require.Equal(t, bal, after)
}

func TestApplyShipmentMissingProduct(t *testing.T) {
	_, _, err := Apply(Balances{}, ShipmentIntent{Quantity: 10, UnitPrice: 100}, meta(1))
	require.ErrorIs(t, err, ErrValidation)
}

func TestApplyEndToEnd(t *testing.T) {
	// Worked example: RUB account starting at debt 10000, deposit 0.
	bal := Balances{Debt: 10000}

	_, bal, err := Apply(bal, ShipmentIntent{ProductCode: "2029", Quantity: 50, UnitPrice: 540}, meta(7))
	require.NoError(t, err)
	require.Equal(t, money.Amount(37000), bal.Debt)

	_, bal, err = Apply(bal, PaymentIntent{Amount: 20000, Method: MethodCash}, meta(7))
	require.NoError(t, err)
	require.Equal(t, money.Amount(17000), bal.Debt)

	_, bal, err = Apply(bal, DepositIntent{Change: 5000, Method: MethodCard, ProductCode: "1989"}, meta(7))
	require.NoError(t, err)
	require.Equal(t, money.Amount(17000), bal.Debt)
	require.Equal(t, money.Amount(5000), bal.Deposit)
}

func TestReplayReproducesBalances(t *testing.T) {
	opening := Balances{Debt: 10000}
	intents := []Intent{
		ShipmentIntent{ProductCode: "2029", Quantity: 50, UnitPrice: 540},
		PaymentIntent{Amount: 20000},
		DepositIntent{Change: 5000},
		ShipmentIntent{ProductCode: "1989", Quantity: 5, UnitPrice: 200, DepositApplied: 1000},
		DepositIntent{Change: -500},
	}

	bal := opening
	var entries []Entry
	for _, in := range intents {
		entry, next, err := Apply(bal, in, meta(3))
		require.NoError(t, err)
		entries = append(entries, entry)
		bal = next
	}

	replayed, err := Replay(opening, entries)
	require.NoError(t, err)
	require.Equal(t, bal, replayed)
}

func TestReplayDetectsBrokenChain(t *testing.T) {
	opening := Balances{Debt: 0}
	entry, _, err := Apply(opening, PaymentIntent{Amount: 100}, meta(1))
	require.NoError(t, err)

	tampered := entry
	tampered.DebtAfter = 42
	_, err = Replay(opening, []Entry{tampered})
	require.ErrorIs(t, err, ErrReplayMismatch)

	shifted := entry
	shifted.DebtBefore = 9
	_, err = Replay(opening, []Entry{shifted})
	require.ErrorIs(t, err, ErrReplayMismatch)
}

func TestApplyNotIdempotent(t *testing.T) {
	// Re-appending the same intent must produce a second, distinct effect.
	bal := Balances{Debt: 1000}
	_, bal, err := Apply(bal, PaymentIntent{Amount: 100}, meta(1))
	require.NoError(t, err)
	_, bal, err = Apply(bal, PaymentIntent{Amount: 100}, meta(1))
	require.NoError(t, err)
	require.Equal(t, money.Amount(800), bal.Debt)
}
