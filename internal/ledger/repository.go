package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stitchdesk/stitchdesk/internal/money"
	"github.com/stitchdesk/stitchdesk/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for the ledger. Account
// balances live on the customers table and are mutated only here, inside the
// same transaction that inserts the entry.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetAccount loads the ledger view of a customer account.
func (r *Repository) GetAccount(ctx context.Context, accountID int64) (*Account, error) {
	const query = `
		SELECT id, debt_currency, opening_debt, debt_balance, deposit_balance
		FROM customers WHERE id = $1`

	var (
		acc      Account
		currency string
	)
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&acc.ID, &currency, &acc.OpeningDebt, &acc.Balances.Debt, &acc.Balances.Deposit,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrAccountNotFound, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: get account: %w", err)
	}
	acc.Currency = money.Currency(currency)
	return &acc, nil
}

// AppendEntry inserts the entry and moves the balances in one transaction.
// The customer row is locked first; if the stored balances no longer match
// the expected snapshot the append fails with ErrStaleBalance.
func (r *Repository) AppendEntry(ctx context.Context, expected Balances, entry Entry, after Balances) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var current Balances
		err := tx.QueryRow(ctx,
			`SELECT debt_balance, deposit_balance FROM customers WHERE id = $1 FOR UPDATE`,
			entry.AccountID,
		).Scan(&current.Debt, &current.Deposit)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: id %d", ErrAccountNotFound, entry.AccountID)
		}
		if err != nil {
			return fmt.Errorf("ledger: lock account: %w", err)
		}
		if current != expected {
			return fmt.Errorf("%w: balances moved from %+v to %+v", ErrStaleBalance, expected, current)
		}

		if err := insertEntry(ctx, tx, entry); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE customers SET debt_balance = $2, deposit_balance = $3, updated_at = NOW() WHERE id = $1`,
			entry.AccountID, after.Debt, after.Deposit,
		)
		if err != nil {
			return fmt.Errorf("ledger: update balances: %w", err)
		}
		return nil
	})
}

func insertEntry(ctx context.Context, tx pgx.Tx, e Entry) error {
	const query = `
		INSERT INTO ledger_entries (
			id, account_id, position, at, kind, description,
			debt_before, debt_after,
			amount, method, deposit_change, product_code, planned_ship_date,
			quantity, unit_price, goods_value, deposit_applied
		) VALUES (
			$1, $2,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM ledger_entries WHERE account_id = $2),
			$3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)`

	var (
		amount, change, unitPrice, goodsValue, applied pgtype.Int8
		quantity                                       pgtype.Int8
		method, productCode                            pgtype.Text
		plannedShip                                    pgtype.Timestamptz
	)
	switch e.Kind {
	case KindPayment:
		amount = pgtype.Int8{Int64: int64(e.Payment.Amount), Valid: true}
		if e.Payment.Method != "" {
			method = pgtype.Text{String: string(e.Payment.Method), Valid: true}
		}
	case KindDeposit:
		change = pgtype.Int8{Int64: int64(e.Deposit.Change), Valid: true}
		if e.Deposit.Method != "" {
			method = pgtype.Text{String: string(e.Deposit.Method), Valid: true}
		}
		if e.Deposit.ProductCode != "" {
			productCode = pgtype.Text{String: e.Deposit.ProductCode, Valid: true}
		}
		if e.Deposit.PlannedShipDate != nil {
			plannedShip = pgtype.Timestamptz{Time: *e.Deposit.PlannedShipDate, Valid: true}
		}
	case KindShipment:
		productCode = pgtype.Text{String: e.Shipment.ProductCode, Valid: true}
		quantity = pgtype.Int8{Int64: e.Shipment.Quantity, Valid: true}
		unitPrice = pgtype.Int8{Int64: int64(e.Shipment.UnitPrice), Valid: true}
		goodsValue = pgtype.Int8{Int64: int64(e.Shipment.GoodsValue), Valid: true}
		applied = pgtype.Int8{Int64: int64(e.Shipment.DepositApplied), Valid: true}
	}

	_, err := tx.Exec(ctx, query,
		e.ID, e.AccountID, e.At, string(e.Kind), e.Description,
		e.DebtBefore, e.DebtAfter,
		amount, method, change, productCode, plannedShip,
		quantity, unitPrice, goodsValue, applied,
	)
	if err != nil {
		return fmt.Errorf("ledger: insert entry: %w", err)
	}
	return nil
}

// ListEntries returns an account's entries oldest first, optionally bounded
// by [from, to] on the entry timestamp.
func (r *Repository) ListEntries(ctx context.Context, accountID int64, from, to *time.Time) ([]Entry, error) {
	query := `
		SELECT id, account_id, at, kind, description, debt_before, debt_after,
		       amount, method, deposit_change, product_code, planned_ship_date,
		       quantity, unit_price, goods_value, deposit_applied
		FROM ledger_entries
		WHERE account_id = $1`
	args := []any{accountID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND at <= $%d", len(args))
	}
	query += " ORDER BY position ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (Entry, error) {
	var (
		e                                              Entry
		kind                                           string
		amount, change, unitPrice, goodsValue, applied pgtype.Int8
		quantity                                       pgtype.Int8
		method, productCode                            pgtype.Text
		plannedShip                                    pgtype.Timestamptz
	)
	err := row.Scan(
		&e.ID, &e.AccountID, &e.At, &kind, &e.Description, &e.DebtBefore, &e.DebtAfter,
		&amount, &method, &change, &productCode, &plannedShip,
		&quantity, &unitPrice, &goodsValue, &applied,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("ledger: scan entry: %w", err)
	}
	e.Kind = Kind(kind)

	switch e.Kind {
	case KindPayment:
		e.Payment = &PaymentDetails{
			Amount: money.Amount(amount.Int64),
			Method: PaymentMethod(method.String),
		}
	case KindDeposit:
		d := &DepositDetails{
			Change:      money.Amount(change.Int64),
			Method:      PaymentMethod(method.String),
			ProductCode: productCode.String,
		}
		if plannedShip.Valid {
			t := plannedShip.Time
			d.PlannedShipDate = &t
		}
		e.Deposit = d
	case KindShipment:
		e.Shipment = &ShipmentDetails{
			ProductCode:    productCode.String,
			Quantity:       quantity.Int64,
			UnitPrice:      money.Amount(unitPrice.Int64),
			GoodsValue:     money.Amount(goodsValue.Int64),
			DepositApplied: money.Amount(applied.Int64),
		}
	}
	return e, nil
}
