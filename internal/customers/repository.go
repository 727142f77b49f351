package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, c Customer) (int64, error) {
	const query = `
		INSERT INTO customers (
			name, building, shop_number, phone, notes,
			debt_currency, opening_debt, debt_balance, deposit_balance
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		c.Name, textOrNull(c.Building), textOrNull(c.ShopNumber),
		textOrNull(c.Phone), textOrNull(c.Notes),
		string(c.Currency), c.OpeningDebt, c.DebtBalance, c.DepositBalance,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Customer, error) {
	const query = `
		SELECT id, name, building, shop_number, phone, notes,
		       debt_currency, opening_debt, debt_balance, deposit_balance,
		       created_at, updated_at
		FROM customers WHERE id = $1`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PGRepository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	var conditions []string
	var args []interface{}

	if req.Search != nil && *req.Search != "" {
		args = append(args, "%"+*req.Search+"%")
		pos := len(args)
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR shop_number ILIKE $%d OR phone ILIKE $%d)", pos, pos, pos))
	}
	if req.Building != nil && *req.Building != "" {
		args = append(args, *req.Building)
		conditions = append(conditions, fmt.Sprintf("building = $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM customers %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, name, building, shop_number, phone, notes,
		       debt_currency, opening_debt, debt_balance, deposit_balance,
		       created_at, updated_at
		FROM customers
		%s
		ORDER BY name
		LIMIT $%d OFFSET $%d`, whereClause, len(args)+1, len(args)+2)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, *c)
	}
	return customers, total, rows.Err()
}

func (r *PGRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE customers SET updated_at = NOW()"
	var args []interface{}

	for _, col := range []string{"name", "building", "shop_number", "phone", "notes"} {
		if v, ok := updates[col]; ok {
			args = append(args, v)
			query += fmt.Sprintf(", %s = $%d", col, len(args))
		}
	}

	args = append(args, id)
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	var hasEntries bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE account_id = $1)`, id,
	).Scan(&hasEntries)
	if err != nil {
		return err
	}
	if hasEntries {
		return ErrHasEntries
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var (
		c                            Customer
		currency                     string
		building, shop, phone, notes pgtype.Text
	)
	err := row.Scan(
		&c.ID, &c.Name, &building, &shop, &phone, &notes,
		&currency, &c.OpeningDebt, &c.DebtBalance, &c.DepositBalance,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Currency = money.Currency(currency)
	if building.Valid {
		c.Building = &building.String
	}
	if shop.Valid {
		c.ShopNumber = &shop.String
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	if notes.Valid {
		c.Notes = &notes.String
	}
	return &c, nil
}

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}
