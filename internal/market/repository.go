package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const goodColumns = `id, ship_date, product_code, customer_id, quantity_needed,
		quantity_produced, status, notes, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, g Good) (int64, error) {
	const query = `
		INSERT INTO market_goods (
			ship_date, product_code, customer_id,
			quantity_needed, quantity_produced, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		g.ShipDate, g.ProductCode, g.CustomerID,
		g.QuantityNeeded, g.QuantityProduced, string(g.Status), textOrNull(g.Notes),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Good, error) {
	query := fmt.Sprintf("SELECT %s FROM market_goods WHERE id = $1", goodColumns)
	g, err := scanGood(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *PGRepository) List(ctx context.Context, req ListGoodsRequest) ([]Good, int, error) {
	var conditions []string
	var args []interface{}

	if req.Month != nil && *req.Month != "" {
		args = append(args, *req.Month)
		conditions = append(conditions, fmt.Sprintf("to_char(ship_date, 'YYYY-MM') = $%d", len(args)))
	}
	if req.ProductCode != nil && *req.ProductCode != "" {
		args = append(args, *req.ProductCode)
		conditions = append(conditions, fmt.Sprintf("product_code = $%d", len(args)))
	}
	if req.CustomerID != nil {
		args = append(args, *req.CustomerID)
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if req.Status != nil && *req.Status != "" {
		args = append(args, *req.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM market_goods %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM market_goods
		%s
		ORDER BY ship_date DESC, id DESC
		LIMIT $%d OFFSET $%d`, goodColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var outs []Good
	for rows.Next() {
		g, err := scanGood(rows)
		if err != nil {
			return nil, 0, err
		}
		outs = append(outs, *g)
	}
	return outs, total, rows.Err()
}

func (r *PGRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE market_goods SET updated_at = NOW()"
	var args []interface{}

	for _, col := range []string{
		"ship_date", "quantity_needed", "quantity_produced", "status", "notes",
	} {
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM market_goods WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanGood(row pgx.Row) (*Good, error) {
	var (
		g      Good
		status string
		notes  pgtype.Text
	)
	err := row.Scan(
		&g.ID, &g.ShipDate, &g.ProductCode, &g.CustomerID,
		&g.QuantityNeeded, &g.QuantityProduced, &status, &notes,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.Status = GoodStatus(status)
	if notes.Valid {
		g.Notes = &notes.String
	}
	return &g, nil
}

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}
