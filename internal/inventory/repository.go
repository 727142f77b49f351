package inventory

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

func (r *PGRepository) Create(ctx context.Context, e StockEntry) (int64, error) {
	const query = `
		INSERT INTO stock_entries (
			kind, entry_date, code, name, color, product_code,
			supplier_id, quantity, unit_cost, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		string(e.Kind), e.EntryDate, e.Code, e.Name,
		textOrNull(e.Color), textOrNull(e.ProductCode),
		e.SupplierID, e.Quantity, e.UnitCost, textOrNull(e.Notes),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*StockEntry, error) {
	const query = `
		SELECT id, kind, entry_date, code, name, color, product_code,
		       supplier_id, quantity, unit_cost, notes, created_at, updated_at
		FROM stock_entries WHERE id = $1`

	e, err := scanStockEntry(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *PGRepository) List(ctx context.Context, req ListStockEntriesRequest) ([]StockEntry, int, error) {
	var conditions []string
	var args []interface{}

	if req.Kind != nil {
		args = append(args, string(*req.Kind))
		conditions = append(conditions, fmt.Sprintf("kind = $%d", len(args)))
	}
	if req.SupplierID != nil {
		args = append(args, *req.SupplierID)
		conditions = append(conditions, fmt.Sprintf("supplier_id = $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM stock_entries %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, kind, entry_date, code, name, color, product_code,
		       supplier_id, quantity, unit_cost, notes, created_at, updated_at
		FROM stock_entries
		%s
		ORDER BY entry_date DESC, id DESC
		LIMIT $%d OFFSET $%d`, whereClause, len(args)+1, len(args)+2)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []StockEntry
	for rows.Next() {
		e, err := scanStockEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, *e)
	}
	return entries, total, rows.Err()
}

func (r *PGRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE stock_entries SET updated_at = NOW()"
	var args []interface{}

	for _, col := range []string{"name", "color", "product_code", "quantity", "unit_cost", "notes"} {
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM stock_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanStockEntry(row pgx.Row) (*StockEntry, error) {
	var (
		e                         StockEntry
		kind                      string
		color, productCode, notes pgtype.Text
	)
	err := row.Scan(
		&e.ID, &kind, &e.EntryDate, &e.Code, &e.Name, &color, &productCode,
		&e.SupplierID, &e.Quantity, &e.UnitCost, &notes, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Kind = Kind(kind)
	if color.Valid {
		e.Color = &color.String
	}
	if productCode.Valid {
		e.ProductCode = &productCode.String
	}
	if notes.Valid {
		e.Notes = &notes.String
	}
	return &e, nil
}

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}
