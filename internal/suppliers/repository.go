package suppliers

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

func (r *PGRepository) Create(ctx context.Context, s Supplier) (int64, error) {
	const query = `
		INSERT INTO suppliers (
			name, address, contact_person, phone, email,
			supplies_type, total_order_value, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var totalOrderValue pgtype.Int8
	if s.TotalOrderValue != nil {
		totalOrderValue = pgtype.Int8{Int64: int64(*s.TotalOrderValue), Valid: true}
	}

	var id int64
	err := r.pool.QueryRow(ctx, query,
		s.Name, textOrNull(s.Address), textOrNull(s.ContactPerson),
		textOrNull(s.Phone), textOrNull(s.Email),
		s.SuppliesType, totalOrderValue, textOrNull(s.Notes),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Supplier, error) {
	const query = `
		SELECT id, name, address, contact_person, phone, email,
		       supplies_type, total_order_value, notes, created_at, updated_at
		FROM suppliers WHERE id = $1`

	s, err := scanSupplier(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PGRepository) List(ctx context.Context, req ListSuppliersRequest) ([]Supplier, int, error) {
	var conditions []string
	var args []interface{}

	if req.SuppliesType != nil && *req.SuppliesType != "" {
		args = append(args, *req.SuppliesType)
		conditions = append(conditions, fmt.Sprintf("supplies_type = $%d", len(args)))
	}
	if req.Search != nil && *req.Search != "" {
		args = append(args, "%"+*req.Search+"%")
		pos := len(args)
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR contact_person ILIKE $%d)", pos, pos))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM suppliers %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, name, address, contact_person, phone, email,
		       supplies_type, total_order_value, notes, created_at, updated_at
		FROM suppliers
		%s
		ORDER BY name
		LIMIT $%d OFFSET $%d`, whereClause, len(args)+1, len(args)+2)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var outs []Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, err
		}
		outs = append(outs, *s)
	}
	return outs, total, rows.Err()
}

func (r *PGRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE suppliers SET updated_at = NOW()"
	var args []interface{}

	for _, col := range []string{
		"name", "address", "contact_person", "phone", "email",
		"supplies_type", "total_order_value", "notes",
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
	var inUse bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stock_entries WHERE supplier_id = $1)`, id,
	).Scan(&inUse)
	if err != nil {
		return err
	}
	if inUse {
		return ErrInUse
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSupplier(row pgx.Row) (*Supplier, error) {
	var (
		s                              Supplier
		address, contact, phone, email pgtype.Text
		notes                          pgtype.Text
		totalOrderValue                pgtype.Int8
	)
	err := row.Scan(
		&s.ID, &s.Name, &address, &contact, &phone, &email,
		&s.SuppliesType, &totalOrderValue, &notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if address.Valid {
		s.Address = &address.String
	}
	if contact.Valid {
		s.ContactPerson = &contact.String
	}
	if phone.Valid {
		s.Phone = &phone.String
	}
	if email.Valid {
		s.Email = &email.String
	}
	if totalOrderValue.Valid {
		value := money.Amount(totalOrderValue.Int64)
		s.TotalOrderValue = &value
	}
	if notes.Valid {
		s.Notes = &notes.String
	}
	return &s, nil
}

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}
