package invoices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const invoiceColumns = `id, invoice_number, creation_date, due_date, type, party_id, party_name,
		items, total_amount, amount_paid, status, notes, related_to, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, inv Invoice) (int64, error) {
	const query = `
		INSERT INTO invoices (
			invoice_number, creation_date, due_date, type, party_id, party_name,
			items, total_amount, amount_paid, status, notes, related_to
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	var items []byte
	if len(inv.Items) > 0 {
		var err error
		items, err = json.Marshal(inv.Items)
		if err != nil {
			return 0, err
		}
	}
	var due pgtype.Timestamptz
	if inv.DueDate != nil {
		due = pgtype.Timestamptz{Time: *inv.DueDate, Valid: true}
	}

	var id int64
	err := r.pool.QueryRow(ctx, query,
		inv.InvoiceNumber, inv.CreationDate, due, string(inv.Type),
		inv.PartyID, inv.PartyName, items, inv.TotalAmount, inv.AmountPaid,
		string(inv.Status), textOrNull(inv.Notes), textOrNull(inv.RelatedTo),
	).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return 0, ErrDuplicateNumber
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Invoice, error) {
	query := fmt.Sprintf("SELECT %s FROM invoices WHERE id = $1", invoiceColumns)
	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *PGRepository) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	var conditions []string
	var args []interface{}

	if req.Type != nil && *req.Type != "" {
		args = append(args, *req.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if req.Status != nil && *req.Status != "" {
		args = append(args, *req.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if req.PartyID != nil {
		args = append(args, *req.PartyID)
		conditions = append(conditions, fmt.Sprintf("party_id = $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM invoices %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM invoices
		%s
		ORDER BY creation_date DESC, id DESC
		LIMIT $%d OFFSET $%d`, invoiceColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var outs []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		outs = append(outs, *inv)
	}
	return outs, total, rows.Err()
}

func (r *PGRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE invoices SET updated_at = NOW()"
	var args []interface{}

	for _, col := range []string{"due_date", "amount_paid", "status", "notes"} {
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var (
		inv              Invoice
		invType, status  string
		due              pgtype.Timestamptz
		items            []byte
		notes, relatedTo pgtype.Text
	)
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.CreationDate, &due, &invType,
		&inv.PartyID, &inv.PartyName, &items, &inv.TotalAmount, &inv.AmountPaid,
		&status, &notes, &relatedTo, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Type = InvoiceType(invType)
	inv.Status = InvoiceStatus(status)
	if due.Valid {
		inv.DueDate = &due.Time
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return nil, err
		}
	}
	if notes.Valid {
		inv.Notes = &notes.String
	}
	if relatedTo.Valid {
		inv.RelatedTo = &relatedTo.String
	}
	return &inv, nil
}

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}
