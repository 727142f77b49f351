package planning

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

func (r *PGRepository) Create(ctx context.Context, p Plan) (int64, error) {
	const query = `
		INSERT INTO production_plans (
			start_date, end_date, product_code, customer_id,
			quantity, planner, status, priority, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var customerID pgtype.Int8
	if p.CustomerID != nil {
		customerID = pgtype.Int8{Int64: *p.CustomerID, Valid: true}
	}
	var notes pgtype.Text
	if p.Notes != nil {
		notes = pgtype.Text{String: *p.Notes, Valid: true}
	}

	var id int64
	err := r.pool.QueryRow(ctx, query,
		p.StartDate, p.EndDate, p.ProductCode, customerID,
		p.Quantity, p.Planner, string(p.Status), string(p.Priority), notes,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Plan, error) {
	const query = `
		SELECT id, start_date, end_date, product_code, customer_id,
		       quantity, planner, status, priority, notes, created_at, updated_at
		FROM production_plans WHERE id = $1`

	p, err := scanPlan(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PGRepository) List(ctx context.Context, req ListPlansRequest) ([]Plan, int, error) {
	var conditions []string
	var args []interface{}

	if req.Status != nil {
		args = append(args, string(*req.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if req.Priority != nil {
		args = append(args, string(*req.Priority))
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM production_plans %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, start_date, end_date, product_code, customer_id,
		       quantity, planner, status, priority, notes, created_at, updated_at
		FROM production_plans
		%s
		ORDER BY start_date DESC, id DESC
		LIMIT $%d OFFSET $%d`, whereClause, len(args)+1, len(args)+2)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, err
		}
		plans = append(plans, *p)
	}
	return plans, total, rows.Err()
}

func (r *PGRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE production_plans SET updated_at = NOW()"
	var args []interface{}

	for _, col := range []string{
		"start_date", "end_date", "quantity", "planner", "status", "priority", "notes",
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM production_plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPlan(row pgx.Row) (*Plan, error) {
	var (
		p                Plan
		status, priority string
		customerID       pgtype.Int8
		notes            pgtype.Text
	)
	err := row.Scan(
		&p.ID, &p.StartDate, &p.EndDate, &p.ProductCode, &customerID,
		&p.Quantity, &p.Planner, &status, &priority, &notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = PlanStatus(status)
	p.Priority = PlanPriority(priority)
	if customerID.Valid {
		p.CustomerID = &customerID.Int64
	}
	if notes.Valid {
		p.Notes = &notes.String
	}
	return &p, nil
}
