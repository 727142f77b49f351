package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for payroll. Group and
// membership rows are owned by the groups module and only read here.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetGroup loads one group with its current members.
func (r *Repository) GetGroup(ctx context.Context, groupID int64) (*Group, error) {
	var g Group
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM worker_groups WHERE id = $1`, groupID,
	).Scan(&g.ID, &g.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrGroupNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("payroll: get group: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name FROM group_members WHERE group_id = $1 ORDER BY id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("payroll: list members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("payroll: scan member: %w", err)
		}
		g.Members = append(g.Members, m)
	}
	return &g, rows.Err()
}

// ListGroups loads every group with members.
func (r *Repository) ListGroups(ctx context.Context) ([]Group, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM worker_groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("payroll: list groups: %w", err)
	}
	defer rows.Close()

	var groups []Group
	index := make(map[int64]int)
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("payroll: scan group: %w", err)
		}
		index[g.ID] = len(groups)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	memberRows, err := r.pool.Query(ctx,
		`SELECT group_id, id, name FROM group_members ORDER BY group_id, id`)
	if err != nil {
		return nil, fmt.Errorf("payroll: list members: %w", err)
	}
	defer memberRows.Close()
	for memberRows.Next() {
		var (
			groupID int64
			m       Member
		)
		if err := memberRows.Scan(&groupID, &m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("payroll: scan member: %w", err)
		}
		if i, ok := index[groupID]; ok {
			groups[i].Members = append(groups[i].Members, m)
		}
	}
	return groups, memberRows.Err()
}

// CreateRecord persists one production record with its snapshotted
// active-member set.
func (r *Repository) CreateRecord(ctx context.Context, rec ProductionRecord) (*ProductionRecord, error) {
	const query = `
		INSERT INTO production_records (group_id, date, product_code, unit_price, quantity, active_member_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		rec.GroupID, rec.Date, rec.ProductCode, rec.UnitPrice, rec.Quantity, rec.ActiveMemberIDs,
	).Scan(&rec.ID)
	if err != nil {
		return nil, fmt.Errorf("payroll: create record: %w", err)
	}
	return &rec, nil
}

// ListRecords returns one group's records for a month, oldest first.
func (r *Repository) ListRecords(ctx context.Context, groupID int64, month Month) ([]ProductionRecord, error) {
	const query = `
		SELECT id, group_id, date, product_code, unit_price, quantity, active_member_ids
		FROM production_records
		WHERE group_id = $1 AND to_char(date, 'YYYY-MM') = $2
		ORDER BY date, id`

	rows, err := r.pool.Query(ctx, query, groupID, string(month))
	if err != nil {
		return nil, fmt.Errorf("payroll: list records: %w", err)
	}
	defer rows.Close()

	var records []ProductionRecord
	for rows.Next() {
		var rec ProductionRecord
		if err := rows.Scan(
			&rec.ID, &rec.GroupID, &rec.Date, &rec.ProductCode,
			&rec.UnitPrice, &rec.Quantity, &rec.ActiveMemberIDs,
		); err != nil {
			return nil, fmt.Errorf("payroll: scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetStatus returns the stored payroll status for a group month, defaulting
// to Pending when no row exists.
func (r *Repository) GetStatus(ctx context.Context, groupID int64, month Month) (Status, error) {
	var status string
	err := r.pool.QueryRow(ctx,
		`SELECT status FROM payroll_status WHERE group_id = $1 AND month = $2`,
		groupID, string(month),
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return StatusPending, nil
	}
	if err != nil {
		return "", fmt.Errorf("payroll: get status: %w", err)
	}
	return Status(status), nil
}

// SetStatus upserts the payroll status for a group month.
func (r *Repository) SetStatus(ctx context.Context, groupID int64, month Month, status Status) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO payroll_status (group_id, month, status, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (group_id, month) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()`,
		groupID, string(month), string(status),
	)
	if err != nil {
		return fmt.Errorf("payroll: set status: %w", err)
	}
	return nil
}
