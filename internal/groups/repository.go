package groups

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stitchdesk/stitchdesk/internal/platform/db"
)

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts the group and its initial members in one transaction.
func (r *PGRepository) Create(ctx context.Context, name string, members []string) (*Group, error) {
	var group *Group
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		g := Group{Name: name}
		err := tx.QueryRow(ctx,
			`INSERT INTO worker_groups (name) VALUES ($1) RETURNING id, created_at, updated_at`,
			name,
		).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return err
		}
		for _, memberName := range members {
			var m Member
			err := tx.QueryRow(ctx,
				`INSERT INTO group_members (group_id, name) VALUES ($1, $2) RETURNING id, created_at`,
				g.ID, memberName,
			).Scan(&m.ID, &m.CreatedAt)
			if err != nil {
				return err
			}
			m.GroupID = g.ID
			m.Name = memberName
			g.Members = append(g.Members, m)
		}
		group = &g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Group, error) {
	var g Group
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM worker_groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, group_id, name, created_at FROM group_members WHERE group_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Name, &m.CreatedAt); err != nil {
			return nil, err
		}
		g.Members = append(g.Members, m)
	}
	return &g, rows.Err()
}

func (r *PGRepository) List(ctx context.Context) ([]Group, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM worker_groups ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []Group
	index := make(map[int64]int)
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		index[g.ID] = len(groups)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	memberRows, err := r.pool.Query(ctx,
		`SELECT id, group_id, name, created_at FROM group_members ORDER BY group_id, id`)
	if err != nil {
		return nil, err
	}
	defer memberRows.Close()
	for memberRows.Next() {
		var m Member
		if err := memberRows.Scan(&m.ID, &m.GroupID, &m.Name, &m.CreatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[m.GroupID]; ok {
			groups[i].Members = append(groups[i].Members, m)
		}
	}
	return groups, memberRows.Err()
}

func (r *PGRepository) Rename(ctx context.Context, id int64, name string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE worker_groups SET name = $2, updated_at = NOW() WHERE id = $1`, id, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var hasRecords bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM production_records WHERE group_id = $1)`, id,
		).Scan(&hasRecords)
		if err != nil {
			return err
		}
		if hasRecords {
			return ErrHasRecords
		}

		if _, err := tx.Exec(ctx, `DELETE FROM group_members WHERE group_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM worker_groups WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *PGRepository) AddMember(ctx context.Context, groupID int64, name string) (*Member, error) {
	m := Member{GroupID: groupID, Name: name}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO group_members (group_id, name) VALUES ($1, $2) RETURNING id, created_at`,
		groupID, name,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RemoveMember deletes a membership row. Records that snapshotted the member
// keep referring to the ID, so attribution history stays intact.
func (r *PGRepository) RemoveMember(ctx context.Context, groupID, memberID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM group_members WHERE id = $1 AND group_id = $2`, memberID, groupID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrMemberNotFound, memberID)
	}
	return nil
}
