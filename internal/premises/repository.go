package premises

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const premisesColumns = `id, location, rent_cost, area_m2, electricity_water_cost,
		living_cost, worker_supplies_cost, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, p Premises) (int64, error) {
	const query = `
		INSERT INTO premises (
			location, rent_cost, area_m2,
			electricity_water_cost, living_cost, worker_supplies_cost
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		p.Location, int64(p.RentCost), p.Area,
		int64(p.ElectricityWaterCost), int64(p.LivingCost), int64(p.WorkerSuppliesCost),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Premises, error) {
	query := fmt.Sprintf("SELECT %s FROM premises WHERE id = $1", premisesColumns)
	p, err := scanPremises(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PGRepository) List(ctx context.Context, req ListPremisesRequest) ([]Premises, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM premises`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM premises
		ORDER BY location ASC, id ASC
		LIMIT $1 OFFSET $2`, premisesColumns)

	rows, err := r.pool.Query(ctx, query, req.Limit, req.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var outs []Premises
	for rows.Next() {
		p, err := scanPremises(rows)
		if err != nil {
			return nil, 0, err
		}
		outs = append(outs, *p)
	}
	return outs, total, rows.Err()
}

func (r *PGRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE premises SET updated_at = NOW()"
	var args []interface{}

	for _, col := range []string{
		"location", "rent_cost", "area_m2",
		"electricity_water_cost", "living_cost", "worker_supplies_cost",
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM premises WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPremises(row pgx.Row) (*Premises, error) {
	var p Premises
	err := row.Scan(
		&p.ID, &p.Location, &p.RentCost, &p.Area, &p.ElectricityWaterCost,
		&p.LivingCost, &p.WorkerSuppliesCost, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
