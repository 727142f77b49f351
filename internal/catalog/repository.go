package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository provides PostgreSQL backed persistence for products.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const productColumns = `id, code, description, fabric_type, worker_price, customer_price, image_url, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, p Product) (*Product, error) {
	const query = `
		INSERT INTO products (code, description, fabric_type, worker_price, customer_price, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.Code, p.Description, p.FabricType, p.WorkerPrice, p.CustomerPrice, p.ImageURL,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("catalog: create product: %w", err)
	}
	return &p, nil
}

func (r *PGRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	sets := make([]string, 0, len(updates)+1)
	args := make([]any, 0, len(updates)+1)
	args = append(args, id)
	for col, val := range updates {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $1", strings.Join(sets, ", "))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("catalog: update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Product, error) {
	return r.getWhere(ctx, "id = $1", id)
}

func (r *PGRepository) GetByCode(ctx context.Context, code string) (*Product, error) {
	return r.getWhere(ctx, "code = $1", code)
}

func (r *PGRepository) getWhere(ctx context.Context, where string, arg any) (*Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE %s", productColumns, where)
	var p Product
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Code, &p.Description, &p.FabricType,
		&p.WorkerPrice, &p.CustomerPrice, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, arg)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get product: %w", err)
	}
	return &p, nil
}

func (r *PGRepository) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	where := "TRUE"
	args := []any{}
	if req.Search != nil && *req.Search != "" {
		args = append(args, "%"+*req.Search+"%")
		where = fmt.Sprintf("(code ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM products WHERE %s", where), args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count products: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	limitPos := len(args)
	args = append(args, req.Offset)
	offsetPos := len(args)

	query := fmt.Sprintf(
		"SELECT %s FROM products WHERE %s ORDER BY code LIMIT $%d OFFSET $%d",
		productColumns, where, limitPos, offsetPos,
	)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.Code, &p.Description, &p.FabricType,
			&p.WorkerPrice, &p.CustomerPrice, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("catalog: scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}
