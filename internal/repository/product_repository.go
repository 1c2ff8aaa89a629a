package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/store-service/internal/domain"
)

// ProductRepository defines persistence access for inventory items.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySKU(ctx context.Context, storeID, sku string) (*domain.Product, error)
	List(ctx context.Context, filter domain.ScopeFilter, limit, offset int) ([]domain.Product, error)
	AdjustQuantity(ctx context.Context, id string, delta int) (int, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a Postgres-backed implementation.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `id, store_id, sku, name, description, price_cents, quantity, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.StoreID,
		&p.SKU,
		&p.Name,
		&p.Description,
		&p.PriceCents,
		&p.Quantity,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (store_id, sku, name, description, price_cents, quantity, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		product.StoreID,
		product.SKU,
		product.Name,
		product.Description,
		product.PriceCents,
		product.Quantity,
		product.IsActive,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET sku=$1, name=$2, description=$3, price_cents=$4, is_active=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		product.SKU,
		product.Name,
		product.Description,
		product.PriceCents,
		product.IsActive,
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	return scanProduct(r.pool.QueryRow(ctx, query, id))
}

func (r *productRepository) GetBySKU(ctx context.Context, storeID, sku string) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE store_id=$1 AND sku=$2`
	return scanProduct(r.pool.QueryRow(ctx, query, storeID, sku))
}

func (r *productRepository) List(ctx context.Context, filter domain.ScopeFilter, limit, offset int) ([]domain.Product, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if storeID, ok := filter.StoreID(); ok {
		const query = `SELECT ` + productColumns + ` FROM products WHERE store_id=$1 ORDER BY name LIMIT $2 OFFSET $3`
		rows, err = r.pool.Query(ctx, query, storeID, limit, offset)
	} else {
		const query = `SELECT ` + productColumns + ` FROM products ORDER BY name LIMIT $1 OFFSET $2`
		rows, err = r.pool.Query(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

// AdjustQuantity applies a stock delta and returns the new quantity.
// The guard clause keeps quantity from going negative.
func (r *productRepository) AdjustQuantity(ctx context.Context, id string, delta int) (int, error) {
	const query = `
        UPDATE products SET quantity = quantity + $1, updated_at=NOW()
        WHERE id=$2 AND quantity + $1 >= 0
        RETURNING quantity`
	var quantity int
	if err := r.pool.QueryRow(ctx, query, delta, id).Scan(&quantity); err != nil {
		return 0, err
	}
	return quantity, nil
}
