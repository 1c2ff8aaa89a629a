package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/store-service/internal/domain"
)

// SupplierRepository defines persistence access for suppliers.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *domain.Supplier) error
	Update(ctx context.Context, supplier *domain.Supplier) error
	GetByID(ctx context.Context, id string) (*domain.Supplier, error)
	List(ctx context.Context, filter domain.ScopeFilter, limit, offset int) ([]domain.Supplier, error)
}

type supplierRepository struct {
	pool *pgxpool.Pool
}

// NewSupplierRepository returns a Postgres-backed implementation.
func NewSupplierRepository(pool *pgxpool.Pool) SupplierRepository {
	return &supplierRepository{pool: pool}
}

const supplierColumns = `id, store_id, name, email, phone, address, is_active, created_at, updated_at`

func scanSupplier(row pgx.Row) (*domain.Supplier, error) {
	var s domain.Supplier
	if err := row.Scan(
		&s.ID,
		&s.StoreID,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.Address,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	const query = `
        INSERT INTO suppliers (store_id, name, email, phone, address, is_active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		supplier.StoreID,
		supplier.Name,
		supplier.Email,
		supplier.Phone,
		supplier.Address,
		supplier.IsActive,
	).Scan(&supplier.ID, &supplier.CreatedAt, &supplier.UpdatedAt)
}

func (r *supplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	const query = `
        UPDATE suppliers SET name=$1, email=$2, phone=$3, address=$4, is_active=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		supplier.Name,
		supplier.Email,
		supplier.Phone,
		supplier.Address,
		supplier.IsActive,
		supplier.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *supplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	const query = `SELECT ` + supplierColumns + ` FROM suppliers WHERE id=$1`
	return scanSupplier(r.pool.QueryRow(ctx, query, id))
}

func (r *supplierRepository) List(ctx context.Context, filter domain.ScopeFilter, limit, offset int) ([]domain.Supplier, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if storeID, ok := filter.StoreID(); ok {
		const query = `SELECT ` + supplierColumns + ` FROM suppliers WHERE store_id=$1 ORDER BY name LIMIT $2 OFFSET $3`
		rows, err = r.pool.Query(ctx, query, storeID, limit, offset)
	} else {
		const query = `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY name LIMIT $1 OFFSET $2`
		rows, err = r.pool.Query(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []domain.Supplier
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, *supplier)
	}
	return suppliers, rows.Err()
}
