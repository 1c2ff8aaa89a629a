package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/store-service/internal/domain"
)

// StoreRepository defines persistence access for stores.
type StoreRepository interface {
	Create(ctx context.Context, store *domain.Store) error
	Update(ctx context.Context, store *domain.Store) error
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	List(ctx context.Context, filter domain.ScopeFilter) ([]domain.Store, error)
}

type storeRepository struct {
	pool *pgxpool.Pool
}

// NewStoreRepository returns a Postgres-backed implementation.
func NewStoreRepository(pool *pgxpool.Pool) StoreRepository {
	return &storeRepository{pool: pool}
}

const storeColumns = `id, organization_id, name, address, phone, is_active, created_at, updated_at`

func scanStore(row pgx.Row) (*domain.Store, error) {
	var store domain.Store
	if err := row.Scan(
		&store.ID,
		&store.OrganizationID,
		&store.Name,
		&store.Address,
		&store.Phone,
		&store.IsActive,
		&store.CreatedAt,
		&store.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) Create(ctx context.Context, store *domain.Store) error {
	const query = `
        INSERT INTO stores (organization_id, name, address, phone, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		store.OrganizationID,
		store.Name,
		store.Address,
		store.Phone,
		store.IsActive,
	).Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
}

func (r *storeRepository) Update(ctx context.Context, store *domain.Store) error {
	const query = `
        UPDATE stores SET name=$1, address=$2, phone=$3, is_active=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		store.Name,
		store.Address,
		store.Phone,
		store.IsActive,
		store.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *storeRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	const query = `SELECT ` + storeColumns + ` FROM stores WHERE id=$1`
	return scanStore(r.pool.QueryRow(ctx, query, id))
}

func (r *storeRepository) List(ctx context.Context, filter domain.ScopeFilter) ([]domain.Store, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if storeID, ok := filter.StoreID(); ok {
		const query = `SELECT ` + storeColumns + ` FROM stores WHERE id=$1`
		rows, err = r.pool.Query(ctx, query, storeID)
	} else {
		const query = `SELECT ` + storeColumns + ` FROM stores ORDER BY name`
		rows, err = r.pool.Query(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, *store)
	}
	return stores, rows.Err()
}
