package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PermissionRepository is the fine-grained policy store. Permissions are
// keyed "<resource>.<action>" and granted per user.
type PermissionRepository interface {
	HasPermission(ctx context.Context, userID, key string) (bool, error)
	Grant(ctx context.Context, userID, key string) error
	Revoke(ctx context.Context, userID, key string) error
	ListForUser(ctx context.Context, userID string) ([]string, error)
	DerivedAdmin(ctx context.Context, userID string) (bool, error)
}

type permissionRepository struct {
	pool *pgxpool.Pool
}

// NewPermissionRepository constructs repository.
func NewPermissionRepository(pool *pgxpool.Pool) PermissionRepository {
	return &permissionRepository{pool: pool}
}

func (r *permissionRepository) HasPermission(ctx context.Context, userID, key string) (bool, error) {
	const query = `
        SELECT granted FROM user_permissions
        WHERE user_id=$1 AND permission_key=$2`
	var granted bool
	err := r.pool.QueryRow(ctx, query, userID, key).Scan(&granted)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return granted, nil
}

func (r *permissionRepository) Grant(ctx context.Context, userID, key string) error {
	const query = `
        INSERT INTO user_permissions (user_id, permission_key, granted)
        VALUES ($1, $2, TRUE)
        ON CONFLICT (user_id, permission_key) DO UPDATE SET granted=TRUE`
	_, err := r.pool.Exec(ctx, query, userID, key)
	return err
}

func (r *permissionRepository) Revoke(ctx context.Context, userID, key string) error {
	const query = `DELETE FROM user_permissions WHERE user_id=$1 AND permission_key=$2`
	_, err := r.pool.Exec(ctx, query, userID, key)
	return err
}

func (r *permissionRepository) ListForUser(ctx context.Context, userID string) ([]string, error) {
	const query = `
        SELECT permission_key FROM user_permissions
        WHERE user_id=$1 AND granted ORDER BY permission_key`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// DerivedAdmin answers the business-rule admin derivation: a database
// computed flag maintained outside this service.
func (r *permissionRepository) DerivedAdmin(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT derived_admin FROM user_admin_flags WHERE user_id=$1`
	var derived bool
	err := r.pool.QueryRow(ctx, query, userID).Scan(&derived)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return derived, nil
}
