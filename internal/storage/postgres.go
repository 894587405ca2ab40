package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgres stores entries in the storage_entries table created by the
// embedded migrations. Closing the backend closes the pool.
func NewPostgres(pool *pgxpool.Pool) Backend {
	return &postgresBackend{pool: pool}
}

func (r *postgresBackend) Get(ctx context.Context, origin, key string) (string, error) {
	const q = `
SELECT value
FROM storage_entries
WHERE origin = $1 AND key = $2
`
	var value string
	if err := r.pool.QueryRow(ctx, q, origin, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *postgresBackend) Set(ctx context.Context, origin, key, value string) error {
	const q = `
INSERT INTO storage_entries (origin, key, value)
VALUES ($1, $2, $3)
ON CONFLICT (origin, key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, origin, key, value)
	return err
}

func (r *postgresBackend) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *postgresBackend) Close() error {
	r.pool.Close()
	return nil
}
