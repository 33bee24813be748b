package infrastructure

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewJobsPool connects to the job database. The caller decides whether a
// database is configured at all; file-backed persistence is the fallback.
func NewJobsPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
