package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	log.Info("Starting database migrations")

	migrations := []Migration{
		{
			Name: "create_cv_jobs_table",
			Up:   createCVJobsTable,
		},
	}

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			log.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		log.Info("Migration completed", "name", m.Name)
	}

	return nil
}

func createCVJobsTable(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS cv_jobs (
			id            CHAR(36) PRIMARY KEY,
			opportunity   TEXT NOT NULL DEFAULT '',
			user_id       TEXT NOT NULL DEFAULT 'default',
			status        VARCHAR(20) NOT NULL DEFAULT 'queued',
			progress      INT NOT NULL DEFAULT 0,
			stage         TEXT NOT NULL DEFAULT 'Queued',
			error_message TEXT,
			output_path   TEXT,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_cv_jobs_updated_at ON cv_jobs (updated_at DESC);
		CREATE INDEX IF NOT EXISTS idx_cv_jobs_user_id ON cv_jobs (user_id);
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		return err
	}
	return nil
}
