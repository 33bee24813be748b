package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"serenityops/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// PostgresJobStore persists job records in the cv_jobs table. Every write
// replaces the whole row, matching the store's whole-record update contract;
// the orchestrator is the sole writer for a running job so no row locking is
// needed beyond that.
type PostgresJobStore struct {
	pool *pgxpool.Pool
}

func NewPostgresJobStore(pool *pgxpool.Pool) *PostgresJobStore {
	return &PostgresJobStore{pool: pool}
}

const jobColumns = `id, opportunity, user_id, status, progress, stage,
	COALESCE(error_message, ''), COALESCE(output_path, ''), created_at, updated_at`

func (s *PostgresJobStore) Create(ctx context.Context, opportunity, userID string) (*domain.CVJob, error) {
	job := domain.NewCVJob(opportunity, userID)
	_, err := s.pool.Exec(ctx, `INSERT INTO cv_jobs
		(id, opportunity, user_id, status, progress, stage, error_message, output_path, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),NULLIF($8,''),$9,$10)`,
		job.ID, job.Opportunity, job.UserID, string(job.Status), job.Progress, job.Stage,
		job.ErrorMessage, job.OutputPath, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return job, nil
}

func (s *PostgresJobStore) Update(ctx context.Context, id string, upd domain.JobUpdate) (*domain.CVJob, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	upd.Apply(job)

	_, err = s.pool.Exec(ctx, `UPDATE cv_jobs SET
		opportunity = $2, user_id = $3, status = $4, progress = $5, stage = $6,
		error_message = NULLIF($7,''), output_path = NULLIF($8,''), updated_at = $9
		WHERE id = $1`,
		job.ID, job.Opportunity, job.UserID, string(job.Status), job.Progress, job.Stage,
		job.ErrorMessage, job.OutputPath, job.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update job %s: %w", id, err)
	}
	return job, nil
}

func (s *PostgresJobStore) Get(ctx context.Context, id string) (*domain.CVJob, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM cv_jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, id)
		}
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

func (s *PostgresJobStore) List(ctx context.Context, userID string, limit int) ([]*domain.CVJob, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + jobColumns + ` FROM cv_jobs`
	args := []interface{}{}
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += fmt.Sprintf(` ORDER BY updated_at DESC LIMIT %d`, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.CVJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (s *PostgresJobStore) CleanupOlderThan(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	tag, err := s.pool.Exec(ctx, `DELETE FROM cv_jobs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup jobs: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanJob(row pgx.Row) (*domain.CVJob, error) {
	var job domain.CVJob
	var status string
	err := row.Scan(&job.ID, &job.Opportunity, &job.UserID, &status, &job.Progress,
		&job.Stage, &job.ErrorMessage, &job.OutputPath, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	job.Status = domain.JobStatus(status)
	return &job, nil
}
