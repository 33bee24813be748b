package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"serenityops/internal/domain"
)

// FileJobStore persists one JSON document per job under a directory. It is
// the default store: it needs no infrastructure and survives restarts.
// Records are replaced whole via temp-file + rename, so a concurrent reader
// never observes a half-written record.
type FileJobStore struct {
	dir string
	log *slog.Logger
}

// NewFileJobStore creates the store, making the jobs directory if needed.
func NewFileJobStore(dir string, log *slog.Logger) (*FileJobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create jobs dir %s: %w", dir, err)
	}
	return &FileJobStore{dir: dir, log: log}, nil
}

func (s *FileJobStore) Create(ctx context.Context, opportunity, userID string) (*domain.CVJob, error) {
	job := domain.NewCVJob(opportunity, userID)
	if err := s.save(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *FileJobStore) Update(ctx context.Context, id string, upd domain.JobUpdate) (*domain.CVJob, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	upd.Apply(job)
	if err := s.save(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *FileJobStore) Get(ctx context.Context, id string) (*domain.CVJob, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, id)
		}
		return nil, fmt.Errorf("read job %s: %w", id, err)
	}
	var job domain.CVJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

func (s *FileJobStore) List(ctx context.Context, userID string, limit int) ([]*domain.CVJob, error) {
	if limit <= 0 {
		limit = 50
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list jobs dir: %w", err)
	}

	type candidate struct {
		id      string
		modTime time.Time
	}
	candidates := make([]candidate, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			id:      strings.TrimSuffix(name, ".json"),
			modTime: info.ModTime(),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime.After(candidates[j].modTime)
	})

	jobs := make([]*domain.CVJob, 0, limit)
	for _, c := range candidates {
		if len(jobs) >= limit {
			break
		}
		job, err := s.Get(ctx, c.id)
		if err != nil {
			s.log.Warn("skipping unreadable job record", "id", c.id, "error", err)
			continue
		}
		if userID != "" && job.UserID != userID {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// CleanupOlderThan deletes jobs created before the cutoff, terminal or not.
// Best-effort: individual record errors are logged and swallowed.
func (s *FileJobStore) CleanupOlderThan(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("list jobs dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	deleted := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		job, err := s.Get(ctx, id)
		if err != nil {
			s.log.Warn("cleanup: skipping unreadable job record", "id", id, "error", err)
			continue
		}
		if !job.CreatedAt.Before(cutoff) {
			continue
		}
		if err := os.Remove(s.path(id)); err != nil {
			s.log.Warn("cleanup: failed to delete job record", "id", id, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

func (s *FileJobStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileJobStore) save(job *domain.CVJob) error {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, "job-*.tmp")
	if err != nil {
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	if err := os.Rename(tmpName, s.path(job.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	return nil
}
